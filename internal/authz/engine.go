package authz

import (
	"fmt"

	apperrors "testpark-console/pkg/errors"
)

// Причины отказа.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonNotStaff        = "not_staff"
	ReasonMissing         = "missing_capability"
)

// Decision - результат проверки права. Отказ несёт причину и превращается в ошибку через Err.
type Decision struct {
	Allowed    bool
	Capability string
	Reason     string
}

// DeniedError - отказ в доступе с указанием права и причины.
type DeniedError struct {
	Capability string
	Reason     string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s (%s: %s)", apperrors.ErrForbidden.Error(), e.Capability, e.Reason)
}

func (e *DeniedError) Unwrap() error {
	if e.Reason == ReasonUnauthenticated {
		return apperrors.ErrUnauthorized
	}
	return apperrors.ErrForbidden
}

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Capability: d.Capability, Reason: d.Reason}
}

// Check - явная проверка права в каждой точке входа.
func Check(p *Principal, capability string) Decision {
	d := Decision{Capability: capability}

	// Этап 1: есть ли вообще сессия
	if p == nil {
		d.Reason = ReasonUnauthenticated
		return d
	}

	// Этап 2: суперпользователь может всё
	if p.Permissions[Superuser] {
		d.Allowed = true
		return d
	}

	// Этап 3: консоль только для сотрудников
	if !p.User.IsStaff {
		d.Reason = ReasonNotStaff
		return d
	}

	// Этап 4: конкретное право
	if !p.Permissions[capability] {
		d.Reason = ReasonMissing
		return d
	}

	d.Allowed = true
	return d
}
