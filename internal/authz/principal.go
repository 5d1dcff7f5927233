package authz

import (
	"sort"
	"time"

	"testpark-console/internal/backend"
	"testpark-console/internal/entities"
)

// Principal - контекст авторизованного сотрудника. Создаётся один раз при логине,
// хранится в сессии и явно передаётся во все сервисы. Удаляется при выходе.
type Principal struct {
	SessionID   string              `json:"session_id"`
	User        entities.User       `json:"user"`
	Credentials backend.Credentials `json:"credentials"`
	Permissions map[string]bool     `json:"permissions"`
	IssuedAt    time.Time           `json:"issued_at"`
}

// NewPrincipal собирает карту прав из ответа /me.
func NewPrincipal(sessionID string, user entities.User, creds backend.Credentials, issuedAt time.Time) *Principal {
	perms := make(map[string]bool, len(user.Permissions)+len(staffDefaults)+1)
	for _, p := range user.Permissions {
		perms[p] = true
	}
	if user.IsStaff {
		for _, p := range staffDefaults {
			perms[p] = true
		}
	}
	if user.IsSuperuser {
		perms[Superuser] = true
	}
	return &Principal{
		SessionID:   sessionID,
		User:        user,
		Credentials: creds,
		Permissions: perms,
		IssuedAt:    issuedAt,
	}
}

// Actor - имя для журналов, заметок и ключей inflight.
func (p *Principal) Actor() string {
	if p == nil {
		return ""
	}
	return p.User.Name()
}

// PermissionList - выданные права в отсортированном виде, для ответа клиенту.
func (p *Principal) PermissionList() []string {
	out := make([]string, 0, len(p.Permissions))
	for perm, ok := range p.Permissions {
		if ok {
			out = append(out, perm)
		}
	}
	sort.Strings(out)
	return out
}
