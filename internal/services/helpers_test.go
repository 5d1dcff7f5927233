package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/backend/backendtest"
	"testpark-console/internal/entities"
	"testpark-console/pkg/customvalidator"
	"testpark-console/pkg/eventbus"
)

type fixture struct {
	srv    *backendtest.Server
	base   *BaseService
	bus    *eventbus.Bus
	events *eventRecorder
	staff  *authz.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := backendtest.New(t)
	client := backend.NewClient(srv.URL, 5*time.Second, zap.NewNop())

	v, err := customvalidator.New()
	require.NoError(t, err)

	bus := eventbus.New(zap.NewNop())
	rec := &eventRecorder{}
	bus.Subscribe("order.changed", rec.listen)

	base := NewBaseService(client, v, bus, zap.NewNop())
	base.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local) }

	return &fixture{
		srv:    srv,
		base:   base,
		bus:    bus,
		events: rec,
		staff:  principalWith(srv, "orders:view", "orders:update", "orders:status", "orders:memo", "orders:quote", "orders:delete", "orders:cafe", "orders:export"),
	}
}

func principalWith(srv *backendtest.Server, perms ...string) *authz.Principal {
	user := entities.User{ID: 7, Username: backendtest.Username, DisplayName: "김관리", IsStaff: true, Permissions: perms}
	creds := backend.Credentials{SessionID: backendtest.SessionID, CSRFToken: backendtest.CSRFToken}
	return authz.NewPrincipal("console-sid", user, creds, time.Now())
}

// mutations - запросы к бэкенду, кроме чтения.
func (f *fixture) mutations() []backendtest.Recorded {
	var out []backendtest.Recorded
	for _, r := range f.srv.Requests() {
		if r.Method != "GET" {
			out = append(out, r)
		}
	}
	return out
}

type eventRecorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *eventRecorder) listen(_ context.Context, e eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) all() []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventbus.Event(nil), r.events...)
}
