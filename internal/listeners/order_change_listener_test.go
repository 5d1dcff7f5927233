package listeners

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"testpark-console/internal/events"
	"testpark-console/pkg/eventbus"
	"testpark-console/pkg/websocket"
)

type fakeHub struct {
	mu       sync.Mutex
	payloads []interface{}
	types    []string
}

func (h *fakeHub) Broadcast(payload interface{}, messageType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, payload)
	h.types = append(h.types, messageType)
	return nil
}

func TestOrderChangeListener_AuditsAndBroadcasts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	hub := &fakeHub{}
	bus := eventbus.New(zap.NewNop())
	NewOrderChangeListener(hub, zap.New(core), zap.NewNop()).Register(bus)

	bus.Publish(events.OrderChangedEvent{
		EventID:  "ev-1",
		OrderNos: []int64{42},
		Action:   events.ActionStatus,
		Actor:    "김관리",
		Detail:   "완료 +message:customer",
		At:       time.Now(),
	})
	bus.Wait()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.Message)
	assert.Equal(t, "status", entry.ContextMap()["action"])

	require.Len(t, hub.payloads, 1)
	assert.Equal(t, websocket.TypeOrdersChanged, hub.types[0])
	p := hub.payloads[0].(websocket.OrdersChangedPayload)
	assert.Equal(t, []int64{42}, p.OrderNos)
	assert.Equal(t, "김관리님이 주문 #42 상태를 '완료'(으)로 변경했습니다", p.Message)
}

func TestDescribe_BulkDelete(t *testing.T) {
	msg := describe(events.OrderChangedEvent{Action: events.ActionBulkDelete, Actor: "관리자", OrderNos: []int64{1, 2, 3}})
	assert.Equal(t, "관리자님이 주문 3건을 삭제했습니다", msg)
}
