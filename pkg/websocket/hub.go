package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub управляет всеми подключёнными консолями и рассылкой сообщений.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	Register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.outbox)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("Консоль подключена", zap.String("actor", client.actor))
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.outbox <- message:
				default:
					// Медленный клиент: отключаем, он перечитает список при переподключении.
					close(client.outbox)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Join регистрирует клиента. После остановки хаба клиент сразу закрывается.
func (h *Hub) Join(client *Client) {
	select {
	case h.Register <- client:
	case <-h.done:
		close(client.outbox)
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.outbox)
		h.logger.Debug("Консоль отключена", zap.String("actor", client.actor))
	}
}

// Count - число активных соединений.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast отправляет сообщение всем открытым консолям.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	raw, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- raw:
	case <-h.done:
	}
	return nil
}
