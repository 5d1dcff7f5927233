package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event - любое событие консоли (например, заявка изменена).
type Event interface {
	Name() string
}

// Listener - обработчик события.
type Listener func(ctx context.Context, event Event) error

// Bus - шина событий. Обработчики выполняются асинхронно и не блокируют
// HTTP-обработчик, который опубликовал событие.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает всех подписчиков. Контекст запроса не передаётся:
// обработчик должен доработать, даже если клиент уже отключился.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait дожидается завершения всех запущенных обработчиков (используется при остановке и в тестах).
func (b *Bus) Wait() {
	b.wg.Wait()
}
