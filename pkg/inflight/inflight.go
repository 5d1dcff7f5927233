// Package inflight - флаг "идёт загрузка" для действий консоли.
// Повтор того же действия того же оператора над той же заявкой отклоняется,
// пока первое не завершилось. Разные действия могут выполняться параллельно.
package inflight

import (
	"fmt"
	"sync"
)

type Key struct {
	Actor  string
	Action string
	Target int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Actor, k.Action, k.Target)
}

type Guard struct {
	mu      sync.Mutex
	running map[Key]struct{}
}

func New() *Guard {
	return &Guard{running: make(map[Key]struct{})}
}

// TryAcquire ставит флаг. Возвращает функцию снятия флага или false,
// если действие уже выполняется.
func (g *Guard) TryAcquire(key Key) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.running[key]; busy {
		return nil, false
	}
	g.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy - true, пока действие выполняется.
func (g *Guard) Busy(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.running[key]
	return busy
}

// Run выполняет fn под флагом. Флаг снимается при любом исходе,
// включая панику внутри fn (паника пробрасывается дальше).
func (g *Guard) Run(key Key, fn func() error) (busy bool, err error) {
	release, ok := g.TryAcquire(key)
	if !ok {
		return true, nil
	}
	defer release()
	return false, fn()
}
