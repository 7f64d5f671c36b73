package input

import (
	"log/slog"
	"sync"

	"github.com/Versifine/locomotion/internal/physics"
)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches action edges synchronously to subscribers on the caller's
// goroutine and holds the current move axis.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Action][]subscription
	axis     physics.Vec2
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Action][]subscription),
	}
}

// Subscribe registers handler for action. The returned func removes exactly
// this registration and is safe to call more than once.
func (b *Bus) Subscribe(action Action, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[action] = append(b.handlers[action], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(action, id) })
	}
}

func (b *Bus) remove(action Action, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[action]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		b.handlers[action] = append(subs[:i:i], subs[i+1:]...)
		break
	}
	if len(b.handlers[action]) == 0 {
		delete(b.handlers, action)
	}
}

func (b *Bus) Publish(action Action, edge Edge) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[action]))
	copy(subs, b.handlers[action])
	b.mu.RUnlock()

	for _, s := range subs {
		dispatch(action, edge, s.handler)
	}
}

func dispatch(action Action, edge Edge, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Input handler panicked", "action", action, "edge", edge, "panic", r)
		}
	}()
	h(edge)
}

// Subscribers returns how many handlers are registered for action.
func (b *Bus) Subscribers(action Action) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[action])
}

func (b *Bus) SetMoveAxis(v physics.Vec2) {
	b.mu.Lock()
	b.axis = v
	b.mu.Unlock()
}

func (b *Bus) MoveAxis() physics.Vec2 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.axis
}
