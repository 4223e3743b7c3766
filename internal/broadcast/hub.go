package broadcast

import (
	"sync"

	"github.com/stemsi/exam-countdown/internal/model"
)

// Hub fans countdown frames out to any number of displays.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan model.Frame
	closed bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan model.Frame)}
}

// Subscribe registers a new observer channel. The returned func removes the
// subscription and closes the channel; it may be called more than once.
func (hub *Hub) Subscribe(buffer int) (<-chan model.Frame, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.Frame, buffer)

	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := hub.nextID
	hub.nextID++
	hub.subs[id] = ch
	hub.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			hub.mu.Lock()
			if sub, ok := hub.subs[id]; ok {
				delete(hub.subs, id)
				close(sub)
			}
			hub.mu.Unlock()
		})
	}
}

// Broadcast delivers frame to every subscriber without blocking. A display
// that is not keeping up misses the frame and catches up on the next one.
func (hub *Hub) Broadcast(frame model.Frame) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, ch := range hub.subs {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (hub *Hub) Subscribers() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subs)
}

// Close closes every subscriber channel and rejects new subscriptions.
func (hub *Hub) Close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return
	}
	hub.closed = true
	for id, ch := range hub.subs {
		delete(hub.subs, id)
		close(ch)
	}
}
