package broadcast

import "sync"

// Broadcaster pushes a message to every connected overlay client.
type Broadcaster interface {
	BroadcastMessage(message interface{})
}

var (
	mu          sync.RWMutex
	broadcaster Broadcaster
)

func SetBroadcaster(b Broadcaster) {
	mu.Lock()
	defer mu.Unlock()
	broadcaster = b
}

// Send is safe to call before a broadcaster is registered; the message
// is dropped.
func Send(message interface{}) {
	mu.RLock()
	b := broadcaster
	mu.RUnlock()
	if b != nil {
		b.BroadcastMessage(message)
	}
}
