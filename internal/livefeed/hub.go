package livefeed

import (
	"context"
	"sync"
	"sync/atomic"

	sonic "github.com/bytedance/sonic"
	"github.com/nfaconnect/matchday/internal/platform/logging"
)

const subscriberBuffer = 64

// Event is one named payload fanned out to subscribers. Data holds the
// already serialized JSON body.
type Event struct {
	Name string
	Data []byte
}

// Subscription is one attached consumer. Receive from C until the hub
// closes it on Unsubscribe.
type Subscription struct {
	C  chan Event
	id uint64
}

// Hub fans events out to the current set of subscribers. Delivery is
// best effort: there is no replay, and a subscriber whose buffer is
// full loses the event rather than stalling the publisher.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	dropped atomic.Uint64
	logger  *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		logger: logger,
	}
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		C:  make(chan Event, subscriberBuffer),
		id: h.nextID,
	}
	h.subs[sub.id] = sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.C)
}

// Publish serializes payload and delivers it to every current
// subscriber without blocking. Returns the number of subscribers that
// received the event.
func (h *Hub) Publish(ctx context.Context, name string, payload any) int {
	data, err := sonic.Marshal(payload)
	if err != nil {
		h.logger.WarnContext(ctx, "drop live event with unserializable payload", "event", name, "error", err)
		return 0
	}

	event := Event{Name: name, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		select {
		case sub.C <- event:
			delivered++
		default:
			h.dropped.Add(1)
			h.logger.WarnContext(ctx, "live event dropped for slow subscriber", "event", name, "subscriber_id", sub.id)
		}
	}
	return delivered
}

// SubscriberCount reports the current number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports the total number of deliveries lost to full
// subscriber buffers since the hub was created.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
