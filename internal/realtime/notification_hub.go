package realtime

import (
	"sync"

	"pipecrm/internal/models"
)

// Subscriber — один открытый SSE-клиент. Пустой UserID означает
// подписку на все уведомления.
type Subscriber struct {
	UserID string
	C      chan *models.Notification
}

type NotificationHub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		subs: make(map[*Subscriber]struct{}),
	}
}

func (h *NotificationHub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		C:      make(chan *models.Notification, 16),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
	return sub
}

func (h *NotificationHub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.C)
	}
}

// Publish рассылает уведомление подписчикам; медленный клиент с полным
// буфером пропускает сообщение, а не блокирует рассылку.
func (h *NotificationHub) Publish(n *models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.UserID != "" && n.UserID != "" && sub.UserID != n.UserID {
			continue
		}
		select {
		case sub.C <- n:
		default:
		}
	}
}
