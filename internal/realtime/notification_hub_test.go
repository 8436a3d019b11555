package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/models"
)

func TestPublishFiltersByUser(t *testing.T) {
	hub := NewNotificationHub()
	anna := hub.Subscribe("anna")
	boris := hub.Subscribe("boris")
	broadcast := hub.Subscribe("")

	hub.Publish(&models.Notification{ID: 1, UserID: "anna", Title: "hi"})

	require.Len(t, anna.C, 1)
	assert.Equal(t, 1, (<-anna.C).ID)
	assert.Empty(t, boris.C)
	// подписчик без user_id получает всё
	require.Len(t, broadcast.C, 1)
}

func TestPublishWithoutUserReachesEveryone(t *testing.T) {
	hub := NewNotificationHub()
	anna := hub.Subscribe("anna")
	boris := hub.Subscribe("boris")

	hub.Publish(&models.Notification{ID: 2})

	assert.Len(t, anna.C, 1)
	assert.Len(t, boris.C, 1)
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := NewNotificationHub()
	slow := hub.Subscribe("")

	// буфер 16; лишние сообщения отбрасываются, Publish не виснет
	for i := 0; i < 50; i++ {
		hub.Publish(&models.Notification{ID: i})
	}
	assert.Len(t, slow.C, 16)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewNotificationHub()
	sub := hub.Subscribe("anna")

	hub.Unsubscribe(sub)
	_, open := <-sub.C
	assert.False(t, open)

	// повторная отписка безопасна
	hub.Unsubscribe(sub)
	hub.Publish(&models.Notification{ID: 3, UserID: "anna"})
}
