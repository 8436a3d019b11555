package services

import (
	"encoding/json"
	"log"
	"time"

	"pipecrm/internal/models"
	"pipecrm/internal/realtime"
	"pipecrm/internal/repositories"
)

// Pusher — внешний push-канал (Telegram); может отсутствовать.
type Pusher interface {
	Push(text string) error
}

type NotificationService struct {
	Repo   *repositories.NotificationRepository
	Hub    *realtime.NotificationHub
	Mailer EmailService // nil, если SMTP не настроен
	Pusher Pusher       // nil, если Telegram не настроен
}

func NewNotificationService(
	repo *repositories.NotificationRepository,
	hub *realtime.NotificationHub,
	mailer EmailService,
	pusher Pusher,
) *NotificationService {
	return &NotificationService{Repo: repo, Hub: hub, Mailer: mailer, Pusher: pusher}
}

func (s *NotificationService) Create(n *models.Notification) (*models.Notification, error) {
	id, err := s.Repo.Create(n)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.GetByID(int(id))
	if err != nil {
		return nil, err
	}
	if created != nil && s.Hub != nil {
		s.Hub.Publish(created)
	}
	return created, nil
}

func (s *NotificationService) List(userID string, limit, offset int) ([]*models.Notification, error) {
	return s.Repo.List(userID, limit, offset)
}

func (s *NotificationService) MarkSeen(id int) (bool, error) {
	return s.Repo.MarkSeen(id)
}

// metadata уведомления; интересует только адрес для письма
type notificationMeta struct {
	Email string `json:"email"`
}

// DispatchDue обрабатывает уведомления с наступившим scheduled_for:
// письмо при наличии адреса в metadata, push при настроенном канале,
// затем пометка seen, чтобы не отправить повторно. Ошибка доставки не
// останавливает обход.
func (s *NotificationService) DispatchDue(now time.Time) error {
	due, err := s.Repo.ListDue(now)
	if err != nil {
		return err
	}
	for _, n := range due {
		log.Printf("[scheduler] triggering notification %d %q", n.ID, n.Title)

		var meta notificationMeta
		if n.Metadata != "" {
			_ = json.Unmarshal([]byte(n.Metadata), &meta)
		}
		if meta.Email != "" && s.Mailer != nil {
			if err := s.Mailer.SendNotificationEmail(meta.Email, n.Title, n.Body); err != nil {
				log.Printf("[scheduler] failed to send email: %v", err)
			}
		}
		if s.Pusher != nil {
			text := n.Title
			if n.Body != "" {
				text += "\n" + n.Body
			}
			if err := s.Pusher.Push(text); err != nil {
				log.Printf("[scheduler] failed to push: %v", err)
			}
		}

		if _, err := s.Repo.MarkSeen(n.ID); err != nil {
			return err
		}
	}
	return nil
}
