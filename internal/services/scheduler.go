package services

import (
	"log"
	"time"
)

// Scheduler раз в минуту проверяет назначенные уведомления.
type Scheduler struct {
	Notifications *NotificationService
	Interval      time.Duration

	stop chan struct{}
}

func NewScheduler(notifications *NotificationService) *Scheduler {
	return &Scheduler{
		Notifications: notifications,
		Interval:      time.Minute,
		stop:          make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	log.Printf("[scheduler] starting, interval %s", s.Interval)
	go s.loop()
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.Notifications.DispatchDue(time.Now()); err != nil {
				log.Printf("[scheduler] error: %v", err)
			}
		}
	}
}
