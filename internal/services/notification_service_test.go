package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/models"
	"pipecrm/internal/realtime"
	"pipecrm/internal/repositories"
)

type mailerStub struct {
	sent []string
	err  error
}

func (m *mailerStub) SendNotificationEmail(to, subject, body string) error {
	m.sent = append(m.sent, to)
	return m.err
}

type pusherStub struct {
	pushed []string
}

func (p *pusherStub) Push(text string) error {
	p.pushed = append(p.pushed, text)
	return nil
}

var notificationColumns = []string{
	"id", "user_id", "title", "body", "seen", "metadata", "scheduled_for", "created_at",
}

func TestDispatchDueDeliversAndMarksSeen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mailer := &mailerStub{}
	pusher := &pusherStub{}
	svc := NewNotificationService(repositories.NewNotificationRepository(db), nil, mailer, pusher)

	now := time.Now()
	due := now.Add(-time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(`scheduled_for <= $1 AND seen = FALSE`)).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(1, "anna", "Call back", "Acme demo", false, `{"email":"anna@acme.io"}`, due, now).
			AddRow(2, nil, "Follow up", nil, false, nil, due, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = TRUE`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = TRUE`)).
		WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DispatchDue(now))

	// письмо только там, где в metadata есть адрес
	assert.Equal(t, []string{"anna@acme.io"}, mailer.sent)
	assert.Equal(t, []string{"Call back\nAcme demo", "Follow up"}, pusher.pushed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchDueToleratesDeliveryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mailer := &mailerStub{err: assert.AnError}
	svc := NewNotificationService(repositories.NewNotificationRepository(db), nil, mailer, nil)

	now := time.Now()
	due := now.Add(-time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(`scheduled_for <= $1 AND seen = FALSE`)).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(1, "anna", "Call", nil, false, `{"email":"anna@acme.io"}`, due, now))
	// несмотря на ошибку почты, уведомление помечается seen
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = TRUE`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, svc.DispatchDue(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePublishesToHub(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hub := realtime.NewNotificationHub()
	sub := hub.Subscribe("")
	svc := NewNotificationService(repositories.NewNotificationRepository(db), hub, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(9, nil, "New lead", nil, false, nil, nil, time.Now()))

	created, err := svc.Create(&models.Notification{Title: "New lead"})
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)

	require.Len(t, sub.C, 1)
	assert.Equal(t, "New lead", (<-sub.C).Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
