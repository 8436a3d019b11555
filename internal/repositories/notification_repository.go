package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"pipecrm/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationSelect = `
	SELECT id, user_id, title, body, seen, metadata, scheduled_for, created_at
	FROM notifications
`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var (
		n            models.Notification
		userID       sql.NullString
		title, body  sql.NullString
		metadata     sql.NullString
		scheduledFor sql.NullTime
	)
	err := row.Scan(&n.ID, &userID, &title, &body, &n.Seen, &metadata, &scheduledFor, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.UserID = userID.String
	n.Title = title.String
	n.Body = body.String
	n.Metadata = metadata.String
	if scheduledFor.Valid {
		t := scheduledFor.Time
		n.ScheduledFor = &t
	}
	return &n, nil
}

func (r *NotificationRepository) Create(n *models.Notification) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO notifications (user_id, title, body, metadata, scheduled_for) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		nullify(n.UserID),
		nullify(n.Title),
		nullify(n.Body),
		nullify(n.Metadata),
		n.ScheduledFor,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание уведомления: %w", err)
	}
	return id, nil
}

func (r *NotificationRepository) GetByID(id int) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(notificationSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение уведомления по id: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) List(userID string, limit, offset int) ([]*models.Notification, error) {
	where := ""
	args := []any{}
	i := 1
	if userID != "" {
		where = fmt.Sprintf(" WHERE user_id = $%d", i)
		args = append(args, userID)
		i++
	}
	q := notificationSelect + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("список уведомлений: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ListDue — неотправленные уведомления, чей scheduled_for наступил.
func (r *NotificationRepository) ListDue(now time.Time) ([]*models.Notification, error) {
	rows, err := r.db.Query(
		notificationSelect+` WHERE scheduled_for IS NOT NULL AND scheduled_for <= $1 AND seen = FALSE`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("выборка назначенных уведомлений: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkSeen(id int) (bool, error) {
	res, err := r.db.Exec(`UPDATE notifications SET seen = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("пометка уведомления: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("пометка уведомления: %w", err)
	}
	return affected > 0, nil
}
