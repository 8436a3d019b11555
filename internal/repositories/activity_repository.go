package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activitySelect = `
	SELECT activities.id, activities.type, activities.note, activities.contact_id,
	       activities.deal_id, activities.due_date, activities.created_at,
	       contacts.first_name AS contact_first, contacts.last_name AS contact_last,
	       deals.title AS deal_title
	FROM activities
	LEFT JOIN contacts ON activities.contact_id = contacts.id
	LEFT JOIN deals ON activities.deal_id = deals.id
`

func scanActivity(row interface{ Scan(...any) error }) (*models.Activity, error) {
	var (
		a           models.Activity
		note        sql.NullString
		dueDate     sql.NullTime
		first, last sql.NullString
		dealTitle   sql.NullString
	)
	err := row.Scan(&a.ID, &a.Type, &note, &a.ContactID, &a.DealID, &dueDate, &a.CreatedAt, &first, &last, &dealTitle)
	if err != nil {
		return nil, err
	}
	a.Note = note.String
	if dueDate.Valid {
		t := dueDate.Time
		a.DueDate = &t
	}
	a.ContactFirst = first.String
	a.ContactLast = last.String
	a.DealTitle = dealTitle.String
	return &a, nil
}

func (r *ActivityRepository) Create(activity *models.Activity) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO activities (type, note, contact_id, deal_id, due_date) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		activity.Type,
		nullify(activity.Note),
		activity.ContactID,
		activity.DealID,
		activity.DueDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание активности: %w", err)
	}
	return id, nil
}

func (r *ActivityRepository) GetByID(id int) (*models.Activity, error) {
	activity, err := scanActivity(r.db.QueryRow(activitySelect+` WHERE activities.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение активности по id: %w", err)
	}
	return activity, nil
}

func (r *ActivityRepository) Update(activity *models.Activity) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE activities SET type=$1, note=$2, contact_id=$3, deal_id=$4, due_date=$5 WHERE id=$6`,
		activity.Type,
		nullify(activity.Note),
		activity.ContactID,
		activity.DealID,
		activity.DueDate,
		activity.ID,
	)
	if err != nil {
		return false, fmt.Errorf("обновление активности: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("обновление активности: %w", err)
	}
	return affected > 0, nil
}

func (r *ActivityRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("удаление активности: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("удаление активности: %w", err)
	}
	return affected > 0, nil
}

type ActivityFilter struct {
	ContactID int
	DealID    int
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

var allowedActivitySort = map[string]bool{
	"created_at": true,
	"due_date":   true,
}

func (r *ActivityRepository) List(f ActivityFilter) ([]*models.Activity, int, error) {
	sortBy := f.SortBy
	if !allowedActivitySort[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if f.Order == "asc" {
		order = "ASC"
	}

	where := ""
	args := []any{}
	i := 1
	if f.ContactID > 0 {
		where += fmt.Sprintf(" AND activities.contact_id = $%d", i)
		args = append(args, f.ContactID)
		i++
	}
	if f.DealID > 0 {
		where += fmt.Sprintf(" AND activities.deal_id = $%d", i)
		args = append(args, f.DealID)
		i++
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM activities WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт активностей: %w", err)
	}

	q := activitySelect + ` WHERE 1=1` + where +
		fmt.Sprintf(" ORDER BY activities.%s %s LIMIT $%d OFFSET $%d", sortBy, order, i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("список активностей: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("чтение активности: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, total, rows.Err()
}
