package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

const dealSelect = `
	SELECT deals.id, deals.title, deals.contact_id, deals.company_id, deals.value,
	       deals.stage, deals.position, deals.probability, deals.expected_close, deals.created_at,
	       contacts.first_name AS contact_first, contacts.last_name AS contact_last,
	       companies.name AS company_name
	FROM deals
	LEFT JOIN contacts ON deals.contact_id = contacts.id
	LEFT JOIN companies ON deals.company_id = companies.id
`

func scanDeal(row interface{ Scan(...any) error }) (*models.Deal, error) {
	var (
		d             models.Deal
		expectedClose sql.NullTime
		first, last   sql.NullString
		companyName   sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.ContactID, &d.CompanyID, &d.Value,
		&d.Stage, &d.Position, &d.Probability, &expectedClose, &d.CreatedAt,
		&first, &last, &companyName,
	)
	if err != nil {
		return nil, err
	}
	if expectedClose.Valid {
		t := expectedClose.Time
		d.ExpectedClose = &t
	}
	d.ContactFirst = first.String
	d.ContactLast = last.String
	d.CompanyName = companyName.String
	return &d, nil
}

// Создание сделки — возвращает ID новой записи.
// position не назначается: плотную нумерацию ведёт reorder.
func (r *DealRepository) Create(deal *models.Deal) (int64, error) {
	const query = `
		INSERT INTO deals (title, contact_id, company_id, value, stage, probability, expected_close)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(
		query,
		deal.Title,
		deal.ContactID,
		deal.CompanyID,
		deal.Value,
		deal.Stage,
		deal.Probability,
		deal.ExpectedClose,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание сделки: %w", err)
	}
	return id, nil
}

func (r *DealRepository) GetByID(id int) (*models.Deal, error) {
	deal, err := scanDeal(r.db.QueryRow(dealSelect+` WHERE deals.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение сделки по id: %w", err)
	}
	return deal, nil
}

func (r *DealRepository) Update(deal *models.Deal) (bool, error) {
	const query = `
		UPDATE deals
		SET title=$1, contact_id=$2, company_id=$3, value=$4, stage=$5, probability=$6, expected_close=$7
		WHERE id=$8
	`
	res, err := r.db.Exec(
		query,
		deal.Title,
		deal.ContactID,
		deal.CompanyID,
		deal.Value,
		deal.Stage,
		deal.Probability,
		deal.ExpectedClose,
		deal.ID,
	)
	if err != nil {
		return false, fmt.Errorf("обновление сделки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("обновление сделки: %w", err)
	}
	return affected > 0, nil
}

func (r *DealRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("удаление сделки: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("удаление сделки: %w", err)
	}
	return affected > 0, nil
}

type DealFilter struct {
	Stage     string
	CompanyID int
	ContactID int
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

// разрешённые колонки сортировки, чтобы не собирать ORDER BY из ввода
var allowedDealSort = map[string]bool{
	"created_at":     true,
	"value":          true,
	"position":       true,
	"probability":    true,
	"expected_close": true,
}

func (r *DealRepository) List(f DealFilter) ([]*models.Deal, int, error) {
	sortBy := f.SortBy
	if !allowedDealSort[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if f.Order == "asc" {
		order = "ASC"
	}

	where := ""
	args := []any{}
	i := 1
	if f.Stage != "" {
		where += fmt.Sprintf(" AND deals.stage = $%d", i)
		args = append(args, f.Stage)
		i++
	}
	if f.CompanyID > 0 {
		where += fmt.Sprintf(" AND deals.company_id = $%d", i)
		args = append(args, f.CompanyID)
		i++
	}
	if f.ContactID > 0 {
		where += fmt.Sprintf(" AND deals.contact_id = $%d", i)
		args = append(args, f.ContactID)
		i++
	}

	var total int
	countQ := `SELECT COUNT(*) FROM deals WHERE 1=1` + where
	if err := r.db.QueryRow(countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт сделок: %w", err)
	}

	q := dealSelect + ` WHERE 1=1` + where +
		fmt.Sprintf(" ORDER BY deals.%s %s LIMIT $%d OFFSET $%d", sortBy, order, i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("список сделок: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("чтение сделки: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, total, rows.Err()
}

// ReorderStage атомарно переписывает stage и position для переданных id:
// i-й идентификатор получает position i+1 и целевой этап, независимо от
// того, где сделка была раньше. Любая ошибка откатывает всё.
//
// Позиции в этапе-источнике перемещённой сделки не пересчитываются.
func (r *DealRepository) ReorderStage(stage string, ids []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder: начало транзакции: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE deals SET stage = $1, position = $2 WHERE id = $3`, stage, i+1, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reorder: обновление сделки %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder: фиксация: %w", err)
	}
	return nil
}

// PipelineTotals — сводка по этапам: количество, сумма и взвешенная
// сумма (value * probability/100). Группировка по «сырому» значению
// stage: неожиданные этапы образуют собственные строки.
func (r *DealRepository) PipelineTotals(dateFrom, dateTo string) ([]models.StageTotal, error) {
	where := ""
	args := []any{}
	i := 1
	if dateFrom != "" {
		where += fmt.Sprintf(" AND deals.created_at >= $%d", i)
		args = append(args, dateFrom)
		i++
	}
	if dateTo != "" {
		where += fmt.Sprintf(" AND deals.created_at <= $%d", i)
		args = append(args, dateTo)
		i++
	}

	q := `
		SELECT stage, COUNT(*) AS count,
		       COALESCE(SUM(value), 0) AS total_value,
		       COALESCE(SUM(value * (COALESCE(probability, 0) / 100.0)), 0) AS total_weighted
		FROM deals
		WHERE 1=1` + where + `
		GROUP BY stage
		ORDER BY stage`

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("сводка по пайплайну: %w", err)
	}
	defer rows.Close()

	var totals []models.StageTotal
	for rows.Next() {
		var t models.StageTotal
		if err := rows.Scan(&t.Stage, &t.Count, &t.TotalValue, &t.TotalWeighted); err != nil {
			return nil, fmt.Errorf("чтение сводки: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// SearchByTitle — для глобального поиска.
func (r *DealRepository) SearchByTitle(like string, limit int) ([]*models.Deal, error) {
	rows, err := r.db.Query(
		dealSelect+` WHERE deals.title LIKE $1 ORDER BY deals.created_at DESC LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("поиск сделок: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение сделки: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) ListAll() ([]*models.Deal, error) {
	rows, err := r.db.Query(dealSelect + ` ORDER BY deals.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("экспорт сделок: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение сделки: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
