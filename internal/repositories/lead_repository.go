package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadSelect = `
	SELECT id, name, email, phone, company, source, status, converted, created_at
	FROM leads
`

func scanLead(row interface{ Scan(...any) error }) (*models.Lead, error) {
	var (
		l                  models.Lead
		name, email, phone sql.NullString
		company, source    sql.NullString
	)
	err := row.Scan(&l.ID, &name, &email, &phone, &company, &source, &l.Status, &l.Converted, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Name = name.String
	l.Email = email.String
	l.Phone = phone.String
	l.Company = company.String
	l.Source = source.String
	return &l, nil
}

func (r *LeadRepository) Create(lead *models.Lead) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO leads (name, email, phone, company, source, status) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		nullify(lead.Name),
		nullify(lead.Email),
		nullify(lead.Phone),
		nullify(lead.Company),
		nullify(lead.Source),
		lead.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание лида: %w", err)
	}
	return id, nil
}

func (r *LeadRepository) GetByID(id int) (*models.Lead, error) {
	lead, err := scanLead(r.db.QueryRow(leadSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение лида по id: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) Update(lead *models.Lead) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE leads SET name=$1, email=$2, phone=$3, company=$4, source=$5, status=$6, converted=$7 WHERE id=$8`,
		nullify(lead.Name),
		nullify(lead.Email),
		nullify(lead.Phone),
		nullify(lead.Company),
		nullify(lead.Source),
		lead.Status,
		lead.Converted,
		lead.ID,
	)
	if err != nil {
		return false, fmt.Errorf("обновление лида: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("обновление лида: %w", err)
	}
	return affected > 0, nil
}

func (r *LeadRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("удаление лида: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("удаление лида: %w", err)
	}
	return affected > 0, nil
}

type LeadFilter struct {
	Query  string
	Status string
	Source string
	Limit  int
	Offset int
}

func (r *LeadRepository) List(f LeadFilter) ([]*models.Lead, int, error) {
	where := ""
	args := []any{}
	i := 1

	if f.Query != "" {
		like := "%" + escapeLike(f.Query) + "%"
		where += fmt.Sprintf(" AND (name LIKE $%d OR email LIKE $%d OR phone LIKE $%d OR company LIKE $%d)", i, i+1, i+2, i+3)
		args = append(args, like, like, like, like)
		i += 4
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, f.Status)
		i++
	}
	if f.Source != "" {
		where += fmt.Sprintf(" AND source = $%d", i)
		args = append(args, f.Source)
		i++
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт лидов: %w", err)
	}

	q := leadSelect + ` WHERE 1=1` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("список лидов: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("чтение лида: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

func (r *LeadRepository) ListAll() ([]*models.Lead, error) {
	rows, err := r.db.Query(leadSelect + ` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("экспорт лидов: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение лида: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Convert материализует лид в компанию/контакт/сделку одной транзакцией:
//  1. компания по точному совпадению имени переиспользуется, иначе создаётся
//     (пропускается, если у лида нет company);
//  2. контакт создаётся с именем лида в first_name (без разбиения);
//  3. при opts.CreateDeal создаётся сделка;
//  4. лид помечается converted = true, status = 'converted'.
//
// Любая ошибка откатывает всю транзакцию: ни одна из созданных строк не
// переживает неудачную конвертацию, лид остаётся неконвертированным.
func (r *LeadRepository) Convert(lead *models.Lead, opts models.ConvertOptions) (*models.ConversionResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("конвертация: начало транзакции: %w", err)
	}
	result, err := convertInTx(tx, lead, opts)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("конвертация: фиксация: %w", err)
	}
	return result, nil
}

func convertInTx(tx *sql.Tx, lead *models.Lead, opts models.ConvertOptions) (*models.ConversionResult, error) {
	result := &models.ConversionResult{}

	if lead.Company != "" {
		var companyID int
		err := tx.QueryRow(`SELECT id FROM companies WHERE name = $1`, lead.Company).Scan(&companyID)
		switch {
		case err == sql.ErrNoRows:
			err = tx.QueryRow(`INSERT INTO companies (name) VALUES ($1) RETURNING id`, lead.Company).Scan(&companyID)
			if err != nil {
				return nil, fmt.Errorf("конвертация: создание компании: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("конвертация: поиск компании: %w", err)
		}
		result.CompanyID = &companyID
	}

	err := tx.QueryRow(
		`INSERT INTO contacts (first_name, last_name, email, phone, company_id) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		nullify(lead.Name),
		nil,
		nullify(lead.Email),
		nullify(lead.Phone),
		result.CompanyID,
	).Scan(&result.ContactID)
	if err != nil {
		return nil, fmt.Errorf("конвертация: создание контакта: %w", err)
	}

	if opts.CreateDeal {
		var dealID int
		err := tx.QueryRow(
			`INSERT INTO deals (title, contact_id, company_id, value, stage, probability) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			opts.DealTitle,
			result.ContactID,
			result.CompanyID,
			opts.Value,
			opts.Stage,
			opts.Probability,
		).Scan(&dealID)
		if err != nil {
			return nil, fmt.Errorf("конвертация: создание сделки: %w", err)
		}
		result.DealID = &dealID
	}

	if _, err := tx.Exec(`UPDATE leads SET converted = TRUE, status = 'converted' WHERE id = $1`, lead.ID); err != nil {
		return nil, fmt.Errorf("конвертация: пометка лида: %w", err)
	}
	return result, nil
}
