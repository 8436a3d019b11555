package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`INSERT INTO companies (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание компании: %w", err)
	}
	return id, nil
}

func (r *CompanyRepository) GetByID(id int) (*models.Company, error) {
	company := &models.Company{}
	err := r.db.QueryRow(`SELECT id, name, created_at FROM companies WHERE id = $1`, id).
		Scan(&company.ID, &company.Name, &company.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение компании по id: %w", err)
	}
	return company, nil
}

func (r *CompanyRepository) ListPaginated(limit, offset int) ([]*models.Company, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт компаний: %w", err)
	}

	rows, err := r.db.Query(
		`SELECT id, name, created_at FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("список компаний: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("чтение компании: %w", err)
		}
		companies = append(companies, &c)
	}
	return companies, total, rows.Err()
}

// SearchByName — для глобального поиска, последние по дате создания.
func (r *CompanyRepository) SearchByName(like string, limit int) ([]*models.Company, error) {
	rows, err := r.db.Query(
		`SELECT id, name, created_at FROM companies WHERE name LIKE $1 ORDER BY created_at DESC LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("поиск компаний: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("чтение компании: %w", err)
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) ListAll() ([]*models.Company, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("экспорт компаний: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("чтение компании: %w", err)
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}
