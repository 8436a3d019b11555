package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// nullify — пустую строку пишем как NULL (как в исходных данных).
func nullify(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const contactSelect = `
	SELECT contacts.id, contacts.first_name, contacts.last_name, contacts.email,
	       contacts.phone, contacts.company_id, contacts.created_at,
	       companies.name AS company_name
	FROM contacts
	LEFT JOIN companies ON contacts.company_id = companies.id
`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var (
		c           models.Contact
		first, last sql.NullString
		email       sql.NullString
		phone       sql.NullString
		companyName sql.NullString
	)
	err := row.Scan(&c.ID, &first, &last, &email, &phone, &c.CompanyID, &c.CreatedAt, &companyName)
	if err != nil {
		return nil, err
	}
	c.FirstName = first.String
	c.LastName = last.String
	c.Email = email.String
	c.Phone = phone.String
	c.CompanyName = companyName.String
	return &c, nil
}

func (r *ContactRepository) Create(contact *models.Contact) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO contacts (first_name, last_name, email, phone, company_id) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		nullify(contact.FirstName),
		nullify(contact.LastName),
		nullify(contact.Email),
		nullify(contact.Phone),
		contact.CompanyID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание контакта: %w", err)
	}
	return id, nil
}

func (r *ContactRepository) GetByID(id int) (*models.Contact, error) {
	contact, err := scanContact(r.db.QueryRow(contactSelect+` WHERE contacts.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение контакта по id: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) Update(contact *models.Contact) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE contacts SET first_name=$1, last_name=$2, email=$3, phone=$4, company_id=$5 WHERE id=$6`,
		nullify(contact.FirstName),
		nullify(contact.LastName),
		nullify(contact.Email),
		nullify(contact.Phone),
		contact.CompanyID,
		contact.ID,
	)
	if err != nil {
		return false, fmt.Errorf("обновление контакта: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("обновление контакта: %w", err)
	}
	return affected > 0, nil
}

func (r *ContactRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("удаление контакта: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("удаление контакта: %w", err)
	}
	return affected > 0, nil
}

type ContactFilter struct {
	Query     string
	CompanyID int
	Limit     int
	Offset    int
}

// List — фильтрация как в FilterDeals: динамический WHERE + пагинация.
func (r *ContactRepository) List(f ContactFilter) ([]*models.Contact, int, error) {
	where := ""
	args := []any{}
	i := 1

	if f.Query != "" {
		like := "%" + escapeLike(f.Query) + "%"
		where += fmt.Sprintf(" AND (first_name LIKE $%d OR last_name LIKE $%d OR email LIKE $%d)", i, i+1, i+2)
		args = append(args, like, like, like)
		i += 3
	}
	if f.CompanyID > 0 {
		where += fmt.Sprintf(" AND company_id = $%d", i)
		args = append(args, f.CompanyID)
		i++
	}

	var total int
	countQ := `SELECT COUNT(*) FROM contacts WHERE 1=1` + where
	if err := r.db.QueryRow(countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт контактов: %w", err)
	}

	q := contactSelect + ` WHERE 1=1` + where +
		fmt.Sprintf(" ORDER BY contacts.created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("список контактов: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("чтение контакта: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}

// Search — для глобального поиска.
func (r *ContactRepository) Search(like string, limit int) ([]*models.Contact, error) {
	rows, err := r.db.Query(
		contactSelect+` WHERE contacts.first_name LIKE $1 OR contacts.last_name LIKE $1 OR contacts.email LIKE $1
		 ORDER BY contacts.created_at DESC LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("поиск контактов: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение контакта: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) ListAll() ([]*models.Contact, error) {
	rows, err := r.db.Query(contactSelect + ` ORDER BY contacts.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("экспорт контактов: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение контакта: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
