package repositories

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/models"
)

const (
	convertCompanySelect = `SELECT id FROM companies WHERE name = $1`
	convertCompanyInsert = `INSERT INTO companies (name) VALUES ($1) RETURNING id`
	convertContactInsert = `INSERT INTO contacts (first_name, last_name, email, phone, company_id) VALUES ($1,$2,$3,$4,$5) RETURNING id`
	convertDealInsert    = `INSERT INTO deals (title, contact_id, company_id, value, stage, probability) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	convertLeadMark      = `UPDATE leads SET converted = TRUE, status = 'converted' WHERE id = $1`
)

func TestConvertReusesCompanyByExactName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	lead := &models.Lead{ID: 5, Name: "Anna Lind", Email: "anna@acme.io", Company: "Acme"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(convertCompanySelect)).
		WithArgs("Acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta(convertContactInsert)).
		WithArgs("Anna Lind", nil, "anna@acme.io", nil, 42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(convertDealInsert)).
		WithArgs("Acme", 7, 42, 1000.0, "prospect", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectExec(regexp.QuoteMeta(convertLeadMark)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Convert(lead, models.ConvertOptions{
		CreateDeal:  true,
		DealTitle:   "Acme",
		Value:       1000,
		Stage:       "prospect",
		Probability: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.ContactID)
	require.NotNil(t, result.CompanyID)
	assert.Equal(t, 42, *result.CompanyID)
	require.NotNil(t, result.DealID)
	assert.Equal(t, 99, *result.DealID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConvertCreatesCompanyWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	lead := &models.Lead{ID: 8, Name: "Boris", Company: "Globex"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(convertCompanySelect)).
		WithArgs("Globex").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(convertCompanyInsert)).
		WithArgs("Globex").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(convertContactInsert)).
		WithArgs("Boris", nil, nil, nil, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta(convertLeadMark)).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Convert(lead, models.ConvertOptions{CreateDeal: false})
	require.NoError(t, err)
	assert.Equal(t, 12, result.ContactID)
	require.NotNil(t, result.CompanyID)
	assert.Equal(t, 11, *result.CompanyID)
	assert.Nil(t, result.DealID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConvertWithoutCompanySkipsCompanyStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	lead := &models.Lead{ID: 3, Name: "Carol"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(convertContactInsert)).
		WithArgs("Carol", nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	mock.ExpectQuery(regexp.QuoteMeta(convertDealInsert)).
		WithArgs("Carol", 20, nil, 0.0, "prospect", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectExec(regexp.QuoteMeta(convertLeadMark)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Convert(lead, models.ConvertOptions{
		CreateDeal:  true,
		DealTitle:   "Carol",
		Stage:       "prospect",
		Probability: 10,
	})
	require.NoError(t, err)
	assert.Nil(t, result.CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConvertRollsBackWhenDealInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	lead := &models.Lead{ID: 6, Name: "Dana", Company: "Initech"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(convertCompanySelect)).
		WithArgs("Initech").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(convertContactInsert)).
		WithArgs("Dana", nil, nil, nil, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
	mock.ExpectQuery(regexp.QuoteMeta(convertDealInsert)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	result, err := repo.Convert(lead, models.ConvertOptions{
		CreateDeal:  true,
		DealTitle:   "Initech",
		Stage:       "prospect",
		Probability: 10,
	})
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
