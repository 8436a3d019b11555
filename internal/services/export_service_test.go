package services

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/repositories"
)

func newExportService(t *testing.T) (*ExportService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewExportService(
		repositories.NewCompanyRepository(db),
		repositories.NewContactRepository(db),
		repositories.NewDealRepository(db),
		repositories.NewLeadRepository(db),
	), mock
}

func TestImportCSVUnknownEntity(t *testing.T) {
	svc, _ := newExportService(t)

	_, err := svc.ImportCSV("invoices", strings.NewReader("id\n1\n"))
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestImportCSVContactsMapsHeaderColumns(t *testing.T) {
	svc, mock := newExportService(t)

	// колонки в произвольном порядке, лишняя игнорируется
	csv := "email,ignored,first_name,last_name\n" +
		"anna@acme.io,x,Anna,Lind\n" +
		",,,\n" + // пустая строка пропускается
		"boris@globex.io,y,Boris,\n"

	insert := regexp.QuoteMeta(`INSERT INTO contacts`)
	mock.ExpectQuery(insert).
		WithArgs("Anna", "Lind", "anna@acme.io", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(insert).
		WithArgs("Boris", nil, "boris@globex.io", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	inserted, err := svc.ImportCSV("contacts", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCSVDealsNormalizesStageAndProbability(t *testing.T) {
	svc, mock := newExportService(t)

	csv := "title,value,stage,probability\n" +
		"Big,1000,wrong-stage,150\n"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO deals`)).
		WithArgs("Big", nil, nil, 1000.0, "prospect", 100, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	inserted, err := svc.ImportCSV("deals", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCSVLeadsHeader(t *testing.T) {
	svc, mock := newExportService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM leads`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "company", "source", "status", "converted", "created_at",
		}))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV("leads", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "id,name,email,phone,company,source,status,converted,created_at\n"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
