package repositories

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reorderUpdate = `UPDATE deals SET stage = $1, position = $2 WHERE id = $3`

func TestReorderStageAppliesDenseNumbering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	mock.ExpectBegin()
	// порядок массива определяет позиции: 7 → 1, 3 → 2, 9 → 3
	mock.ExpectExec(regexp.QuoteMeta(reorderUpdate)).
		WithArgs("qualified", 1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(reorderUpdate)).
		WithArgs("qualified", 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(reorderUpdate)).
		WithArgs("qualified", 3, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.ReorderStage("qualified", []int{7, 3, 9})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderStageRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(reorderUpdate)).
		WithArgs("proposal", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(reorderUpdate)).
		WithArgs("proposal", 2, 2).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = repo.ReorderStage("proposal", []int{1, 2, 3})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderStageEmptyIDsCommitsNoUpdates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = repo.ReorderStage("prospect", nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPipelineTotalsMapsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	rows := sqlmock.NewRows([]string{"stage", "count", "total_value", "total_weighted"}).
		AddRow("proposal", 2, 3000.0, 900.0).
		AddRow("prospect", 3, 1500.0, 150.0)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY stage")).WillReturnRows(rows)

	totals, err := repo.PipelineTotals("", "")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "proposal", totals[0].Stage)
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, 3000.0, totals[0].TotalValue)
	assert.Equal(t, 900.0, totals[0].TotalWeighted)
	assert.Equal(t, "prospect", totals[1].Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPipelineTotalsDateBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	rows := sqlmock.NewRows([]string{"stage", "count", "total_value", "total_weighted"})
	mock.ExpectQuery(regexp.QuoteMeta("deals.created_at >= $1 AND deals.created_at <= $2")).
		WithArgs("2026-01-01", "2026-06-30").
		WillReturnRows(rows)

	totals, err := repo.PipelineTotals("2026-01-01", "2026-06-30")
	assert.NoError(t, err)
	assert.Empty(t, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDealRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM deals")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// сортировка по неизвестной колонке сводится к created_at
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY deals.created_at DESC")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "contact_id", "company_id", "value",
			"stage", "position", "probability", "expected_close", "created_at",
			"contact_first", "contact_last", "company_name",
		}))

	_, _, err = repo.List(DealFilter{SortBy: "id; DROP TABLE deals", Limit: 20})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
