package services

import (
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

func newDealService(t *testing.T) (*DealService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDealService(repositories.NewDealRepository(db)), mock
}

func TestDealCreateDefaultsAndClamps(t *testing.T) {
	svc, mock := newDealService(t)

	// без этапа — prospect; вероятность 150 обрезается до 100
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO deals`)).
		WithArgs("Big deal", nil, nil, 500.0, "prospect", 100, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	id, err := svc.Create(&models.Deal{Title: "Big deal", Value: 500, Probability: 150})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealCreateValidation(t *testing.T) {
	svc, mock := newDealService(t)

	_, err := svc.Create(&models.Deal{})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(&models.Deal{Title: "x", Stage: "won"})
	assert.ErrorIs(t, err, ErrInvalidStage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderRejectsInvalidStage(t *testing.T) {
	svc, mock := newDealService(t)

	err := svc.Reorder("archive", []int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidStage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderDelegatesToRepository(t *testing.T) {
	svc, mock := newDealService(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE deals SET stage = $1, position = $2 WHERE id = $3`)).
		WithArgs("proposal", 1, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.Reorder("proposal", []int{4}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderSerializesPerStage(t *testing.T) {
	svc, mock := newDealService(t)

	update := regexp.QuoteMeta(`UPDATE deals SET stage = $1, position = $2 WHERE id = $3`)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 10; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, svc.Reorder("qualified", []int{id}))
		}(i + 1)
	}
	wg.Wait()
	assert.NoError(t, mock.ExpectationsWereMet())
}
