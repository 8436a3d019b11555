package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/internal/repositories"
	"pipecrm/internal/services"
)

func newDealRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := NewDealHandler(services.NewDealService(repositories.NewDealRepository(db)))
	r := gin.New()
	r.POST("/api/deals/reorder", handler.Reorder)
	return r, mock
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestReorderRequiresStageAndIDs(t *testing.T) {
	r, mock := newDealRouter(t)

	for _, body := range []string{
		`{}`,
		`{"stage":"prospect"}`,
		`{"ids":[1,2]}`,
		`{"stage":"","ids":[1]}`,
		`not json`,
	} {
		w := postJSON(r, "/api/deals/reorder", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "stage and ids[] required", body)
	}
	// валидация срабатывает до обращения к БД
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderInvalidStage(t *testing.T) {
	r, mock := newDealRouter(t)

	w := postJSON(r, "/api/deals/reorder", `{"stage":"archive","ids":[1]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid stage")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderAppliesOrderFromRequest(t *testing.T) {
	r, mock := newDealRouter(t)

	update := regexp.QuoteMeta(`UPDATE deals SET stage = $1, position = $2 WHERE id = $3`)
	mock.ExpectBegin()
	mock.ExpectExec(update).WithArgs("qualified", 1, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs("qualified", 2, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs("qualified", 3, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postJSON(r, "/api/deals/reorder", `{"stage":"qualified","ids":[7,3,9]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderEmptyListIsValid(t *testing.T) {
	r, mock := newDealRouter(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	w := postJSON(r, "/api/deals/reorder", `{"stage":"prospect","ids":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderReportsFailure(t *testing.T) {
	r, mock := newDealRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE deals SET stage = $1, position = $2 WHERE id = $3`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	w := postJSON(r, "/api/deals/reorder", `{"stage":"prospect","ids":[1]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to reorder")
	assert.NoError(t, mock.ExpectationsWereMet())
}
