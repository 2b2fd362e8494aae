package cerr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWrapDBReadError(t *testing.T) {
	err := WrapDBReadError("task", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
	assert.True(t, IsCode(err, NotFound))
	assert.Equal(t, "[not_found] task not found: query: record not found", err.Error())

	err = WrapDBReadError("task", errors.New("boom"))
	assert.True(t, IsCode(err, Internal))
}

func TestWrapDBWriteError(t *testing.T) {
	err := WrapDBWriteError("assignment", gorm.ErrDuplicatedKey)
	assert.True(t, IsCode(err, AlreadyExists))
	assert.True(t, IsConflict(err))

	err = WrapDBWriteError("assignment", errors.New("disk full"))
	assert.True(t, IsCode(err, Internal))
	assert.False(t, IsConflict(err))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid status", "open", "blocked")
	assert.Equal(t, InvalidArgument, err.Code)
	assert.Equal(t, []string{"open", "blocked"}, err.Violations())

	connectErr := err.ConnectError()
	assert.Equal(t, connect.CodeInvalidArgument, connectErr.Code())
	assert.Len(t, connectErr.Details(), 2)
}

func TestChiMiddlewareWritesError(t *testing.T) {
	h := NewConvertConnectErrorChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetJSONResult(r.Context(), nil, NewError(FailedPrecondition, "cannot change status of a completed task", nil))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"code":"failed_precondition","message":"cannot change status of a completed task"}`, rec.Body.String())
}

func TestChiMiddlewareWritesResponse(t *testing.T) {
	h := NewConvertConnectErrorChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetJSONResult(r.Context(), map[string]string{"id": "42"}, nil)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"42"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
