package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"bind", ErrBindError, http.StatusBadRequest},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"rate limited", ErrTooManyRequests, http.StatusTooManyRequests},
		{"database", Wrap(errors.New("boom"), "查询失败"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("borrow: %w", Conflict("副本不可借"))

	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestGetAppError_HidesPlainErrors(t *testing.T) {
	appErr := GetAppError(errors.New("dial tcp: connection refused"))

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, "系统内部错误", appErr.Message)
	assert.NotNil(t, appErr.Err)
}

func TestWrap_KeepsCauseForErrorsIs(t *testing.T) {
	cause := errors.New("deadlock")
	err := Wrap(cause, "更新失败")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeDatabaseError, err.Code)
}
