package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SlawCzech/dev-me-up/internal/apperrors"
)

func assertAppError(t *testing.T, err error, code int) *apperrors.AppError {
	t.Helper()
	assert.Error(t, err)
	var appErr *apperrors.AppError
	if assert.True(t, errors.As(err, &appErr), "expected *apperrors.AppError, got %T", err) {
		assert.Equal(t, code, appErr.Code)
	}
	return appErr
}

func assertAppErrorMessage(t *testing.T, err error, code int, message string) {
	t.Helper()
	if appErr := assertAppError(t, err, code); appErr != nil {
		assert.Equal(t, message, appErr.Message)
	}
}
