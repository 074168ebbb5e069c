package apperrors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppError carries an HTTP status code alongside a user-facing message.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPErrorHandler maps AppError values to their status code and a JSON body
// with a "message" field, leaving echo.HTTPError handling untouched.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if jsonErr := c.JSON(appErr.Code, echo.Map{"message": appErr.Message}); jsonErr != nil {
			c.Logger().Error(jsonErr)
		}
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if jsonErr := c.JSON(httpErr.Code, echo.Map{"message": httpErr.Message}); jsonErr != nil {
			c.Logger().Error(jsonErr)
		}
		return
	}

	c.Logger().Error(err)
	if jsonErr := c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal server error"}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
