package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope wraps every JSON body the companion API writes.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one rejected field of a request or mutation.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Respond writes data inside an Envelope carrying status.
func Respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func OK(c echo.Context, data interface{}) error {
	return Respond(c, http.StatusOK, data)
}

// Fresh is OK for payloads that intermediaries must not cache.
func Fresh(c echo.Context, data interface{}) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return OK(c, data)
}

func Created(c echo.Context, data interface{}) error {
	return Respond(c, http.StatusCreated, data)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Invalid reports a bind or validation failure as 400 with field details.
func Invalid(c echo.Context, err error) error {
	return Respond(c, http.StatusBadRequest, ValidationErrors(err))
}

// Fail writes an *AppError with its own status. Anything else is a 500.
func Fail(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Respond(c, appErr.Status, []*AppError{appErr})
	}
	return Respond(c, http.StatusInternalServerError, "Something went wrong")
}
