package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/account-service/internal/middleware"
	"github.com/iliyamo/account-service/internal/service"
)

// InternalErrorMessage is the only thing a caller learns about a 500.
const InternalErrorMessage = "internal server error, the team has been notified"

// errorEnvelope is the body of every error response.
type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// messageResponse wraps an updated user with a confirmation message.
type messageResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}

// ErrorHandler returns the echo HTTPErrorHandler for the service. It maps
// service errors and echo HTTP errors to a status code, logs each one on the
// error logger and writes the error envelope. Internal failures are logged
// with their cause and answered with a generic message.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, message := classify(err)
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		req := c.Request()
		entry := log.JSON{
			"ip":       c.RealIP(),
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   status,
			"detail":   message,
			"duration": durationString(c),
			"ua":       req.UserAgent(),
		}
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			entry["request_id"] = id
		}
		if status >= http.StatusInternalServerError {
			entry["event"] = "CRITICAL_ERROR"
			entry["error"] = err.Error()
			entry["error_type"] = fmt.Sprintf("%T", rootCause(err))
		} else {
			entry["event"] = "HTTP_ERROR"
		}
		logger.Errorj(entry)

		var werr error
		if req.Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, errorEnvelope{Status: "error", Message: message, Data: nil})
		}
		if werr != nil {
			logger.Errorf("write error response: %v", werr)
		}
	}
}

// classify picks the status code and the caller-facing message for err.
func classify(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, InternalErrorMessage
		}
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	default:
		return http.StatusInternalServerError, InternalErrorMessage
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func durationString(c echo.Context) string {
	d := middleware.Elapsed(c)
	if d == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.4fs", d.Seconds())
}
