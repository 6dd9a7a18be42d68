package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/service"
	authmw "github.com/Skotchmaster/techstore/pkg/middleware/auth"
)

// status maps service errors to an HTTP code and a client-safe message.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrLineItem),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, location.ErrEmptyAddress):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrInactiveAccount):
		return http.StatusUnauthorized, "account is deactivated"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail logs err under op and converts it into an echo error.
func fail(l *slog.Logger, op string, err error) error {
	code, msg := status(err)
	if code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(op+"_error", "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get(authmw.CtxUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}
	return id, nil
}

func paramID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}
