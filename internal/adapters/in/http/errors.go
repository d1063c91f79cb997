package http

import (
	"errors"
	"net/http"

	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every failed response.
type Error struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Kind    errs.Kind `json:"kind"`
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotAuthorized:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidTransition, errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders domain errors and echo's own HTTP errors as Error.
// Internal failures are logged and reported without detail.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := Error{Kind: errs.KindOf(err), Message: err.Error()}

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			body.Code = he.Code
			body.Message = http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			}
			if he.Code == http.StatusUnauthorized {
				body.Kind = errs.KindNotAuthorized
			}
		case errors.Is(err, errUnauthenticated):
			body.Code = http.StatusUnauthorized
		default:
			body.Code = statusOf(body.Kind)
		}

		if body.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			body.Message = http.StatusText(body.Code)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.Code)
		} else {
			writeErr = c.JSON(body.Code, body)
		}
		if writeErr != nil {
			logger.Warn("write error response", zap.Error(writeErr))
		}
	}
}
