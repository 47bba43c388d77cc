package http

import (
	"errors"
	"log/slog"
	"net/http"

	"cafe/internal/api/servers"
	"cafe/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errUnauthenticated = errors.New("missing or invalid bearer token")

// errorResponse maps an error to its status code and stable body.
func errorResponse(err error) (int, servers.Error) {
	if errors.Is(err, errUnauthenticated) {
		return http.StatusUnauthorized, servers.Error{
			Code:    servers.ErrorCodeUnauthenticated,
			Message: err.Error(),
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErrorResponse(httpErr)
	}

	kind := errs.KindOf(err)
	body := servers.Error{
		Code:      string(kind),
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	}

	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest, body
	case errs.KindPermissionDenied:
		return http.StatusForbidden, body
	case errs.KindConflict:
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			reason := string(conflict.Reason)
			body.Reason = &reason
		}
		return http.StatusConflict, body
	case errs.KindNotFound:
		return http.StatusNotFound, body
	case errs.KindInsufficientBalance:
		return http.StatusUnprocessableEntity, body
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable, body
	default:
		body.Code = string(errs.KindInternal)
		body.Message = "internal error"
		return http.StatusInternalServerError, body
	}
}

func httpErrorResponse(httpErr *echo.HTTPError) (int, servers.Error) {
	message := http.StatusText(httpErr.Code)
	if m, ok := httpErr.Message.(string); ok {
		message = m
	}

	body := servers.Error{Message: message}
	switch {
	case httpErr.Code == http.StatusUnauthorized:
		body.Code = servers.ErrorCodeUnauthenticated
	case httpErr.Code == http.StatusNotFound:
		body.Code = string(errs.KindNotFound)
	case httpErr.Code == http.StatusMethodNotAllowed:
		body.Code = string(errs.KindNotFound)
	case httpErr.Code < http.StatusInternalServerError:
		body.Code = string(errs.KindValidation)
	case httpErr.Code == http.StatusServiceUnavailable:
		body.Code = string(errs.KindUnavailable)
		body.Retryable = true
	default:
		body.Code = string(errs.KindInternal)
	}
	return httpErr.Code, body
}

// NewErrorHandler renders every error returned by a handler or middleware in
// the API error format and logs internal ones.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", ctx.Request().Method),
				slog.String("path", ctx.Path()),
				slog.String("error", err.Error()))
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(status)
		} else {
			err = ctx.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", slog.String("error", err.Error()))
		}
	}
}
