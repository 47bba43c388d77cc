package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cafe/internal/api/servers"
	"cafe/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

// RequestValidator checks every request against the embedded OpenAPI
// document before it reaches a handler. Routes the document does not describe
// pass through untouched. Authentication is enforced by AuthMiddleware, so the
// validator accepts any security requirement.
func RequestValidator() (echo.MiddlewareFunc, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	swagger.Servers = nil

	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(ctx)
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", errors.New(validationMessage(err)))
			}
			return next(ctx)
		}
	}, nil
}

func validationMessage(err error) string {
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		return firstLine(err.Error())
	}

	messages := make([]string, 0, len(multi))
	for _, e := range multi {
		messages = append(messages, firstLine(e.Error()))
	}
	return strings.Join(messages, "; ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
