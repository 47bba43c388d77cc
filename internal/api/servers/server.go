package servers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/v1/couriers)
	GetCouriers(ctx echo.Context) error
	// (GET /api/v1/loyalty/accounts/{customerId})
	GetLoyaltyAccount(ctx echo.Context, customerId string) error
	// (POST /api/v1/loyalty/accounts/{customerId}/accruals)
	AccruePoints(ctx echo.Context, customerId string) error
	// (POST /api/v1/loyalty/accounts/{customerId}/redemptions)
	RedeemPoints(ctx echo.Context, customerId string) error
	// (GET /api/v1/loyalty/program)
	GetLoyaltyProgram(ctx echo.Context) error
	// (PUT /api/v1/loyalty/program)
	UpdateLoyaltyProgram(ctx echo.Context) error
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (DELETE /api/v1/orders/{orderId})
	DeleteOrder(ctx echo.Context, orderId uuid.UUID) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId uuid.UUID) error
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId uuid.UUID) error
	// (POST /api/v1/orders/{orderId}/courier)
	AssignCourier(ctx echo.Context, orderId uuid.UUID) error
	// (POST /api/v1/orders/{orderId}/duplicate)
	DuplicateOrder(ctx echo.Context, orderId uuid.UUID) error
	// (POST /api/v1/orders/{orderId}/loyalty-accrual)
	AccrueOrderPoints(ctx echo.Context, orderId uuid.UUID) error
	// (POST /api/v1/orders/{orderId}/status)
	ChangeOrderStatus(ctx echo.Context, orderId uuid.UUID) error
	// (GET /api/v1/stats)
	GetStats(ctx echo.Context) error
	// (GET /api/v1/stats/stream)
	StreamStats(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetCouriers(ctx echo.Context) error {
	return w.Handler.GetCouriers(ctx)
}

func (w *ServerInterfaceWrapper) GetLoyaltyAccount(ctx echo.Context) error {
	customerId, err := bindCustomerID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetLoyaltyAccount(ctx, customerId)
}

func (w *ServerInterfaceWrapper) AccruePoints(ctx echo.Context) error {
	customerId, err := bindCustomerID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AccruePoints(ctx, customerId)
}

func (w *ServerInterfaceWrapper) RedeemPoints(ctx echo.Context) error {
	customerId, err := bindCustomerID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RedeemPoints(ctx, customerId)
}

func (w *ServerInterfaceWrapper) GetLoyaltyProgram(ctx echo.Context) error {
	return w.Handler.GetLoyaltyProgram(ctx)
}

func (w *ServerInterfaceWrapper) UpdateLoyaltyProgram(ctx echo.Context) error {
	return w.Handler.UpdateLoyaltyProgram(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}
	err = runtime.BindQueryParameter("form", true, false, "type", ctx.QueryParams(), &params.Type)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter type: %s", err))
	}
	err = runtime.BindQueryParameter("form", true, false, "q", ctx.QueryParams(), &params.Q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter q: %s", err))
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) DeleteOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) AssignCourier(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AssignCourier(ctx, orderId)
}

func (w *ServerInterfaceWrapper) DuplicateOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DuplicateOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) AccrueOrderPoints(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AccrueOrderPoints(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetStats(ctx echo.Context) error {
	return w.Handler.GetStats(ctx)
}

func (w *ServerInterfaceWrapper) StreamStats(ctx echo.Context) error {
	return w.Handler.StreamStats(ctx)
}

func bindOrderID(ctx echo.Context) (uuid.UUID, error) {
	var orderId uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.UUID{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

func bindCustomerID(ctx echo.Context) (string, error) {
	var customerId string
	err := runtime.BindStyledParameterWithOptions("simple", "customerId", ctx.Param("customerId"), &customerId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter customerId: %s", err))
	}
	return customerId, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends baseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/couriers", wrapper.GetCouriers)
	router.GET(baseURL+"/api/v1/loyalty/accounts/:customerId", wrapper.GetLoyaltyAccount)
	router.POST(baseURL+"/api/v1/loyalty/accounts/:customerId/accruals", wrapper.AccruePoints)
	router.POST(baseURL+"/api/v1/loyalty/accounts/:customerId/redemptions", wrapper.RedeemPoints)
	router.GET(baseURL+"/api/v1/loyalty/program", wrapper.GetLoyaltyProgram)
	router.PUT(baseURL+"/api/v1/loyalty/program", wrapper.UpdateLoyaltyProgram)
	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.DELETE(baseURL+"/api/v1/orders/:orderId", wrapper.DeleteOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancel", wrapper.CancelOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/courier", wrapper.AssignCourier)
	router.POST(baseURL+"/api/v1/orders/:orderId/duplicate", wrapper.DuplicateOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/loyalty-accrual", wrapper.AccrueOrderPoints)
	router.POST(baseURL+"/api/v1/orders/:orderId/status", wrapper.ChangeOrderStatus)
	router.GET(baseURL+"/api/v1/stats", wrapper.GetStats)
	router.GET(baseURL+"/api/v1/stats/stream", wrapper.StreamStats)
}
