// Package http is the JSON/HTTP transport of the fulfillment core. Handlers
// translate requests into commands and queries, run them as the actor taken
// from the bearer token and render results in the shapes of
// internal/api/servers.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/loyalty"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/model/stats"
	"cafe/internal/api/servers"
	"cafe/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// StatsSubscriber streams every newly computed statistics value.
type StatsSubscriber interface {
	Subscribe(buffer int) (<-chan stats.AggregateStats, func())
}

// CommandRecorder counts command outcomes.
type CommandRecorder interface {
	RecordCommand(command string, err error)
}

// Handlers are the use cases the server exposes.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	AssignCourier     commands.AssignCourierCommandHandler
	ChangeOrderStatus commands.ChangeOrderStatusCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	DuplicateOrder    commands.DuplicateOrderCommandHandler
	DeleteOrder       commands.DeleteOrderCommandHandler
	AccruePoints      commands.AccruePointsCommandHandler
	RedeemPoints      commands.RedeemPointsCommandHandler
	AccrueOrderPoints commands.AccrueOrderPointsCommandHandler
	UpdateProgram     commands.UpdateLoyaltyProgramCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	GetAllCouriers    queries.GetAllCouriersQueryHandler
	GetStats          queries.GetStatsQueryHandler
	GetAccountBalance queries.GetAccountBalanceQueryHandler
	GetProgram        queries.GetLoyaltyProgramQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	stats    StatsSubscriber
	recorder CommandRecorder
	logger   *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server. recorder may be nil.
func NewServer(handlers Handlers, statsFeed StatsSubscriber, recorder CommandRecorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		stats:    statsFeed,
		recorder: recorder,
		logger:   logger,
	}
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	status := order.Unknown
	if params.Status != nil {
		parsed, err := order.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		status = parsed
	}
	orderType := order.UnknownType
	if params.Type != nil {
		parsed, err := order.ParseType(*params.Type)
		if err != nil {
			return err
		}
		orderType = parsed
	}

	var search string
	if params.Q != nil {
		search = *params.Q
	}

	views, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), queries.NewListOrdersQuery(status, orderType, search))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrders(views))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	who, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body servers.NewOrder
	if err = ctx.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	orderID, err := optionalID(body.Id)
	if err != nil {
		return err
	}
	orderType, err := order.ParseType(body.Type)
	if err != nil {
		return err
	}
	var location *kernel.DeliveryLocation
	if body.DeliveryLocation != nil {
		loc, locErr := kernel.NewDeliveryLocation(body.DeliveryLocation.Address, body.DeliveryLocation.City)
		if locErr != nil {
			return locErr
		}
		location = &loc
	}
	lines := make([]commands.DraftLine, 0, len(body.LineItems))
	for _, item := range body.LineItems {
		lines = append(lines, commands.DraftLine{ProductID: item.ProductId, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(who, orderID, body.CustomerName, orderType, lines, location)
	if err != nil {
		return err
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("create_order", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toOrder(queries.NewOrderView(o)))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId uuid.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(view))
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteOrderCommand(who, id)
	if err != nil {
		return err
	}

	if err = s.observe("delete_order", s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd)); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/{orderId}/courier. Without a
// courierId in the body the caller claims the order for themselves.
func (s *Server) AssignCourier(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}

	var body servers.AssignCourier
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("body", err)
		}
	}
	courierID := who.ID()
	if body.CourierId != nil {
		if courierID, err = kernel.UUIDFromBytes(body.CourierId[:]); err != nil {
			return err
		}
	}

	cmd, err := commands.NewAssignCourierCommand(who, id, courierID)
	if err != nil {
		return err
	}
	o, err := s.handlers.AssignCourier.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("assign_courier", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderView(o)))
}

// ChangeOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}

	var body servers.StatusChange
	if err = ctx.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	to, err := order.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(who, id, to)
	if err != nil {
		return err
	}
	o, err := s.handlers.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("change_order_status", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderView(o)))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(who, id)
	if err != nil {
		return err
	}

	o, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("cancel_order", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderView(o)))
}

// DuplicateOrder handles POST /api/v1/orders/{orderId}/duplicate.
func (s *Server) DuplicateOrder(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}

	var body servers.DuplicateOrder
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("body", err)
		}
	}
	newID, err := optionalID(body.Id)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDuplicateOrderCommand(who, id, newID)
	if err != nil {
		return err
	}
	o, err := s.handlers.DuplicateOrder.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("duplicate_order", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toOrder(queries.NewOrderView(o)))
}

// AccrueOrderPoints handles POST /api/v1/orders/{orderId}/loyalty-accrual.
func (s *Server) AccrueOrderPoints(ctx echo.Context, orderId uuid.UUID) error {
	who, id, err := actorAndOrder(ctx, orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAccrueOrderPointsCommand(who, id)
	if err != nil {
		return err
	}

	result, err := s.handlers.AccrueOrderPoints.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("accrue_order_points", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toAccrualResult(result))
}

// GetCouriers handles GET /api/v1/couriers - retrieves all couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return err
	}

	response := make([]servers.Courier, len(couriers))
	for i, courier := range couriers {
		response[i] = servers.Courier{
			Id:   courier.ID.Bytes(),
			Name: courier.Name,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(ctx echo.Context) error {
	latest, err := s.handlers.GetStats.Handle(queries.NewGetStatsQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toStats(latest))
}

// GetLoyaltyAccount handles GET /api/v1/loyalty/accounts/{customerId}.
func (s *Server) GetLoyaltyAccount(ctx echo.Context, customerId string) error {
	query, err := queries.NewGetAccountBalanceQuery(customerId)
	if err != nil {
		return err
	}

	view, err := s.handlers.GetAccountBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toAccountBalance(view))
}

// AccruePoints handles POST /api/v1/loyalty/accounts/{customerId}/accruals.
func (s *Server) AccruePoints(ctx echo.Context, customerId string) error {
	who, points, err := actorAndPoints(ctx)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAccruePointsCommand(who, customerId, points)
	if err != nil {
		return err
	}

	account, err := s.handlers.AccruePoints.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("accrue_points", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toAccount(account))
}

// RedeemPoints handles POST /api/v1/loyalty/accounts/{customerId}/redemptions.
func (s *Server) RedeemPoints(ctx echo.Context, customerId string) error {
	who, points, err := actorAndPoints(ctx)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRedeemPointsCommand(who, customerId, points)
	if err != nil {
		return err
	}

	account, err := s.handlers.RedeemPoints.Handle(ctx.Request().Context(), cmd)
	if err = s.observe("redeem_points", err); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toAccount(account))
}

// GetLoyaltyProgram handles GET /api/v1/loyalty/program.
func (s *Server) GetLoyaltyProgram(ctx echo.Context) error {
	view, err := s.handlers.GetProgram.Handle(ctx.Request().Context(), queries.NewGetLoyaltyProgramQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProgram(view))
}

// UpdateLoyaltyProgram handles PUT /api/v1/loyalty/program.
func (s *Server) UpdateLoyaltyProgram(ctx echo.Context) error {
	who, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var body servers.Program
	if err = ctx.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	program, err := programFromBody(body)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLoyaltyProgramCommand(who, program)
	if err != nil {
		return err
	}
	if err = s.observe("update_loyalty_program", s.handlers.UpdateProgram.Handle(ctx.Request().Context(), cmd)); err != nil {
		return err
	}
	return s.GetLoyaltyProgram(ctx)
}

func (s *Server) observe(command string, err error) error {
	if s.recorder != nil {
		s.recorder.RecordCommand(command, err)
	}
	return err
}

func actorAndOrder(ctx echo.Context, orderId uuid.UUID) (actor.Actor, kernel.UUID, error) {
	who, err := actorFrom(ctx)
	if err != nil {
		return actor.Actor{}, kernel.UUID{}, err
	}
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return actor.Actor{}, kernel.UUID{}, err
	}
	return who, id, nil
}

func actorAndPoints(ctx echo.Context) (actor.Actor, int64, error) {
	who, err := actorFrom(ctx)
	if err != nil {
		return actor.Actor{}, 0, err
	}
	var body servers.PointsChange
	if err = ctx.Bind(&body); err != nil {
		return actor.Actor{}, 0, errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return who, body.Points, nil
}

func optionalID(id *uuid.UUID) (kernel.UUID, error) {
	if id == nil {
		return kernel.NewUUID(), nil
	}
	return kernel.UUIDFromBytes(id[:])
}

func programFromBody(body servers.Program) (loyalty.Program, error) {
	rate, err := decimal.NewFromString(body.PointsPerDollar)
	if err != nil {
		return loyalty.Program{}, errs.NewValueIsInvalidErrorWithCause("pointsPerDollar", err)
	}

	rewards := make([]loyalty.Reward, 0, len(body.Rewards))
	var rewardErrs []error
	for _, r := range body.Rewards {
		reward, rewardErr := loyalty.NewReward(r.PointsThreshold, r.Name)
		rewardErrs = append(rewardErrs, rewardErr)
		rewards = append(rewards, reward)
	}
	if err = errors.Join(rewardErrs...); err != nil {
		return loyalty.Program{}, err
	}
	return loyalty.NewProgram(rate, rewards)
}
