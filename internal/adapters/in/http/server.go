package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Use case contracts the server depends on. The handlers in
// usecases/commands and usecases/queries implement them.
type (
	OrderFinder interface {
		HandleByUUID(ctx context.Context, query queries.GetOrderByUUIDQuery) (queries.OrderResponse, error)
		HandleByOrderNumber(ctx context.Context, query queries.GetOrderByOrderNumberQuery) (queries.OrderResponse, error)
	}

	ActiveOrdersLister interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.OrderResponse, error)
	}

	OrderHistoryReader interface {
		HandleByConcept(ctx context.Context, query queries.GetOrderHistoryByConceptQuery) ([]queries.OrderResponse, error)
		HandleByOrderNumber(
			ctx context.Context,
			query queries.GetOrderHistoryByOrderNumberQuery,
		) ([]queries.OrderResponse, error)
	}

	OrderDiscontinuer interface {
		Handle(ctx context.Context, cmd commands.DiscontinueOrderCommand) (*order.Order, error)
	}

	OrderPurger interface {
		Handle(ctx context.Context, cmd commands.PurgeOrderCommand) error
	}
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DiscontinueRequest is the body of POST /orders/:uuid/discontinue.
type DiscontinueRequest struct {
	Reason             string     `json:"reason"`
	ReasonConceptID    string     `json:"reasonConceptId"`
	ReasonConceptClass string     `json:"reasonConceptClass"`
	DiscontinueDate    *time.Time `json:"discontinueDate"`
	OrdererID          string     `json:"ordererId"`
}

// Discontinued is the body returned once a discontinuation is saved.
type Discontinued struct {
	UUID          string `json:"uuid"`
	OrderNumber   string `json:"orderNumber"`
	PreviousOrder string `json:"previousOrder"`
}

// Server maps HTTP requests onto the order use cases.
type Server struct {
	// Command handlers
	discontinueHandler OrderDiscontinuer
	purgeHandler       OrderPurger

	// Query handlers
	finder  OrderFinder
	active  ActiveOrdersLister
	history OrderHistoryReader
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	discontinueHandler OrderDiscontinuer,
	purgeHandler OrderPurger,
	finder OrderFinder,
	active ActiveOrdersLister,
	history OrderHistoryReader,
) *Server {
	return &Server{
		discontinueHandler: discontinueHandler,
		purgeHandler:       purgeHandler,
		finder:             finder,
		active:             active,
		history:            history,
	}
}

// RegisterRoutes binds the order routes to g.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.GET("/orders/:uuid", s.GetOrder)
	g.POST("/orders/:uuid/discontinue", s.DiscontinueOrder)
	g.DELETE("/orders/:uuid", s.PurgeOrder)
	g.GET("/orders/number/:number", s.GetOrderByNumber)
	g.GET("/orders/number/:number/history", s.GetOrderHistoryByNumber)
	g.GET("/patients/:patient/orders/active", s.GetActiveOrders)
	g.GET("/patients/:patient/concepts/:concept/orders", s.GetOrderHistoryByConcept)
}

// GetOrder handles GET /orders/:uuid.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := uuidParam(ctx, "uuid")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderByUUIDQuery(id)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.finder.HandleByUUID(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderByNumber handles GET /orders/number/:number.
func (s *Server) GetOrderByNumber(ctx echo.Context) error {
	query, err := queries.NewGetOrderByOrderNumberQuery(ctx.Param("number"))
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.finder.HandleByOrderNumber(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistoryByNumber handles GET /orders/number/:number/history.
func (s *Server) GetOrderHistoryByNumber(ctx echo.Context) error {
	query, err := queries.NewGetOrderHistoryByOrderNumberQuery(ctx.Param("number"))
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.history.HandleByOrderNumber(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetActiveOrders handles GET /patients/:patient/orders/active with the
// optional orderType, careSetting and asOf (RFC 3339) query parameters.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	patient, err := uuidParam(ctx, "patient")
	if err != nil {
		return respondError(ctx, err)
	}
	orderType, err := optionalUUIDQuery(ctx, "orderType")
	if err != nil {
		return respondError(ctx, err)
	}
	careSetting, err := optionalUUIDQuery(ctx, "careSetting")
	if err != nil {
		return respondError(ctx, err)
	}
	asOf, err := optionalTimeQuery(ctx, "asOf")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetActiveOrdersQuery(patient, orderType, careSetting, asOf)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.active.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistoryByConcept handles GET /patients/:patient/concepts/:concept/orders.
func (s *Server) GetOrderHistoryByConcept(ctx echo.Context) error {
	patient, err := uuidParam(ctx, "patient")
	if err != nil {
		return respondError(ctx, err)
	}
	concept, err := uuidParam(ctx, "concept")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderHistoryByConceptQuery(patient, concept)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.history.HandleByConcept(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// DiscontinueOrder handles POST /orders/:uuid/discontinue.
func (s *Server) DiscontinueOrder(ctx echo.Context) error {
	id, err := uuidParam(ctx, "uuid")
	if err != nil {
		return respondError(ctx, err)
	}

	var body DiscontinueRequest
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	reason := commands.DiscontinueReason{NonCoded: body.Reason}
	if body.ReasonConceptID != "" {
		conceptID, parseErr := parseUUID("reasonConceptId", body.ReasonConceptID)
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}
		reason.Coded = &clinical.Concept{ID: conceptID, Class: body.ReasonConceptClass}
	}

	var orderer *clinical.Provider
	if body.OrdererID != "" {
		ordererID, parseErr := parseUUID("ordererId", body.OrdererID)
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}
		orderer = &clinical.Provider{ID: ordererID}
	}

	cmd, err := commands.NewDiscontinueOrderCommand(id, reason, body.DiscontinueDate, orderer, nil)
	if err != nil {
		return respondError(ctx, err)
	}

	dc, err := s.discontinueHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	response := Discontinued{UUID: dc.UUID().String(), OrderNumber: dc.OrderNumber()}
	if previous := dc.PreviousOrder(); previous != nil {
		response.PreviousOrder = previous.String()
	}
	return ctx.JSON(http.StatusCreated, response)
}

// PurgeOrder handles DELETE /orders/:uuid?cascade=true|false.
func (s *Server) PurgeOrder(ctx echo.Context) error {
	id, err := uuidParam(ctx, "uuid")
	if err != nil {
		return respondError(ctx, err)
	}

	cascade := false
	if raw := ctx.QueryParam("cascade"); raw != "" {
		cascade, err = strconv.ParseBool(raw)
		if err != nil {
			return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("cascade", err))
		}
	}

	cmd, err := commands.NewPurgeOrderCommand(id, cascade)
	if err != nil {
		return respondError(ctx, err)
	}

	if handleErr := s.purgeHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// respondError maps use case errors onto status codes: unknown orders are 404,
// lifecycle rejections 422, malformed input 400 and anything else 500.
func respondError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Failed to process request"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, order.ErrLifecycle):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrReasonIsRequired):
		status, message = http.StatusBadRequest, err.Error()
	default:
		ctx.Logger().Errorf("order request failed: %v", err)
	}

	return ctx.JSON(status, Error{Code: status, Message: message})
}

func uuidParam(ctx echo.Context, name string) (kernel.UUID, error) {
	return parseUUID(name, ctx.Param(name))
}

func optionalUUIDQuery(ctx echo.Context, name string) (*kernel.UUID, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent filter
	}
	id, err := parseUUID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalTimeQuery(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent filter
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &at, nil
}

func parseUUID(name, raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(name)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
