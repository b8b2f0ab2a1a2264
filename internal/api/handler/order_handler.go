package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-api/internal/api/metrics"
	"github.com/99minutos/inventory-api/internal/api/middleware"
	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

var orderStatuses = map[string]bool{
	string(domain.OrderPending):   true,
	string(domain.OrderPaid):      true,
	string(domain.OrderCancelled): true,
}

// OrderHandler handles HTTP requests for orders. Every route requires an
// authenticated caller; role user is scoped to its own orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /api/orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending | paid | cancelled"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  successResponse{data=[]domain.Order}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	status := c.QueryParam("status")
	if status != "" && !orderStatuses[status] {
		return domain.NewValidationError([]string{`"status" doit être l'une des valeurs: pending, paid, cancelled`})
	}

	page, err := h.service.List(c.Request().Context(), ports.ListOrdersInput{
		Status: status,
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageLimit),
	}, caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged(page))
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  successResponse{data=domain.Order}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	o, err := h.service.Get(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(o))
}

// Create handles POST /api/orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Items"
// @Success      201   {object}  successResponse{data=domain.Order}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	o, err := h.service.Create(c.Request().Context(), req.toInput(), caller)
	if err != nil {
		return err
	}
	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderAmountTotal.Add(o.TotalAmount)
	return c.JSON(http.StatusCreated, success(o))
}
