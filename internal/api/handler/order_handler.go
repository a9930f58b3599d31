package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lewkins/storefront-api/internal/api/metrics"
	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// OrderHandler handles checkout and order management.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replays return the original order"
// @Param        body             body      createOrderRequest  true   "Checkout payload"
// @Success      201              {object}  createOrderResponse
// @Success      200              {object}  createOrderResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), user,
		toCreateOrderInput(req, c.Request().Header.Get(headerIdempotencyKey)))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	} else {
		metrics.OrdersCreatedTotal.WithLabelValues(res.Order.PaymentInfo.Method).Inc()
	}
	return c.JSON(status, createOrderResponse{Message: "Order created successfully", Order: res.Order})
}

// List handles GET /api/orders.
//
// @Summary      List orders
// @Description  Admins see every order, other users only their own.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	orders, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Events handles GET /api/orders/:id/events.
//
// @Summary      Order audit trail
// @Description  Without MongoDB events are written before the mutating call returns. With MongoDB they are written by background workers and may appear shortly after.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {array}   domain.OrderEvent
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/events [get]
func (h *OrderHandler) Events(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	events, err := h.service.History(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// UpdateStatus handles PUT /api/orders/:id/status.
//
// @Summary      Update order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	var req updateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), user, id, ports.UpdateOrderStatusInput{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		AdminNotes:     req.AdminNotes,
	})
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, order)
}

// Stats handles GET /api/orders/stats.
//
// @Summary      Order statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.OrderStats
// @Failure      403  {object}  errorResponse
// @Router       /api/orders/stats [get]
func (h *OrderHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Cancel handles DELETE /api/orders/:id.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  cancelOrderResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Cancel(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, cancelOrderResponse{Message: "Order cancelled successfully", Order: order})
}
