package handlers

import (
	"gadgethub-api/internal/adapters/http/middleware"
	"gadgethub-api/internal/core/services"
	"gadgethub-api/internal/pkg/pagination"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler serves the order ledger and lifecycle
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @Summary Create order
// @Description Buy a listing. The listing is reserved atomically; a second buyer gets 409.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOrderInput true "Listing and fulfillment method (cod_mandiri or cod_agent)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ListingID == 0 {
		return response.BadRequest(c, "listing_id is required")
	}

	order, err := h.orderService.CreateOrder(c.Context(), actor.ID, &input)
	if err != nil {
		return fail(c, err, "Failed to create order")
	}

	return response.Created(c, "Pesanan berhasil dibuat", order.ToResponse())
}

// UpdateStatus godoc
// @Summary Advance order status
// @Description Apply a lifecycle transition. Stale or unauthorized transitions are rejected.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param body body services.UpdateStatusInput true "Target status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	var input services.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.UpdateStatus(c.Context(), actor, id, &input)
	if err != nil {
		return fail(c, err, "Failed to update order")
	}

	return response.Success(c, "Status pesanan diperbarui", order.ToResponse())
}

// List godoc
// @Summary Query order ledger
// @Description Orders by buyer and/or seller
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param buyer query int false "Buyer account ID"
// @Param seller query int false "Seller account ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	buyerID := c.QueryInt("buyer", 0)
	sellerID := c.QueryInt("seller", 0)
	if buyerID < 0 || sellerID < 0 {
		return response.BadRequest(c, "Invalid account ID")
	}

	result, err := h.orderService.ListByParty(c.Context(), actor, uint(buyerID), uint(sellerID), pagination.GetParams(c))
	if err != nil {
		return fail(c, err, "Failed to get orders")
	}

	return response.Success(c, "Orders retrieved successfully", result)
}

// Mine godoc
// @Summary My orders
// @Description Purchases and sales of the current account, each side paginated with the same page and limit
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /orders/mine [get]
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.orderService.MyOrders(c.Context(), actor, pagination.GetParams(c))
	if err != nil {
		return fail(c, err, "Failed to get orders")
	}

	return response.Success(c, "Orders retrieved successfully", result)
}

// Queue godoc
// @Summary Work queue
// @Description Orders waiting on the caller's role: branch admins see their branch, agents their assigned pickups, root the completed sales.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /orders/queue [get]
func (h *OrderHandler) Queue(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.orderService.WorkQueue(c.Context(), actor, pagination.GetParams(c))
	if err != nil {
		return fail(c, err, "Failed to get queue")
	}

	return response.Success(c, "Queue retrieved successfully", result)
}

// Get godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.GetOrder(c.Context(), actor, id)
	if err != nil {
		return fail(c, err, "Failed to get order")
	}

	return response.Success(c, "Order retrieved successfully", order.ToResponse())
}

// History godoc
// @Summary Order status history
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	logs, err := h.orderService.History(c.Context(), actor, id)
	if err != nil {
		return fail(c, err, "Failed to get order history")
	}

	return response.Success(c, "History retrieved successfully", logs)
}
