package handlers

import (
	"gadgethub-api/internal/adapters/http/middleware"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/core/services"
	"gadgethub-api/internal/pkg/pagination"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ListingHandler serves the catalog
type ListingHandler struct {
	catalogService *services.CatalogService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(catalogService *services.CatalogService) *ListingHandler {
	return &ListingHandler{catalogService: catalogService}
}

// ListingStatusRequest is the body of the status override endpoint
type ListingStatusRequest struct {
	Status string `json:"status" example:"Available"`
}

// List godoc
// @Summary List listings
// @Description Browse the catalog. Without a status filter only Available listings are returned.
// @Tags Listings
// @Produce json
// @Param branch query string false "Branch filter, Semua or all for every branch"
// @Param status query string false "Available, Booked or all"
// @Param category query string false "iPhone or Android"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /listings [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	result, err := h.catalogService.List(c.Context(), &services.ListListingsInput{
		Branch:   c.Query("branch"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}, pagination.GetParams(c))
	if err != nil {
		return fail(c, err, "Failed to get listings")
	}

	return response.Success(c, "Listings retrieved successfully", result)
}

// Get godoc
// @Summary Get listing
// @Tags Listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid listing ID")
	}

	listing, err := h.catalogService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get listing")
	}

	return response.Success(c, "Listing retrieved successfully", listing.ToResponse())
}

// Create godoc
// @Summary Create listing
// @Description Publish a device for sale. The listing takes the seller's branch.
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateListingInput true "Listing data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateListingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	listing, err := h.catalogService.Create(c.Context(), actor.ID, &input)
	if err != nil {
		return fail(c, err, "Failed to create listing")
	}

	return response.Created(c, "Listing created successfully", listing.ToResponse())
}

// SetStatus godoc
// @Summary Override listing status
// @Description Head office correction of a listing's availability. A listing held by an order that was not rejected cannot be made Available.
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body ListingStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /listings/{id}/status [put]
func (h *ListingHandler) SetStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid listing ID")
	}

	var req ListingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.catalogService.SetStatus(c.Context(), id, domain.ListingStatus(req.Status)); err != nil {
		return fail(c, err, "Failed to update listing")
	}

	listing, err := h.catalogService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get listing")
	}

	return response.Success(c, "Listing status updated", listing.ToResponse())
}
