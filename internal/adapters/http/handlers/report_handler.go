package handlers

import (
	"gadgethub-api/internal/core/services"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves head office reports
type ReportHandler struct {
	orderService *services.OrderService
}

func NewReportHandler(orderService *services.OrderService) *ReportHandler {
	return &ReportHandler{orderService: orderService}
}

// BranchSummary godoc
// @Summary Branch sales summary
// @Description Completed orders and revenue grouped by branch
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/branch-summary [get]
func (h *ReportHandler) BranchSummary(c *fiber.Ctx) error {
	rows, err := h.orderService.BranchReport(c.Context())
	if err != nil {
		return fail(c, err, "Failed to build report")
	}

	return response.Success(c, "Branch summary", rows)
}
