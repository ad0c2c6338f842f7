package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// StatusResponse summarizes the state of the system.
type StatusResponse struct {
	Products   int     `json:"products"`
	Customers  int     `json:"customers"`
	Workbook   string  `json:"workbook,omitempty"`
	TodaySales float64 `json:"todaySales"`
	TodayItems int     `json:"todayItems"`
}

// GetStatus reports catalog size, customer count, the active workbook and
// today's totals.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.svc.CountProducts(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	customers, err := h.svc.CountCustomers(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := StatusResponse{
		Products:  products,
		Customers: customers,
		Workbook:  h.svc.Files().CurrentSpreadsheet(),
	}

	if stats, err := h.svc.DailyStats(ctx, model.Today()); err == nil {
		resp.TodaySales = stats.TotalSales
		resp.TodayItems = stats.ItemCount
	}

	c.JSON(http.StatusOK, resp)
}
