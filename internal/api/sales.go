package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// ListSales returns recorded sales. ?customer= narrows to one customer,
// ?date=YYYY-MM-DD narrows to one day.
// GET /api/sales
func (h *Handler) ListSales(c *gin.Context) {
	ctx := c.Request.Context()

	if v := c.Query("customer"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return
		}
		sales, err := h.svc.SalesByCustomer(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	if v := c.Query("date"); v != "" {
		date, err := model.ParseISO(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		sales, err := h.svc.SalesByDate(ctx, date)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	sales, err := h.svc.Sales(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// ListStats returns every recorded day.
// GET /api/stats
func (h *Handler) ListStats(c *gin.Context) {
	stats, err := h.svc.AllDailyStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetStats returns one day's aggregate. "today" is accepted as the date.
// GET /api/stats/:date
func (h *Handler) GetStats(c *gin.Context) {
	raw := c.Param("date")

	var date model.Date
	if raw == "today" {
		date = model.Today()
	} else {
		parsed, err := model.ParseISO(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	stats, err := h.svc.DailyStats(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
