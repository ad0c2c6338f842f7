// Package api exposes the service over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
	"github.com/HusseinZein235/SalesAssociate/internal/service"
)

// Handler holds the API endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler creates the API handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all endpoints onto the group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.GET("/products", h.ListProducts)
	router.GET("/products/:item", h.GetProduct)
	router.PATCH("/products/:item", h.UpdateProduct)
	router.DELETE("/products/:item", h.DeleteProduct)

	router.POST("/import", h.Import)
	router.POST("/sync", h.Sync)

	router.GET("/customers", h.ListCustomers)
	router.POST("/customers", h.CreateCustomer)
	router.GET("/customers/:id", h.GetCustomer)
	router.PATCH("/customers/:id", h.UpdateCustomer)
	router.DELETE("/customers/:id", h.DeleteCustomer)

	router.POST("/customers/:id/cart", h.AddCartItem)
	router.PATCH("/customers/:id/cart/:item", h.UpdateCartItem)
	router.DELETE("/customers/:id/cart/:item", h.RemoveCartItem)
	router.POST("/customers/:id/sale", h.ConfirmSale)

	router.GET("/sales", h.ListSales)
	router.GET("/stats", h.ListStats)
	router.GET("/stats/:date", h.GetStats)

	router.GET("/files", h.ListFiles)
	router.POST("/files/photos", h.ImportPhotoFolder)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var stockErr *model.StockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"item":      stockErr.Item,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.Is(err, model.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
