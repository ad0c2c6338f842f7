package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// ListProducts returns the catalog. ?q= filters by substring, ?grouped=true
// returns the category map instead of the flat list.
// GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		catalog, err := h.svc.Catalog(ctx)
		if err != nil {
			writeError(c, err)
			return
		}
		if q := c.Query("q"); q != "" {
			catalog = catalog.Filter(q)
		}
		c.JSON(http.StatusOK, catalog)
		return
	}

	var products []model.Product
	var err error
	if q := c.Query("q"); q != "" {
		products, err = h.svc.SearchProducts(ctx, q)
	} else {
		products, err = h.svc.Products(ctx)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product by name.
// GET /api/products/:item
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.svc.ProductByName(c.Request.Context(), c.Param("item"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct saves manual edits to one product. The name in the path wins
// over any name in the body.
// PATCH /api/products/:item
func (h *Handler) UpdateProduct(c *gin.Context) {
	var product model.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	product.Item = c.Param("item")

	if err := h.svc.UpdateProduct(c.Request.Context(), &product); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
// DELETE /api/products/:item
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("item")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
