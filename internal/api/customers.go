package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

func customerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return 0, false
	}
	return id, true
}

// ListCustomers returns all customers with carts and history.
// GET /api/customers
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.Customers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// CreateCustomer inserts a new customer.
// POST /api/customers
func (h *Handler) CreateCustomer(c *gin.Context) {
	var customer model.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer payload"})
		return
	}
	if customer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name is required"})
		return
	}

	created, err := h.svc.CreateCustomer(c.Request.Context(), &customer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetCustomer returns one customer.
// GET /api/customers/:id
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	customer, err := h.svc.CustomerByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer saves a customer's identity fields.
// PATCH /api/customers/:id
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	var customer model.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer payload"})
		return
	}
	customer.ID = id

	if err := h.svc.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer and its cart.
// DELETE /api/customers/:id
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CartItemRequest is the payload for adding or resizing a cart line.
type CartItemRequest struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// AddCartItem adds units of a product to the customer's cart.
// POST /api/customers/:id/cart
func (h *Handler) AddCartItem(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item and quantity are required"})
		return
	}

	customer, err := h.svc.AddCartItem(c.Request.Context(), id, req.Item, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCartItem sets the quantity of one cart line.
// PATCH /api/customers/:id/cart/:item
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	customer, err := h.svc.UpdateCartItem(c.Request.Context(), id, c.Param("item"), req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// RemoveCartItem drops one line from the cart.
// DELETE /api/customers/:id/cart/:item
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	customer, err := h.svc.RemoveCartItem(c.Request.Context(), id, c.Param("item"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ConfirmSale freezes the customer's cart into a sale.
// POST /api/customers/:id/sale
func (h *Handler) ConfirmSale(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	sale, err := h.svc.ConfirmSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}
