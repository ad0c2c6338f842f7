package model

// Customer is a buyer with an in-progress purchase list and past sales.
type Customer struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Note         string         `json:"note,omitempty"`
	Place        string         `json:"place"`
	PharmacyName string         `json:"pharmacyName"`
	Cart         []PurchaseItem `json:"cart"`
	History      []Sale         `json:"history"`
}

// PurchaseItem is one line of a cart or a confirmed sale. It snapshots the
// quantity and the computed line total at the time it was added or edited.
type PurchaseItem struct {
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartQuantity returns the quantity of item already reserved in the cart.
func (c *Customer) CartQuantity(item string) int {
	for _, line := range c.Cart {
		if line.Item == item {
			return line.Quantity
		}
	}
	return 0
}

// CartTotal sums the cart's line totals.
func (c *Customer) CartTotal() float64 {
	var total float64
	for _, line := range c.Cart {
		total += line.LineTotal
	}
	return total
}
