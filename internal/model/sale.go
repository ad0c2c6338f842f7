package model

// Sale is a frozen copy of a customer's cart taken at confirmation time.
// It is immutable once created.
type Sale struct {
	ID           int64          `json:"id"`
	CustomerID   int64          `json:"customerId"`
	CustomerName string         `json:"customerName"`
	PharmacyName string         `json:"pharmacyName"`
	Items        []PurchaseItem `json:"items"`
	TotalAmount  float64        `json:"totalAmount"`
	Date         Date           `json:"date"`
	CreatedAt    int64          `json:"createdAt"` // unix milliseconds
}

// ItemCount sums the quantities across the sale's lines.
func (s *Sale) ItemCount() int {
	var count int
	for _, line := range s.Items {
		count += line.Quantity
	}
	return count
}

// DailyStats accumulates sales activity for one calendar day.
// It is upserted additively each time a sale is confirmed on that day.
type DailyStats struct {
	Date          Date    `json:"date"`
	TotalSales    float64 `json:"totalSales"`
	CustomerCount int     `json:"customerCount"` // distinct confirmed sales
	ItemCount     int     `json:"itemCount"`
}
