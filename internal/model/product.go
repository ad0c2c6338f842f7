package model

import (
	"sort"
	"strings"
)

// Product is a catalog entry, keyed by its item name.
type Product struct {
	Item           string  `json:"item"`
	Description    string  `json:"description"`
	Units          string  `json:"units"`
	Category       string  `json:"category"`
	Amount         int     `json:"amount"` // on-hand stock
	CostPerUnit    float64 `json:"costPerUnit"`
	WholesalePrice float64 `json:"wholesalePrice"`
	Notes          string  `json:"notes"`
	ExpiryDate     *Date   `json:"expiryDate,omitempty"`
	Barcode        string  `json:"barcode"`
	Photo          string  `json:"photo"` // image file name under the photos dir
}

// Catalog is a set of products grouped by category.
type Catalog map[string][]Product

// GroupByCategory buckets products into a Catalog.
func GroupByCategory(products []Product) Catalog {
	catalog := make(Catalog)
	for _, p := range products {
		catalog[p.Category] = append(catalog[p.Category], p)
	}
	return catalog
}

// Categories returns the catalog's category names in sorted order.
func (c Catalog) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter returns the subset of the catalog matching query by case-insensitive
// substring against item name, description or category. Categories left with
// no matching products are dropped. An empty query returns c unchanged.
func (c Catalog) Filter(query string) Catalog {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c
	}

	filtered := make(Catalog)
	for category, products := range c {
		var keep []Product
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Item), query) ||
				strings.Contains(strings.ToLower(p.Description), query) ||
				strings.Contains(strings.ToLower(p.Category), query) {
				keep = append(keep, p)
			}
		}
		if len(keep) > 0 {
			filtered[category] = keep
		}
	}
	return filtered
}
