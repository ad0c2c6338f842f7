package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// seedProducts fills an empty catalog with starter products so a fresh
// install has data to demonstrate before the first import.
func (s *Service) seedProducts(ctx context.Context) error {
	count, err := s.store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Info().Msg("seeding sample products")
	return s.store.InsertProducts(ctx, sampleProducts())
}

// seedCustomers fills an empty customer list with starter customers.
func (s *Service) seedCustomers(ctx context.Context) error {
	count, err := s.store.CountCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Info().Msg("seeding sample customers")
	for _, c := range sampleCustomers() {
		if _, err := s.store.InsertCustomer(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

func expiry(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	return &d
}

func sampleProducts() []model.Product {
	return []model.Product{
		{
			Item:           "Aspirin",
			Description:    "Pain relief medicine for headaches and fever",
			Units:          "Box",
			Category:       "Medicines",
			Amount:         50,
			CostPerUnit:    5.99,
			WholesalePrice: 4.50,
			Notes:          "Popular item, always in demand",
			ExpiryDate:     expiry(2025, 12, 31),
			Barcode:        "123456789",
			Photo:          "aspirin.jpg",
		},
		{
			Item:           "Vitamin C",
			Description:    "Immune support supplement",
			Units:          "Bottle",
			Category:       "Supplements",
			Amount:         30,
			CostPerUnit:    12.99,
			WholesalePrice: 9.75,
			Notes:          "High demand during flu season",
			ExpiryDate:     expiry(2025, 6, 30),
			Barcode:        "987654321",
			Photo:          "vitamin_c.jpg",
		},
		{
			Item:           "Bandages",
			Description:    "First aid supplies for minor cuts",
			Units:          "Pack",
			Category:       "Medical Supplies",
			Amount:         100,
			CostPerUnit:    3.50,
			WholesalePrice: 2.80,
			Notes:          "Essential item for every pharmacy",
			ExpiryDate:     expiry(2026, 1, 15),
			Barcode:        "456789123",
			Photo:          "bandages.jpg",
		},
		{
			Item:           "Paracetamol",
			Description:    "Fever and pain relief medication",
			Units:          "Box",
			Category:       "Medicines",
			Amount:         75,
			CostPerUnit:    4.99,
			WholesalePrice: 3.75,
			Notes:          "Basic medicine, always needed",
			ExpiryDate:     expiry(2025, 8, 20),
			Barcode:        "789123456",
			Photo:          "paracetamol.jpg",
		},
		{
			Item:           "Omega-3",
			Description:    "Heart health supplement",
			Units:          "Bottle",
			Category:       "Supplements",
			Amount:         25,
			CostPerUnit:    18.99,
			WholesalePrice: 14.25,
			Notes:          "Premium supplement",
			ExpiryDate:     expiry(2025, 10, 15),
			Barcode:        "321654987",
			Photo:          "omega3.jpg",
		},
		{
			Item:           "Thermometer",
			Description:    "Digital thermometer for temperature measurement",
			Units:          "Piece",
			Category:       "Medical Equipment",
			Amount:         15,
			CostPerUnit:    25.99,
			WholesalePrice: 19.50,
			Notes:          "High quality digital thermometer",
			ExpiryDate:     expiry(2027, 5, 10),
			Barcode:        "147258369",
			Photo:          "thermometer.jpg",
		},
	}
}

func sampleCustomers() []model.Customer {
	return []model.Customer{
		{
			Name:         "John Smith",
			Note:         "Regular customer, prefers premium products",
			Place:        "Downtown",
			PharmacyName: "City Pharmacy",
		},
		{
			Name:         "Sarah Johnson",
			Note:         "Bulk orders for hospital supplies",
			Place:        "Medical District",
			PharmacyName: "Medical Supplies Plus",
		},
		{
			Name:         "Mike Wilson",
			Note:         "Small orders, pays cash",
			Place:        "Suburban Area",
			PharmacyName: "Neighborhood Drugstore",
		},
	}
}
