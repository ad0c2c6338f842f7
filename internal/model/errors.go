package model

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("record not found")

// ErrEmptyCart rejects confirming a sale for a customer with nothing in the
// cart.
var ErrEmptyCart = errors.New("cart is empty")

// StockError reports a cart request exceeding the available stock of a
// product. Available is what may still be added on top of the cart's
// current reservation.
type StockError struct {
	Item      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("cannot add %d units of %q: only %d units available", e.Requested, e.Item, e.Available)
}

// NotFoundError wraps ErrNotFound with the kind and key of the missing record.
func NotFoundError(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}
