package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusInStock ProductStatus = "INSTOCK"
	ProductStatusLow     ProductStatus = "LOW"
	ProductStatusNone    ProductStatus = "NONE"
)

// Product is a catalog entry. Values handed out by the catalog are copies;
// changing one never changes the catalog.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Status      ProductStatus
	CreatedAt   time.Time
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusInStock, ProductStatusLow, ProductStatusNone:
		return true
	}
	return false
}

// Normalize fills the default status and checks the fields a catalog write
// needs. The id is not checked; inserts assign it.
func (p Product) Normalize() (Product, error) {
	if p.Status == "" {
		p.Status = ProductStatusInStock
	}
	switch {
	case p.Name == "":
		return p, fmt.Errorf("name is required: %w", ErrInvalidProduct)
	case p.Price.IsNegative():
		return p, fmt.Errorf("price %s: %w", p.Price, ErrInvalidProduct)
	case !p.Status.Valid():
		return p, fmt.Errorf("status %q: %w", p.Status, ErrInvalidProduct)
	}
	return p, nil
}
