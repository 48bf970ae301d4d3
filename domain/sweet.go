// Package domain defines core business types and interfaces.
package domain

import "context"

// Sweet represents a catalog item with a stock quantity.
type Sweet struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Categories is the fixed set of valid sweet categories, shared by every
// layer that validates or renders them.
var Categories = []string{
	"chocolate", "candy", "pastry", "barfi", "laddu", "halwa",
	"cookie", "brownie", "fudge", "toffee", "marzipan", "truffle",
	"muffin", "cake", "tart", "brittle", "peda", "gulab jamun",
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidateSweet checks the catalog constraints: all fields present, category
// in the fixed set, price and quantity non-negative.
func ValidateSweet(s Sweet) error {
	if s.Name == "" {
		return NewValidationError("name", "cannot be empty", s.Name)
	}
	if s.Category == "" {
		return NewValidationError("category", "cannot be empty", s.Category)
	}
	if !ValidCategory(s.Category) {
		return NewValidationError("category", "must be a known category", s.Category)
	}
	if s.Price < 0 {
		return NewValidationError("price", "must be non-negative", s.Price)
	}
	if s.Quantity < 0 {
		return NewValidationError("quantity", "must be non-negative", s.Quantity)
	}
	return nil
}

// SweetFilter allows filtering and sorting results from List
type SweetFilter struct {
	Name     string // case-insensitive substring
	Category string // exact match
	MinPrice *float64
	MaxPrice *float64
	SortBy   string // "name", "category", "price", "quantity"
	Order    string // "asc" or "desc"
}

// SweetStore defines the storage interface for the sweet catalog.
//
// DecrementStock is the authoritative stock check for purchases: the
// quantity >= n precondition is evaluated at write time by the store, so
// two concurrent purchases can never both succeed against stale reads.
type SweetStore interface {
	CreateSweet(ctx context.Context, sweet Sweet) (Sweet, error)
	GetSweet(ctx context.Context, id string) (Sweet, error)
	UpdateSweet(ctx context.Context, id string, sweet Sweet) error
	DeleteSweet(ctx context.Context, id string) error
	ListSweets(ctx context.Context, filter SweetFilter) ([]Sweet, error)
	DecrementStock(ctx context.Context, id string, n int) (Sweet, error)
	IncrementStock(ctx context.Context, id string, n int) (Sweet, error)
}

// Store aggregates the three collections a backend must provide.
type Store interface {
	SweetStore
	CustomerStore
	PurchaseStore
}
