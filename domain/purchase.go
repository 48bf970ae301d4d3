package domain

import (
	"context"
	"time"
)

// Purchase is an append-only ledger entry. PriceAtPurchase is captured at
// the moment of sale and never tracks later price changes.
type Purchase struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer"`
	SweetID         string    `json:"sweet"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"priceAtPurchase"`
	TotalPrice      float64   `json:"totalPrice"`
	PurchasedAt     time.Time `json:"purchasedAt"`
}

// PurchaseStore defines the storage interface for the purchase ledger.
// Entries are only ever inserted; there is no update or delete.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, purchase Purchase) (Purchase, error)
	ListPurchasesByCustomer(ctx context.Context, customerID string) ([]Purchase, error)
	ListPurchases(ctx context.Context) ([]Purchase, error)
}
