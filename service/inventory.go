package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sweetshop/domain"
)

// Inventory applies stock changes and records purchases in the ledger.
type Inventory struct {
	store domain.Store
	log   *zap.Logger
}

// NewInventory constructs an Inventory service.
func NewInventory(store domain.Store, log *zap.Logger) *Inventory {
	return &Inventory{store: store, log: log}
}

// Purchase decrements stock and appends a ledger entry.
//
// The store's conditional decrement is the authoritative stock check; if the
// ledger insert fails afterwards the decrement is compensated, so the two
// writes succeed or fail together.
func (i *Inventory) Purchase(ctx context.Context, sweetID, customerID string, quantity int) (domain.Purchase, error) {
	if customerID == "" || quantity <= 0 {
		return domain.Purchase{}, domain.NewInvalidRequestError("Customer authentication and quantity are required")
	}

	customer, err := i.store.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.Purchase{}, err
	}
	sweet, err := i.store.DecrementStock(ctx, sweetID, quantity)
	if err != nil {
		return domain.Purchase{}, err
	}

	priceAtPurchase := sweet.Price
	purchase := domain.Purchase{
		CustomerID:      customer.ID,
		SweetID:         sweet.ID,
		Quantity:        quantity,
		PriceAtPurchase: priceAtPurchase,
		TotalPrice:      priceAtPurchase * float64(quantity),
		PurchasedAt:     time.Now().UTC(),
	}
	created, err := i.store.CreatePurchase(ctx, purchase)
	if err != nil {
		// revert the decrement; stock must not drift when the ledger write
		// fails. The revert runs on a detached context so it still lands
		// when the insert failed because the request context died.
		if _, rerr := i.store.IncrementStock(context.WithoutCancel(ctx), sweetID, quantity); rerr != nil {
			i.log.Error("stock compensation failed",
				zap.String("sweet_id", sweetID),
				zap.Int("quantity", quantity),
				zap.Error(rerr))
		}
		return domain.Purchase{}, err
	}

	i.log.Info("purchase recorded",
		zap.String("purchase_id", created.ID),
		zap.String("sweet_id", sweet.ID),
		zap.String("customer_id", customer.ID),
		zap.Int("quantity", quantity),
		zap.Float64("total_price", created.TotalPrice))
	return created, nil
}

// Restock adds quantity to a sweet's stock and returns the updated sweet.
func (i *Inventory) Restock(ctx context.Context, sweetID string, quantity int) (domain.Sweet, error) {
	if quantity <= 0 {
		return domain.Sweet{}, domain.NewInvalidRequestError("Quantity must be a positive number")
	}
	sweet, err := i.store.IncrementStock(ctx, sweetID, quantity)
	if err != nil {
		return domain.Sweet{}, err
	}
	i.log.Info("sweet restocked",
		zap.String("sweet_id", sweetID),
		zap.Int("quantity", quantity),
		zap.Int("on_hand", sweet.Quantity))
	return sweet, nil
}

// PurchasesFor returns a customer's purchase history, newest first.
func (i *Inventory) PurchasesFor(ctx context.Context, customerID string) ([]domain.Purchase, error) {
	if _, err := i.store.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return i.store.ListPurchasesByCustomer(ctx, customerID)
}

// AllPurchases returns the full ledger, newest first.
func (i *Inventory) AllPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return i.store.ListPurchases(ctx)
}
