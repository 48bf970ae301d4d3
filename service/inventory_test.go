package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sweetshop/domain"
	"sweetshop/store"
)

func newInventoryFixture(t *testing.T) (*Inventory, *store.MemoryStore, domain.Sweet, domain.Customer) {
	t.Helper()
	st := store.NewMemoryStore()
	inv := NewInventory(st, zap.NewNop())
	ctx := context.Background()

	sweet, err := st.CreateSweet(ctx, domain.Sweet{Name: "Kaju Katli", Category: "barfi", Price: 2.5, Quantity: 5})
	require.NoError(t, err)
	customer, err := st.CreateCustomer(ctx, domain.Customer{Name: "Alice", Mobile: "1111111111"})
	require.NoError(t, err)
	return inv, st, sweet, customer
}

func TestPurchase_Success(t *testing.T) {
	inv, st, sweet, customer := newInventoryFixture(t)
	ctx := context.Background()

	p, err := inv.Purchase(ctx, sweet.ID, customer.ID, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, customer.ID, p.CustomerID)
	assert.Equal(t, sweet.ID, p.SweetID)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, sweet.Price, p.PriceAtPurchase)
	assert.Equal(t, sweet.Price*2, p.TotalPrice)
	assert.False(t, p.PurchasedAt.IsZero())

	got, err := st.GetSweet(ctx, sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestPurchase_PriceCapturedAtSaleTime(t *testing.T) {
	inv, st, sweet, customer := newInventoryFixture(t)
	ctx := context.Background()

	p, err := inv.Purchase(ctx, sweet.ID, customer.ID, 1)
	require.NoError(t, err)

	// later price change must not rewrite history
	updated := sweet
	updated.Price = 99
	updated.Quantity = 4
	require.NoError(t, st.UpdateSweet(ctx, sweet.ID, updated))

	history, err := inv.PurchasesFor(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, p.PriceAtPurchase, history[0].PriceAtPurchase)
	assert.Equal(t, 2.5, history[0].PriceAtPurchase)
}

func TestPurchase_FailureModesInOrder(t *testing.T) {
	inv, st, sweet, customer := newInventoryFixture(t)
	ctx := context.Background()

	t.Run("missing customer id", func(t *testing.T) {
		_, err := inv.Purchase(ctx, sweet.ID, "", 1)
		assert.True(t, domain.IsInvalidRequestError(err))
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := inv.Purchase(ctx, sweet.ID, customer.ID, 0)
		assert.True(t, domain.IsInvalidRequestError(err))
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := inv.Purchase(ctx, sweet.ID, customer.ID, -3)
		assert.True(t, domain.IsInvalidRequestError(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := inv.Purchase(ctx, sweet.ID, domain.NewID(), 1)
		require.True(t, domain.IsNotFoundError(err))
		assert.Equal(t, "Customer not found", err.Error())
	})

	t.Run("unknown sweet", func(t *testing.T) {
		_, err := inv.Purchase(ctx, domain.NewID(), customer.ID, 1)
		require.True(t, domain.IsNotFoundError(err))
		assert.Equal(t, "Sweet not found", err.Error())
	})

	t.Run("insufficient stock leaves quantity unchanged", func(t *testing.T) {
		_, err := inv.Purchase(ctx, sweet.ID, customer.ID, 10)
		assert.True(t, domain.IsInsufficientStockError(err))
		got, gerr := st.GetSweet(ctx, sweet.ID)
		require.NoError(t, gerr)
		assert.Equal(t, 5, got.Quantity)
	})
}

// ledgerFailStore forces the ledger insert to fail so the compensation path
// can be observed.
type ledgerFailStore struct {
	domain.Store
}

func (s *ledgerFailStore) CreatePurchase(ctx context.Context, p domain.Purchase) (domain.Purchase, error) {
	return domain.Purchase{}, errors.New("ledger unavailable")
}

func TestPurchase_CompensatesWhenLedgerFails(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	sweet, err := st.CreateSweet(ctx, domain.Sweet{Name: "Halwa", Category: "halwa", Price: 3, Quantity: 5})
	require.NoError(t, err)
	customer, err := st.CreateCustomer(ctx, domain.Customer{Name: "Alice", Mobile: "1"})
	require.NoError(t, err)

	inv := NewInventory(&ledgerFailStore{Store: st}, zap.NewNop())
	_, err = inv.Purchase(ctx, sweet.ID, customer.ID, 2)
	require.Error(t, err)

	got, gerr := st.GetSweet(ctx, sweet.ID)
	require.NoError(t, gerr)
	assert.Equal(t, 5, got.Quantity, "decrement must be reverted when the ledger insert fails")
}

// ctxKillingStore cancels the request context during the ledger insert, the
// way a client disconnect or deadline does mid-purchase.
type ctxKillingStore struct {
	domain.Store
	cancel context.CancelFunc
}

func (s *ctxKillingStore) CreatePurchase(ctx context.Context, p domain.Purchase) (domain.Purchase, error) {
	s.cancel()
	return domain.Purchase{}, ctx.Err()
}

func TestPurchase_CompensatesWhenContextDies(t *testing.T) {
	st := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweet, err := st.CreateSweet(context.Background(), domain.Sweet{Name: "Halwa", Category: "halwa", Price: 3, Quantity: 5})
	require.NoError(t, err)
	customer, err := st.CreateCustomer(context.Background(), domain.Customer{Name: "Alice", Mobile: "1"})
	require.NoError(t, err)

	inv := NewInventory(&ctxKillingStore{Store: st, cancel: cancel}, zap.NewNop())
	_, err = inv.Purchase(ctx, sweet.ID, customer.ID, 2)
	require.Error(t, err)

	got, gerr := st.GetSweet(context.Background(), sweet.ID)
	require.NoError(t, gerr)
	assert.Equal(t, 5, got.Quantity, "decrement must be reverted even when the request context is cancelled")

	ledger, lerr := st.ListPurchases(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, ledger)
}

func TestPurchase_ConcurrentNeverOversells(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	sweet, err := st.CreateSweet(ctx, domain.Sweet{Name: "Laddu", Category: "laddu", Price: 1, Quantity: 10})
	require.NoError(t, err)
	customer, err := st.CreateCustomer(ctx, domain.Customer{Name: "Alice", Mobile: "1"})
	require.NoError(t, err)

	inv := NewInventory(st, zap.NewNop())

	var wg sync.WaitGroup
	const attempts = 40
	results := make(chan error, attempts)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := inv.Purchase(ctx, sweet.ID, customer.ID, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, domain.IsInsufficientStockError(err))
		}
	}
	assert.Equal(t, 10, succeeded)

	got, _ := st.GetSweet(ctx, sweet.ID)
	assert.Equal(t, 0, got.Quantity)

	ledger, err := inv.AllPurchases(ctx)
	require.NoError(t, err)
	assert.Len(t, ledger, 10, "every successful decrement has exactly one ledger entry")
}

func TestRestock(t *testing.T) {
	inv, st, sweet, customer := newInventoryFixture(t)
	ctx := context.Background()

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		for _, q := range []int{0, -4} {
			_, err := inv.Restock(ctx, sweet.ID, q)
			require.True(t, domain.IsInvalidRequestError(err))
			assert.Equal(t, "Quantity must be a positive number", err.Error())
		}
	})

	t.Run("unknown sweet", func(t *testing.T) {
		_, err := inv.Restock(ctx, domain.NewID(), 3)
		assert.True(t, domain.IsNotFoundError(err))
	})

	t.Run("restock n then purchase n round-trips", func(t *testing.T) {
		before, err := st.GetSweet(ctx, sweet.ID)
		require.NoError(t, err)

		updated, err := inv.Restock(ctx, sweet.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, before.Quantity+7, updated.Quantity)

		_, err = inv.Purchase(ctx, sweet.ID, customer.ID, 7)
		require.NoError(t, err)

		after, err := st.GetSweet(ctx, sweet.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Quantity, after.Quantity)
	})
}

func TestPurchaseHistory(t *testing.T) {
	inv, st, sweet, customer := newInventoryFixture(t)
	ctx := context.Background()

	other, err := st.CreateCustomer(ctx, domain.Customer{Name: "Bob", Mobile: "2222222222"})
	require.NoError(t, err)

	_, err = inv.Purchase(ctx, sweet.ID, customer.ID, 1)
	require.NoError(t, err)
	_, err = inv.Purchase(ctx, sweet.ID, other.ID, 2)
	require.NoError(t, err)

	mine, err := inv.PurchasesFor(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, customer.ID, mine[0].CustomerID)

	all, err := inv.AllPurchases(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = inv.PurchasesFor(ctx, domain.NewID())
	assert.True(t, domain.IsNotFoundError(err))
}
