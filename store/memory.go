// Package store provides storage implementations for the sweet shop service.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sweetshop/domain"
)

// MemoryStore is a thread-safe in-memory implementation of domain.Store,
// used by tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	sweets    map[string]domain.Sweet
	customers map[string]domain.Customer
	purchases []domain.Purchase
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sweets:    make(map[string]domain.Sweet),
		customers: make(map[string]domain.Customer),
	}
}

// compile-time assertion that MemoryStore implements domain.Store
var _ domain.Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateSweet(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sweet{}, err
	}
	if err := domain.ValidateSweet(sweet); err != nil {
		return domain.Sweet{}, err
	}
	if sweet.ID == "" {
		sweet.ID = domain.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweets[sweet.ID] = sweet
	return sweet, nil
}

func (s *MemoryStore) GetSweet(ctx context.Context, id string) (domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sweet{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sw, ok := s.sweets[id]
	if !ok {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	return sw, nil
}

func (s *MemoryStore) UpdateSweet(ctx context.Context, id string, sweet domain.Sweet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateSweet(sweet); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sweets[id]; !ok {
		return domain.NewNotFoundError("Sweet", id)
	}
	sweet.ID = id
	s.sweets[id] = sweet
	return nil
}

func (s *MemoryStore) DeleteSweet(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sweets[id]; !ok {
		return domain.NewNotFoundError("Sweet", id)
	}
	delete(s.sweets, id)
	return nil
}

func (s *MemoryStore) ListSweets(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(filter.Name)
	out := make([]domain.Sweet, 0, len(s.sweets))
	for _, sw := range s.sweets {
		if needle != "" && !strings.Contains(strings.ToLower(sw.Name), needle) {
			continue
		}
		if filter.Category != "" && sw.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && sw.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && sw.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, sw)
	}

	desc := filter.Order == "desc"
	switch filter.SortBy {
	case "name":
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].Name > out[j].Name
			}
			return out[i].Name < out[j].Name
		})
	case "category":
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].Category > out[j].Category
			}
			return out[i].Category < out[j].Category
		})
	case "price":
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].Price > out[j].Price
			}
			return out[i].Price < out[j].Price
		})
	case "quantity":
		sort.Slice(out, func(i, j int) bool {
			if desc {
				return out[i].Quantity > out[j].Quantity
			}
			return out[i].Quantity < out[j].Quantity
		})
	default:
		// ObjectID hex encodes the creation timestamp, so sorting by ID
		// reproduces insertion order, matching the mongo backend's default.
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}

	return out, nil
}

func (s *MemoryStore) DecrementStock(ctx context.Context, id string, n int) (domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sweet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.sweets[id]
	if !ok {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	if sw.Quantity < n {
		return domain.Sweet{}, domain.NewInsufficientStockError(id, n, sw.Quantity)
	}
	sw.Quantity -= n
	s.sweets[id] = sw
	return sw, nil
}

func (s *MemoryStore) IncrementStock(ctx context.Context, id string, n int) (domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sweet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.sweets[id]
	if !ok {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	sw.Quantity += n
	s.sweets[id] = sw
	return sw, nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.Mobile == customer.Mobile {
			return domain.Customer{}, domain.NewConflictError("Mobile number already in use")
		}
	}
	if customer.ID == "" {
		customer.ID = domain.NewID()
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, domain.NewNotFoundError("Customer", id)
	}
	return c, nil
}

func (s *MemoryStore) FindCustomerByMobile(ctx context.Context, mobile string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.Mobile == mobile {
			return c, nil
		}
	}
	return domain.Customer{}, domain.NewNotFoundError("Customer", mobile)
}

func (s *MemoryStore) CreatePurchase(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return domain.Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if purchase.ID == "" {
		purchase.ID = domain.NewID()
	}
	s.purchases = append(s.purchases, purchase)
	return purchase, nil
}

func (s *MemoryStore) ListPurchasesByCustomer(ctx context.Context, customerID string) ([]domain.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Purchase, 0)
	for _, p := range s.purchases {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	// newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, nil
}

func (s *MemoryStore) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Purchase, len(s.purchases))
	copy(out, s.purchases)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, nil
}
