// Package service implements the business operations behind the HTTP layer.
package service

import (
	"context"

	"go.uber.org/zap"

	"sweetshop/domain"
)

// Catalog manages the sweet catalog: add, delete, list, search.
type Catalog struct {
	sweets domain.SweetStore
	log    *zap.Logger
}

// NewCatalog constructs a Catalog service.
func NewCatalog(sweets domain.SweetStore, log *zap.Logger) *Catalog {
	return &Catalog{sweets: sweets, log: log}
}

// Add validates and persists a new sweet, returning it with its generated id.
func (c *Catalog) Add(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	if err := domain.ValidateSweet(sweet); err != nil {
		return domain.Sweet{}, err
	}
	created, err := c.sweets.CreateSweet(ctx, sweet)
	if err != nil {
		return domain.Sweet{}, err
	}
	c.log.Info("sweet added",
		zap.String("sweet_id", created.ID),
		zap.String("category", created.Category))
	return created, nil
}

// Delete removes a sweet permanently. A malformed id is an InvalidRequest,
// a well-formed id with no record is a NotFound.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.NewInvalidRequestError("Invalid sweet ID")
	}
	if err := c.sweets.DeleteSweet(ctx, id); err != nil {
		return err
	}
	c.log.Info("sweet deleted", zap.String("sweet_id", id))
	return nil
}

// List returns all sweets in default order.
func (c *Catalog) List(ctx context.Context) ([]domain.Sweet, error) {
	return c.sweets.ListSweets(ctx, domain.SweetFilter{})
}

// Search returns sweets matching the filter. An empty filter returns the
// same result as List.
func (c *Catalog) Search(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	return c.sweets.ListSweets(ctx, filter)
}
