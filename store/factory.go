package store

import (
	"context"
	"fmt"

	"sweetshop/domain"
)

// New constructs a domain.Store by kind: "memory" or "mongo".
// For mongo, provide the connection URI and database name; for memory both
// are ignored.
func New(ctx context.Context, kind, uri, dbName string) (domain.Store, error) {
	switch kind {
	case "memory", "mem":
		return NewMemoryStore(), nil
	case "mongo":
		if uri == "" {
			return nil, fmt.Errorf("mongo URI required for mongo store")
		}
		return NewMongoStore(ctx, uri, dbName)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
