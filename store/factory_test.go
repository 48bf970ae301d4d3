package store

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := New(ctx, "memory", "", "")
		if err != nil || s == nil {
			t.Fatalf("expected memory store, got %v", err)
		}
	})

	t.Run("mem alias", func(t *testing.T) {
		if _, err := New(ctx, "mem", "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("mongo without uri", func(t *testing.T) {
		if _, err := New(ctx, "mongo", "", "sweetshop"); err == nil {
			t.Fatal("expected error for missing mongo URI")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := New(ctx, "cassandra", "", ""); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})
}
