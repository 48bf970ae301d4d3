package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sweetshop/auth"
	"sweetshop/domain"
	"sweetshop/store"
)

func newIdentityFixture() (*Identity, *auth.Issuer) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	owner := OwnerCredentials{Username: "shopowner", Password: "ownerpass"}
	return NewIdentity(store.NewMemoryStore(), issuer, owner, zap.NewNop()), issuer
}

func TestOwnerLogin(t *testing.T) {
	id, issuer := newIdentityFixture()

	t.Run("correct credentials issue owner token", func(t *testing.T) {
		token, err := id.OwnerLogin("shopowner", "ownerpass")
		require.NoError(t, err)
		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleOwner, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := id.OwnerLogin("shopowner", "wrong")
		require.True(t, domain.IsUnauthorizedError(err))
		assert.Equal(t, "Invalid owner credentials", err.Error())
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := id.OwnerLogin("someone", "ownerpass")
		assert.True(t, domain.IsUnauthorizedError(err))
	})
}

func TestCustomerLogin(t *testing.T) {
	id, issuer := newIdentityFixture()
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		_, _, _, err := id.CustomerLogin(ctx, "", "1111111111")
		assert.True(t, domain.IsInvalidRequestError(err))
		_, _, _, err = id.CustomerLogin(ctx, "Alice", "")
		assert.True(t, domain.IsInvalidRequestError(err))
	})

	var firstID string
	t.Run("first login creates the customer", func(t *testing.T) {
		customer, token, created, err := id.CustomerLogin(ctx, "Alice", "1111111111")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, customer.ID)
		firstID = customer.ID

		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleCustomer, claims.Role)
		assert.Equal(t, customer.ID, claims.CustomerID)
	})

	t.Run("repeat login is idempotent", func(t *testing.T) {
		customer, _, created, err := id.CustomerLogin(ctx, "Alice", "1111111111")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, firstID, customer.ID)
	})

	t.Run("same mobile different name conflicts", func(t *testing.T) {
		_, _, _, err := id.CustomerLogin(ctx, "Mallory", "1111111111")
		require.True(t, domain.IsConflictError(err))
		assert.Equal(t, "Mobile number already in use", err.Error())
	})
}
