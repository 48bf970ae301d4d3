package service

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"

	"sweetshop/auth"
	"sweetshop/domain"
)

// OwnerCredentials is the configured owner login, injected at startup.
type OwnerCredentials struct {
	Username string
	Password string
}

// Identity handles owner login and customer find-or-create login.
type Identity struct {
	customers domain.CustomerStore
	tokens    *auth.Issuer
	owner     OwnerCredentials
	log       *zap.Logger
}

// NewIdentity constructs an Identity service.
func NewIdentity(customers domain.CustomerStore, tokens *auth.Issuer, owner OwnerCredentials, log *zap.Logger) *Identity {
	return &Identity{customers: customers, tokens: tokens, owner: owner, log: log}
}

// OwnerLogin checks the configured credential pair and issues an owner token.
func (s *Identity) OwnerLogin(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.owner.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.owner.Password)) == 1
	if !userOK || !passOK {
		return "", domain.NewUnauthorizedError("Invalid owner credentials")
	}
	token, err := s.tokens.IssueOwner(username)
	if err != nil {
		return "", err
	}
	s.log.Info("owner logged in", zap.String("username", username))
	return token, nil
}

// CustomerLogin finds or creates a customer by mobile and issues a customer
// token. created reports whether a new record was made, so the handler can
// answer 201 instead of 200.
func (s *Identity) CustomerLogin(ctx context.Context, name, mobile string) (customer domain.Customer, token string, created bool, err error) {
	if name == "" || mobile == "" {
		return domain.Customer{}, "", false, domain.NewInvalidRequestError("Name and mobile are required")
	}

	customer, err = s.customers.FindCustomerByMobile(ctx, mobile)
	switch {
	case err == nil:
		if customer.Name != name {
			return domain.Customer{}, "", false, domain.NewConflictError("Mobile number already in use")
		}
	case domain.IsNotFoundError(err):
		customer, err = s.customers.CreateCustomer(ctx, domain.Customer{Name: name, Mobile: mobile})
		if err != nil {
			return domain.Customer{}, "", false, err
		}
		created = true
		s.log.Info("customer registered",
			zap.String("customer_id", customer.ID),
			zap.String("mobile", mobile))
	default:
		return domain.Customer{}, "", false, err
	}

	token, err = s.tokens.IssueCustomer(customer.ID)
	if err != nil {
		return domain.Customer{}, "", false, err
	}
	return customer, token, created, nil
}
