// Package auth issues and verifies the role-scoped bearer tokens used by
// the HTTP layer.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sweetshop/domain"
)

// Roles carried by tokens.
const (
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

// Claims is the payload of a sweet shop bearer token.
type Claims struct {
	Role       string `json:"role"`
	CustomerID string `json:"customerId,omitempty"`
	Username   string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with an HMAC secret injected at startup.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer. ttl bounds token validity; zero falls back
// to one hour.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// IssueOwner returns a signed token asserting the owner role.
func (i *Issuer) IssueOwner(username string) (string, error) {
	return i.sign(Claims{Role: RoleOwner, Username: username})
}

// IssueCustomer returns a signed token asserting the customer role for the
// given customer id.
func (i *Issuer) IssueCustomer(customerID string) (string, error) {
	return i.sign(Claims{Role: RoleCustomer, CustomerID: customerID})
}

func (i *Issuer) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the claims, or an
// UnauthorizedError for anything unverifiable.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}
