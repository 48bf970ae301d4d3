package domain

import "context"

// Customer is identified by mobile number; records are created on first
// login and never updated or deleted.
type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// CustomerStore defines the storage interface for customers.
// Mobile numbers are unique; CreateCustomer returns a ConflictError when the
// mobile is already taken.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	GetCustomer(ctx context.Context, id string) (Customer, error)
	FindCustomerByMobile(ctx context.Context, mobile string) (Customer, error)
}
