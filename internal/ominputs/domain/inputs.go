package ominputs

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmptyCustomerID is returned when inputs name no customer.
	ErrEmptyCustomerID = errors.New("ominputs: empty customer id")
	// ErrEmptyDay is returned when inputs name no data day.
	ErrEmptyDay = errors.New("ominputs: empty day")
	// ErrNotFound is returned when no inputs exist for (customer, day).
	ErrNotFound = errors.New("ominputs: not found")
)

// Inputs are the manual O&M figures entered per (customer, data day). They
// ride along into the exported report but never influence aggregation.
type Inputs struct {
	CustomerID      string
	Day             string
	BreakdownHours  float64
	GenerationHours float64
	OperatingHours  float64
	Weather         string
	Notes           string
	Author          string
	UpdatedAt       time.Time
}

// Validate checks the identity fields.
func (in Inputs) Validate() error {
	if in.CustomerID == "" {
		return ErrEmptyCustomerID
	}
	if in.Day == "" {
		return ErrEmptyDay
	}
	return nil
}

// Repository persists manual inputs keyed by (customer, day).
type Repository interface {
	Upsert(ctx context.Context, inputs Inputs) error
	Find(ctx context.Context, customerID, day string) (*Inputs, error)
}
