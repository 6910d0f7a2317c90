//go:build !protogen

package schedule

import (
	"context"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/model"
)

// Provider is an optional remote configuration store: a central business
// service that owns operating windows and booking rules. It satisfies the
// engine's WindowSource and RuleSource contracts, so when configured it
// replaces the local repositories as the source of truth.
type Provider interface {
	WindowsForDay(ctx context.Context, businessID string, weekday time.Weekday, locationID string) ([]model.OperatingWindow, error)
	RuleFor(ctx context.Context, businessID string) (model.BookingRule, bool, error)
}

// NewProvider returns nil in builds without generated gRPC stubs; callers
// fall back to the database-backed sources.
func NewProvider(_ string) (Provider, error) {
	return nil, nil
}
