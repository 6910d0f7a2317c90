//go:build protogen

package schedule

import (
	"context"
	"time"

	"github.com/bookline/bookline/libs/grpcx"
	schedulev1 "github.com/bookline/bookline/protos/gen/schedule/v1"
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

type grpcProvider struct {
	client schedulev1.ScheduleServiceClient
}

func NewProvider(addr string) (Provider, error) {
	if addr == "" {
		return nil, nil
	}
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	return &grpcProvider{client: schedulev1.NewScheduleServiceClient(conn)}, nil
}

func (p *grpcProvider) WindowsForDay(ctx context.Context, businessID string, weekday time.Weekday, locationID string) ([]model.OperatingWindow, error) {
	resp, err := p.client.GetOperatingWindows(ctx, &schedulev1.OperatingWindowsRequest{
		BusinessId: businessID,
		Weekday:    int32(weekday),
		LocationId: locationID,
	})
	if err != nil {
		return nil, err
	}
	windows := make([]model.OperatingWindow, 0, len(resp.GetWindows()))
	for _, w := range resp.GetWindows() {
		windows = append(windows, model.OperatingWindow{
			BusinessID: businessID,
			Weekday:    time.Weekday(w.GetWeekday()),
			StartTime:  w.GetStartTime(),
			EndTime:    w.GetEndTime(),
			LocationID: w.GetLocationId(),
			Resource:   model.ResourceFor(w.GetResourceId()),
		})
	}
	return windows, nil
}

func (p *grpcProvider) RuleFor(ctx context.Context, businessID string) (model.BookingRule, bool, error) {
	resp, err := p.client.GetBookingRule(ctx, &schedulev1.BookingRuleRequest{
		BusinessId: businessID,
	})
	if err != nil {
		return model.BookingRule{}, false, err
	}
	if !resp.GetFound() {
		return model.BookingRule{}, false, nil
	}
	return model.BookingRule{
		BusinessID:              businessID,
		BufferMinutes:           int(resp.GetBufferMinutes()),
		AdvanceBookingDays:      int(resp.GetAdvanceBookingDays()),
		CancellationNoticeHours: int(resp.GetCancellationNoticeHours()),
		MaxPerSlot:              int(resp.GetMaxPerSlot()),
	}, true, nil
}
