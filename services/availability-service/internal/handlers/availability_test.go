package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/availability"
	"github.com/bookline/bookline/services/availability-service/internal/model"
)

type stubSources struct {
	windows []model.OperatingWindow
	rule    model.BookingRule
	hasRule bool
	appts   []model.Appointment
}

func (s *stubSources) WindowsForDay(_ context.Context, _ string, weekday time.Weekday, _ string) ([]model.OperatingWindow, error) {
	var out []model.OperatingWindow
	for _, w := range s.windows {
		if w.Weekday == weekday {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *stubSources) RuleFor(_ context.Context, _ string) (model.BookingRule, bool, error) {
	return s.rule, s.hasRule, nil
}

func (s *stubSources) ActiveBetween(_ context.Context, _, _ string, from, to time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range s.appts {
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestHandler(src *stubSources) *AvailabilityHandler {
	checker := availability.NewChecker(src, src, src, availability.DefaultHolidayCalendar(), 0)
	return NewAvailabilityHandler(checker, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSlots_ReturnsBufferedGrid(t *testing.T) {
	handler := newTestHandler(&stubSources{
		windows: []model.OperatingWindow{{
			BusinessID: "biz-1",
			Weekday:    time.Monday,
			StartTime:  "09:00",
			EndTime:    "12:00",
		}},
		rule:    model.BookingRule{BusinessID: "biz-1", BufferMinutes: 15},
		hasRule: true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=biz-1&date=2026-03-02&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var items []struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(items))
	}
	if items[0].StartTime != "2026-03-02T09:00:00Z" || items[1].StartTime != "2026-03-02T10:15:00Z" {
		t.Fatalf("unexpected slot starts: %s, %s", items[0].StartTime, items[1].StartTime)
	}
}

func TestSlots_HolidayYieldsEmptyList(t *testing.T) {
	handler := newTestHandler(&stubSources{
		windows: []model.OperatingWindow{{
			BusinessID: "biz-1",
			Weekday:    time.Friday,
			StartTime:  "09:00",
			EndTime:    "17:00",
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=biz-1&date=2026-12-25&duration_minutes=30", nil)
	rec := httptest.NewRecorder()
	handler.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]" {
		t.Fatalf("expected an empty JSON array, got %s", body)
	}
}

func TestSlots_RejectsBadInput(t *testing.T) {
	handler := newTestHandler(&stubSources{})

	cases := []struct {
		name  string
		query string
	}{
		{"missing business", "date=2026-03-02&duration_minutes=60"},
		{"bad date", "business_id=biz-1&date=yesterday&duration_minutes=60"},
		{"zero duration", "business_id=biz-1&date=2026-03-02&duration_minutes=0"},
		{"absurd duration", "business_id=biz-1&date=2026-03-02&duration_minutes=2000"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?"+tc.query, nil)
		rec := httptest.NewRecorder()
		handler.Slots(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestCheck_ReportsReason(t *testing.T) {
	handler := newTestHandler(&stubSources{
		windows: []model.OperatingWindow{{
			BusinessID: "biz-1",
			Weekday:    time.Monday,
			StartTime:  "09:00",
			EndTime:    "17:00",
		}},
		appts: []model.Appointment{{
			ID:         "appt-1",
			BusinessID: "biz-1",
			StartTime:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			Status:     model.StatusConfirmed,
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots/check?business_id=biz-1&start=2026-03-02T10:30:00Z&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Available bool   `json:"available"`
		Reason    string `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Available || resp.Reason != "Slot taken" {
		t.Fatalf("expected a slot-taken rejection, got %+v", resp)
	}
}

func TestCheck_AvailableOmitsReason(t *testing.T) {
	handler := newTestHandler(&stubSources{
		windows: []model.OperatingWindow{{
			BusinessID: "biz-1",
			Weekday:    time.Monday,
			StartTime:  "09:00",
			EndTime:    "17:00",
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots/check?business_id=biz-1&start=2026-03-02T09:00:00Z&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"available":true}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestCheck_RejectsBadStart(t *testing.T) {
	handler := newTestHandler(&stubSources{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots/check?business_id=biz-1&start=10am&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProject_GroupsByDay(t *testing.T) {
	handler := newTestHandler(&stubSources{
		windows: []model.OperatingWindow{{
			BusinessID: "biz-1",
			Weekday:    time.Monday,
			StartTime:  "09:00",
			EndTime:    "10:00",
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots/project?business_id=biz-1&from=2026-03-02&to=2026-03-03&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Project(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var days []struct {
		Date  string            `json:"date"`
		Slots []json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2026-03-02" || len(days[0].Slots) != 1 {
		t.Fatalf("monday should carry one slot, got %+v", days[0])
	}
	if days[1].Date != "2026-03-03" || len(days[1].Slots) != 0 {
		t.Fatalf("tuesday should be empty, got %+v", days[1])
	}
}

func TestProject_InvertedRangeIsBadRequest(t *testing.T) {
	handler := newTestHandler(&stubSources{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots/project?business_id=biz-1&from=2026-03-05&to=2026-03-02&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	handler.Project(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSlots_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&stubSources{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/slots", nil)
	rec := httptest.NewRecorder()
	handler.Slots(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
