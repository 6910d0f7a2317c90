package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/availability"
	"github.com/bookline/bookline/services/availability-service/internal/model"
)

// AvailabilityHandler exposes the engine's three read-only queries to the
// booking API, the conversational bot and the admin calendar. It holds no
// state of its own.
type AvailabilityHandler struct {
	checker *availability.Checker
	logger  *slog.Logger
}

func NewAvailabilityHandler(checker *availability.Checker, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{checker: checker, logger: logger}
}

type slotItem struct {
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	ResourceID string `json:"resource_id,omitempty"`
}

type checkSlotResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type dayItem struct {
	Date  string     `json:"date"`
	Slots []slotItem `json:"slots"`
}

// Slots handles GET /api/v1/public/slots: all free slots on one day.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	businessID := strings.TrimSpace(r.URL.Query().Get("business_id"))
	locationID := strings.TrimSpace(r.URL.Query().Get("location_id"))
	if businessID == "" {
		http.Error(w, "business_id is required", http.StatusBadRequest)
		return
	}
	day, ok := parseDate(r.URL.Query().Get("date"))
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	duration, ok := parseDurationMinutes(r.URL.Query().Get("duration_minutes"))
	if !ok {
		http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
		return
	}

	slots, err := h.checker.AvailableSlots(r.Context(), businessID, locationID, day, duration)
	if err != nil {
		h.writeCheckerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, slotItems(slots))
}

// Check handles GET /api/v1/public/slots/check: validates one requested
// slot at confirmation time. Unavailable is a 200 with available=false.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	locationID := strings.TrimSpace(q.Get("location_id"))
	resource := model.ResourceFor(strings.TrimSpace(q.Get("resource_id")))
	if businessID == "" {
		http.Error(w, "business_id is required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(q.Get("start")))
	if err != nil {
		http.Error(w, "start must be RFC3339", http.StatusBadRequest)
		return
	}
	duration, ok := parseDurationMinutes(q.Get("duration_minutes"))
	if !ok {
		http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
		return
	}

	decision, err := h.checker.CheckSlot(r.Context(), businessID, locationID, resource, start, duration)
	if err != nil {
		h.writeCheckerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkSlotResponse{
		Available: decision.Available,
		Reason:    decision.Reason,
	})
}

// Project handles GET /api/v1/public/slots/project: per-day availability
// over an inclusive date range, capped server-side.
func (h *AvailabilityHandler) Project(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	locationID := strings.TrimSpace(q.Get("location_id"))
	if businessID == "" {
		http.Error(w, "business_id is required", http.StatusBadRequest)
		return
	}
	from, ok := parseDate(q.Get("from"))
	if !ok {
		http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, ok := parseDate(q.Get("to"))
	if !ok {
		http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	duration, ok := parseDurationMinutes(q.Get("duration_minutes"))
	if !ok {
		http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
		return
	}

	days, err := h.checker.ProjectAvailability(r.Context(), businessID, locationID, from, to, duration)
	if err != nil {
		h.writeCheckerError(w, r, err)
		return
	}

	items := make([]dayItem, 0, len(days))
	for _, d := range days {
		items = append(items, dayItem{
			Date:  d.Date.Format("2006-01-02"),
			Slots: slotItems(d.Slots),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func slotItems(slots []availability.Slot) []slotItem {
	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			StartTime:  s.Start.Format(time.RFC3339),
			EndTime:    s.End.Format(time.RFC3339),
			ResourceID: s.Resource.ID(),
		})
	}
	return items
}

func (h *AvailabilityHandler) writeCheckerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidDuration),
		errors.Is(err, availability.ErrInvalidRange),
		errors.Is(err, availability.ErrMissingBusiness):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("availability query failed", "err", err, "path", r.URL.Path)
		http.Error(w, "availability lookup failed", http.StatusInternalServerError)
	}
}

func parseDate(raw string) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseDurationMinutes(raw string) (time.Duration, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 || n > 24*60 {
		return 0, false
	}
	return time.Duration(n) * time.Minute, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
