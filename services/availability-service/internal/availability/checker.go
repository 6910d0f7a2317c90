package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/model"
)

// DefaultProjectionCapDays bounds the day loop of ProjectAvailability when
// no explicit cap is configured. Callers needing longer horizons paginate.
const DefaultProjectionCapDays = 60

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidRange    = errors.New("end date is before start date")
	ErrMissingBusiness = errors.New("business id is required")
)

// Unavailability reasons returned by CheckSlot. Unavailability is a normal
// result, never an error.
const (
	ReasonHoliday      = "Holiday"
	ReasonOutsideHours = "Outside business hours"
	ReasonSlotTaken    = "Slot taken"
)

// Slot is a computed candidate booking interval. Slots are ephemeral: they
// are produced fresh on every query and never persisted.
type Slot struct {
	Start    time.Time
	End      time.Time
	Resource model.Resource
}

// Decision is the outcome of a single-slot check. Reason is set only when
// Available is false.
type Decision struct {
	Available bool
	Reason    string
}

// DayAvailability pairs one calendar day with its free slots.
type DayAvailability struct {
	Date  time.Time
	Slots []Slot
}

// Checker composes the holiday calendar and the external data sources into
// the availability queries. It is stateless and side-effect-free: every
// entry point reads a snapshot and computes, so concurrent calls need no
// synchronization and repeated calls over an unchanged ledger return
// identical results.
//
// A returned slot is not a reservation. Between a check here and a
// confirmation elsewhere another caller can take the slot; serializing the
// commit belongs to the persistence layer (an exclusion constraint on
// (resource, interval) or a transactional re-check-and-insert), and booking
// workflows should re-validate inside that transaction.
type Checker struct {
	windows  WindowSource
	rules    RuleSource
	ledger   AppointmentLedger
	holidays *HolidayCalendar
	capDays  int
}

func NewChecker(windows WindowSource, rules RuleSource, ledger AppointmentLedger, holidays *HolidayCalendar, projectionCapDays int) *Checker {
	if holidays == nil {
		holidays = DefaultHolidayCalendar()
	}
	if projectionCapDays <= 0 {
		projectionCapDays = DefaultProjectionCapDays
	}
	return &Checker{
		windows:  windows,
		rules:    rules,
		ledger:   ledger,
		holidays: holidays,
		capDays:  projectionCapDays,
	}
}

// AvailableSlots returns the free, time-ordered slots of length duration on
// the given day, each tagged with the resource of the window it came from.
// Holidays and days without configured windows yield an empty list, not an
// error.
func (c *Checker) AvailableSlots(ctx context.Context, businessID, locationID string, day time.Time, duration time.Duration) ([]Slot, error) {
	if businessID == "" {
		return nil, ErrMissingBusiness
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	if c.holidays.IsHoliday(day) {
		return []Slot{}, nil
	}

	windows, err := c.windows.WindowsForDay(ctx, businessID, day.Weekday(), locationID)
	if err != nil {
		return nil, fmt.Errorf("load operating windows: %w", err)
	}
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	buffer, err := c.bufferFor(ctx, businessID)
	if err != nil {
		return nil, err
	}

	appts, err := c.activeForDay(ctx, businessID, locationID, day)
	if err != nil {
		return nil, err
	}

	// The stride is derived exactly once; the grid itself stays buffer-free
	// so candidates are never rejected by their own trailing gap.
	step := duration + buffer

	slots := []Slot{}
	for _, w := range windows {
		winStart, winEnd, err := w.Bounds(day)
		if err != nil {
			return nil, fmt.Errorf("operating window for %s: %w", w.Weekday, err)
		}
		for _, start := range SlotStarts(winStart, winEnd, duration, step) {
			end := start.Add(duration)
			if conflictsAny(start, end, w.Resource, appts, buffer) {
				continue
			}
			// Windows on the same resource may overlap; checking against
			// already-accepted slots keeps the result pairwise conflict-free.
			if collidesWithAccepted(start, end, w.Resource, slots, buffer) {
				continue
			}
			slots = append(slots, Slot{Start: start, End: end, Resource: w.Resource})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].Resource.ID() < slots[j].Resource.ID()
	})
	return slots, nil
}

// CheckSlot validates a single requested slot at confirmation time. A
// merely-unavailable slot is a negative Decision, never an error; errors are
// reserved for unreachable data sources and contract violations.
func (c *Checker) CheckSlot(ctx context.Context, businessID, locationID string, resource model.Resource, start time.Time, duration time.Duration) (Decision, error) {
	if businessID == "" {
		return Decision{}, ErrMissingBusiness
	}
	if duration <= 0 {
		return Decision{}, ErrInvalidDuration
	}

	if c.holidays.IsHoliday(start) {
		return Decision{Reason: ReasonHoliday}, nil
	}

	end := start.Add(duration)

	windows, err := c.windows.WindowsForDay(ctx, businessID, start.Weekday(), locationID)
	if err != nil {
		return Decision{}, fmt.Errorf("load operating windows: %w", err)
	}
	contained := false
	for _, w := range windows {
		if !w.Resource.Matches(resource) {
			continue
		}
		winStart, winEnd, err := w.Bounds(start)
		if err != nil {
			return Decision{}, fmt.Errorf("operating window for %s: %w", w.Weekday, err)
		}
		if !start.Before(winStart) && !end.After(winEnd) {
			contained = true
			break
		}
	}
	if !contained {
		return Decision{Reason: ReasonOutsideHours}, nil
	}

	buffer, err := c.bufferFor(ctx, businessID)
	if err != nil {
		return Decision{}, err
	}

	appts, err := c.activeForDay(ctx, businessID, locationID, start)
	if err != nil {
		return Decision{}, err
	}
	if conflictsAny(start, end, resource, appts, buffer) {
		return Decision{Reason: ReasonSlotTaken}, nil
	}

	return Decision{Available: true}, nil
}

// ProjectAvailability collects per-day availability from `from` to `to`
// inclusive. The day loop is capped to bound the cost of one request; days
// past the cap are silently dropped and callers paginate.
func (c *Checker) ProjectAvailability(ctx context.Context, businessID, locationID string, from, to time.Time, duration time.Duration) ([]DayAvailability, error) {
	if businessID == "" {
		return nil, ErrMissingBusiness
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	first := startOfDay(from)
	last := startOfDay(to)
	if last.Before(first) {
		return nil, ErrInvalidRange
	}

	var out []DayAvailability
	for day, n := first, 0; !day.After(last) && n < c.capDays; day, n = day.AddDate(0, 0, 1), n+1 {
		slots, err := c.AvailableSlots(ctx, businessID, locationID, day, duration)
		if err != nil {
			return nil, err
		}
		out = append(out, DayAvailability{Date: day, Slots: slots})
	}
	return out, nil
}

func (c *Checker) bufferFor(ctx context.Context, businessID string) (time.Duration, error) {
	rule, found, err := c.rules.RuleFor(ctx, businessID)
	if err != nil {
		return 0, fmt.Errorf("load booking rule: %w", err)
	}
	if !found {
		return 0, nil
	}
	return rule.Buffer(), nil
}

func (c *Checker) activeForDay(ctx context.Context, businessID, locationID string, day time.Time) ([]model.Appointment, error) {
	dayStart := startOfDay(day)
	appts, err := c.ledger.ActiveBetween(ctx, businessID, locationID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return appts, nil
}

func collidesWithAccepted(start, end time.Time, resource model.Resource, accepted []Slot, buffer time.Duration) bool {
	for _, s := range accepted {
		if !resource.Matches(s.Resource) {
			continue
		}
		if Overlaps(start, end, Interval{Start: s.Start, End: s.End}, buffer) {
			return true
		}
	}
	return false
}

func conflictsAny(start, end time.Time, resource model.Resource, appts []model.Appointment, buffer time.Duration) bool {
	for _, a := range appts {
		if !a.Status.Blocks() {
			continue
		}
		if !resource.Matches(a.Resource) {
			continue
		}
		if Overlaps(start, end, Interval{Start: a.StartTime, End: a.EndTime}, buffer) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
