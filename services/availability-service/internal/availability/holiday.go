package availability

import (
	"strings"
	"time"
)

// DefaultHolidayMonthDays lists the recurring non-bookable dates (MM-DD)
// applied when no override is configured.
var DefaultHolidayMonthDays = []string{
	"01-01", "05-01", "06-12", "10-01", "12-25", "12-26",
}

// HolidayCalendar answers whether a calendar date is a recurring holiday.
// Matching is by month and day, year-independent.
type HolidayCalendar struct {
	monthDays map[string]struct{}
}

// NewHolidayCalendar builds a calendar from MM-DD strings. Entries that do
// not parse as a month-day are skipped.
func NewHolidayCalendar(monthDays []string) *HolidayCalendar {
	c := &HolidayCalendar{monthDays: make(map[string]struct{}, len(monthDays))}
	for _, md := range monthDays {
		md = strings.TrimSpace(md)
		if md == "" {
			continue
		}
		parsed, err := time.Parse("01-02", md)
		if err != nil {
			continue
		}
		c.monthDays[parsed.Format("01-02")] = struct{}{}
	}
	return c
}

func DefaultHolidayCalendar() *HolidayCalendar {
	return NewHolidayCalendar(DefaultHolidayMonthDays)
}

func (c *HolidayCalendar) IsHoliday(t time.Time) bool {
	_, ok := c.monthDays[t.Format("01-02")]
	return ok
}
