package availability

import (
	"testing"
	"time"
)

func TestHolidayCalendar_DefaultList(t *testing.T) {
	cal := DefaultHolidayCalendar()

	if !cal.IsHoliday(time.Date(2026, 12, 25, 10, 30, 0, 0, time.UTC)) {
		t.Fatal("12-25 should be a holiday in any year")
	}
	if !cal.IsHoliday(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("01-01 should be a holiday regardless of year")
	}
	if cal.IsHoliday(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("an ordinary Monday is not a holiday")
	}
}

func TestHolidayCalendar_CustomList(t *testing.T) {
	cal := NewHolidayCalendar([]string{"07-04", " 11-28 "})
	if !cal.IsHoliday(time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)) {
		t.Fatal("configured 07-04 should match")
	}
	if !cal.IsHoliday(time.Date(2026, 11, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("whitespace around entries should be tolerated")
	}
	if cal.IsHoliday(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("custom list replaces the default list")
	}
}

func TestHolidayCalendar_SkipsUnparsableEntries(t *testing.T) {
	cal := NewHolidayCalendar([]string{"13-40", "not-a-date", "", "12-26"})
	if !cal.IsHoliday(time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("valid entry should survive invalid neighbors")
	}
	if cal.IsHoliday(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("garbage entries must not match anything")
	}
}
