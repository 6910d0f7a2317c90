package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestResourceMatches(t *testing.T) {
	shared := SharedResource()
	chair := ResourceFor("chair-1")
	other := ResourceFor("chair-2")

	if !shared.Matches(chair) || !chair.Matches(shared) {
		t.Fatal("the shared resource must match every resource, both ways")
	}
	if !chair.Matches(ResourceFor("chair-1")) {
		t.Fatal("equal dedicated ids must match")
	}
	if chair.Matches(other) {
		t.Fatal("distinct dedicated ids must not match")
	}
}

func TestResourceForEmptyIDIsShared(t *testing.T) {
	if !ResourceFor("").IsShared() {
		t.Fatal("an empty id must degrade to the shared resource")
	}
}

func TestResourceJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(SharedResource())
	if err != nil {
		t.Fatalf("marshal shared: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("shared resource must serialize as null, got %s", b)
	}

	var r Resource
	if err := json.Unmarshal([]byte(`"bay-3"`), &r); err != nil {
		t.Fatalf("unmarshal dedicated: %v", err)
	}
	if r.IsShared() || r.ID() != "bay-3" {
		t.Fatalf("expected dedicated bay-3, got %s", r)
	}
	if err := json.Unmarshal([]byte("null"), &r); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !r.IsShared() {
		t.Fatal("null must deserialize to the shared resource")
	}
}

func TestOperatingWindowBounds(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w := OperatingWindow{StartTime: "09:30", EndTime: "17:00"}

	start, end, err := w.Bounds(day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(day.Add(9*time.Hour + 30*time.Minute)) {
		t.Fatalf("unexpected start: %s", start)
	}
	if !end.Equal(day.Add(17 * time.Hour)) {
		t.Fatalf("unexpected end: %s", end)
	}
}

func TestOperatingWindowBoundsRejectsInvertedOrMalformed(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if _, _, err := (OperatingWindow{StartTime: "17:00", EndTime: "09:00"}).Bounds(day); err == nil {
		t.Fatal("expected an error for an inverted window")
	}
	if _, _, err := (OperatingWindow{StartTime: "9am", EndTime: "17:00"}).Bounds(day); err == nil {
		t.Fatal("expected an error for a malformed clock time")
	}
}

func TestStatusBlocks(t *testing.T) {
	blocking := []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted}
	for _, s := range blocking {
		if !s.Blocks() {
			t.Fatalf("%s must block its slot", s)
		}
	}
	for _, s := range []AppointmentStatus{StatusCancelled, StatusNoShow} {
		if s.Blocks() {
			t.Fatalf("%s must not block its slot", s)
		}
	}
}
