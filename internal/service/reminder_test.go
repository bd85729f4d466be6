package service

import (
	"testing"
	"time"

	"taskhub/internal/domain"
)

func TestReminderTime(t *testing.T) {
	due := time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		value int
		unit  domain.OffsetUnit
		want  time.Time
	}{
		{30, domain.UnitMinutes, due.Add(-30 * time.Minute)},
		{2, domain.UnitHours, due.Add(-2 * time.Hour)},
		{1, domain.UnitDays, due.Add(-24 * time.Hour)},
	}

	for _, c := range cases {
		got := ReminderTime(due, c.value, c.unit)
		if !got.Equal(c.want) {
			t.Fatalf("ReminderTime(%d %s): expected %v got %v", c.value, c.unit, c.want, got)
		}
	}
}

func TestInSendWindow(t *testing.T) {
	rt := time.Date(2026, 3, 21, 8, 30, 0, 0, time.UTC)
	window := 5 * time.Minute

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", rt.Add(-time.Second), false},
		{"window opens", rt, true},
		{"inside window", rt.Add(3 * time.Minute), true},
		{"window closes", rt.Add(window), false},
		{"long after", rt.Add(time.Hour), false},
	}

	for _, c := range cases {
		if got := InSendWindow(c.now, rt, window); got != c.want {
			t.Fatalf("%s: expected %v got %v", c.name, c.want, got)
		}
	}
}

func TestReminderMessage(t *testing.T) {
	due := time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC)
	got := ReminderMessage("Ship release", due)
	want := `"Ship release" is due at 2026-03-21T09:00:00Z`
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}
