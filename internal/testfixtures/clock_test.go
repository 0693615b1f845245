package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if clock.Now().Weekday() != time.Monday {
		t.Fatalf("expected reference time on a Monday, got %v", clock.Now().Weekday())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2026, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestClockNowFunc(t *testing.T) {
	clock := NewClock(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	nowFn := clock.NowFunc()

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(clock.Now()) {
		t.Fatalf("expected updated time %v, got %v", clock.Now(), got)
	}

	var nilClock *Clock
	if nilClock.NowFunc() == nil {
		t.Fatal("expected time.Now fallback for nil clock")
	}
}

func TestMemoryTimerFailureInjection(t *testing.T) {
	timer := NewMemoryTimer()
	timer.FailOn("bad", ErrPermissionDenied)

	if err := timer.RegisterOnce(Item("good"), ReferenceTime()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := timer.RegisterWeekly(Item("bad"), time.Monday); err != ErrPermissionDenied {
		t.Fatalf("expected injected failure, got %v", err)
	}

	ids, err := timer.Registered()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "good" {
		t.Fatalf("expected only good to be held, got %v", ids)
	}
	if timer.RegisterCalls() != 2 {
		t.Fatalf("expected 2 register calls, got %d", timer.RegisterCalls())
	}

	timer.FailOn("bad", nil)
	if err := timer.RegisterWeekly(Item("bad"), time.Monday); err != nil {
		t.Fatalf("expected cleared failure, got %v", err)
	}
}
