package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Minute, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	d.Flush()
	if got := calls.Load(); got != 1 {
		t.Errorf("calls after flush = %d, want 1", got)
	}

	// Flush with nothing pending is a no-op.
	d.Flush()
	if got := calls.Load(); got != 1 {
		t.Errorf("calls after second flush = %d, want 1", got)
	}
}

func TestStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls after stop = %d, want 0", got)
	}

	// Triggers after Stop are ignored.
	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls after post-stop trigger = %d, want 0", got)
	}
}

func TestIndependentInstances(t *testing.T) {
	var a, b atomic.Int32
	da := New(10*time.Millisecond, func() { a.Add(1) })
	db := New(10*time.Millisecond, func() { b.Add(1) })
	defer da.Stop()
	defer db.Stop()

	da.Trigger()
	db.Trigger()
	da.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := a.Load(); got != 0 {
		t.Errorf("a calls = %d, want 0", got)
	}
	if got := b.Load(); got != 1 {
		t.Errorf("b calls = %d, want 1", got)
	}
}
