package cli

import (
	"context"
	"testing"
	"time"
)

func waitForExit(t *testing.T, s *Spinner) {
	t.Helper()
	select {
	case <-s.exited:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner goroutine did not exit")
	}
}

func TestSpinnerStopAfterRun(t *testing.T) {
	s := newSpinner("Working...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("plain Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Working...")
	s.Start()
	cancel()

	waitForExit(t, s)
	if !s.Cancelled() {
		t.Error("Cancelled should report true after parent cancellation")
	}

	// Stop after the goroutine already exited must return promptly.
	s.Stop()
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Working...")
	s.Start()

	waitForExit(t, s)
	if !s.Cancelled() {
		t.Error("Cancelled should report true after parent timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Working...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("Never shown")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on an unstarted spinner blocked")
	}
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := newSpinner("Working...")
	s.Start()
	s.Start()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Working...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed")
}
