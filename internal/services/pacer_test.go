package services

import (
	"context"
	"testing"
	"time"
)

func TestPacerEnforcesMinimumSpacing(t *testing.T) {
	p := NewPacer(10) // 100ms interval

	last := time.Now()
	if err := p.Wait(context.Background(), last); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(last); elapsed < 100*time.Millisecond {
		t.Errorf("waited only %v, want at least 100ms", elapsed)
	}
}

func TestPacerNoWaitWhenIntervalElapsed(t *testing.T) {
	p := NewPacer(10)

	start := time.Now()
	if err := p.Wait(context.Background(), start.Add(-time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("should not have slept, waited %v", elapsed)
	}
}

func TestPacerZeroRateDisablesPacing(t *testing.T) {
	p := NewPacer(0)

	start := time.Now()
	if err := p.Wait(context.Background(), start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled pacer should return immediately, waited %v", elapsed)
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	p := NewPacer(0.1) // 10s interval

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	err := p.Wait(ctx, start)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation should interrupt the wait, took %v", elapsed)
	}
}
