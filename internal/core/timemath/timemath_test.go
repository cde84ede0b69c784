package timemath

import (
	"errors"
	"math"
	"testing"
	"time"
)

var start = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

func TestComputeEndTimeWholeSeconds(t *testing.T) {
	cases := []struct {
		qty, rate float64
		want      time.Duration
	}{
		{100, 50, 2 * time.Hour},
		{1, 4, 900 * time.Second},
		{10, 7, 5142 * time.Second}, // 5142.857... floored
		{0, 12.5, 0},
	}
	for _, c := range cases {
		got, err := ComputeEndTime(start, c.qty, c.rate)
		if err != nil {
			t.Fatalf("ComputeEndTime(%v, %v): %v", c.qty, c.rate, err)
		}
		if want := start.Add(c.want); !got.Equal(want) {
			t.Fatalf("ComputeEndTime(%v, %v) = %v, want %v", c.qty, c.rate, got, want)
		}
	}
}

func TestComputeEndTimeZeroRate(t *testing.T) {
	if _, err := ComputeEndTime(start, 10, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestComputeEndTimeInvalidRate(t *testing.T) {
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := ComputeEndTime(start, 10, r); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("rate %v: expected ErrInvalidRate, got %v", r, err)
		}
	}
}

func TestComputeEndTimeOverflow(t *testing.T) {
	if _, err := ComputeEndTime(start, math.MaxFloat64, 1e-9); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}
