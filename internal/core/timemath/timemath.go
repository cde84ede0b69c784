// Package timemath computes suggested completion times for water transfers.
package timemath

import (
	"errors"
	"math"
	"time"
)

var (
	ErrDivisionByZero = errors.New("timemath: rate is zero")
	ErrInvalidRate    = errors.New("timemath: rate must be a finite positive number")
	ErrOverflow       = errors.New("timemath: duration out of range")
)

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// Duration returns floor(quantity/rate*3600) seconds, i.e. the time needed to
// move quantity units at rate units per hour.
func Duration(quantity, rate float64) (time.Duration, error) {
	if rate == 0 {
		return 0, ErrDivisionByZero
	}
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrInvalidRate
	}
	secs := math.Floor(quantity / rate * 3600)
	if math.IsNaN(secs) || math.Abs(secs) > maxSeconds {
		return 0, ErrOverflow
	}
	return time.Duration(secs) * time.Second, nil
}

// ComputeEndTime returns start plus the transfer duration of quantity at rate.
func ComputeEndTime(start time.Time, quantity, rate float64) (time.Time, error) {
	d, err := Duration(quantity, rate)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(d), nil
}
