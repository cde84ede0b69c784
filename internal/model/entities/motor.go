package entities

import "time"

// MotorState indicates whether a borewell motor is running.
type MotorState string

const (
	MotorOff MotorState = "off"
	MotorOn  MotorState = "on"
)

// ScheduledMotorRun is a pending motor operation waiting in the schedule.
type ScheduledMotorRun struct {
	BorewellID  int       `json:"borewell_id"`
	StartTime   time.Time `json:"start_time"`
	WaterAmount int       `json:"water_amount"` // liters
	Speed       float64   `json:"speed"`        // liters/hour
}
