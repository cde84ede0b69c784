package messages

import "time"

// Record event kinds.
const (
	KindConnectionAdded = "connection.added"
	KindMotorScheduled  = "motor.scheduled"
	KindCropAdded       = "crop.added"
)

// RecordEvent is emitted after every successful record operation.
// Logged is false when the action history was already full.
type RecordEvent struct {
	EventID   string             `json:"event_id"`
	Kind      string             `json:"kind"`
	SubjectID int                `json:"subject_id"`
	Action    string             `json:"action"`
	EndTime   *time.Time         `json:"end_time,omitempty"`
	Fields    map[string]float64 `json:"fields,omitempty"`
	Logged    bool               `json:"logged"`
	Timestamp time.Time          `json:"timestamp"`
}
