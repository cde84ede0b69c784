package entities

import "time"

// ActionLogEntry is one line of the action history.
type ActionLogEntry struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
