package messages

import (
	"time"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

// MotorDispatchEvent is published when a scheduled motor run leaves the queue.
type MotorDispatchEvent struct {
	TicketID    string              `json:"ticket_id"`
	BorewellID  int                 `json:"borewell_id"`
	State       entities.MotorState `json:"state"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
	WaterAmount int                 `json:"water_amount"`
	Speed       float64             `json:"speed"`
	Timestamp   time.Time           `json:"timestamp"`
}
