package messages

import "time"

// Command types accepted on the command topic.
const (
	CmdAddConnection = "add_connection"
	CmdScheduleMotor = "schedule_motor"
	CmdAddCrop       = "add_crop"
)

// Command is a remote request to record something. Only the fields relevant
// to Type are read. StartTime, when zero, is derived from Hour/Minute; when
// all three are absent the run starts now.
type Command struct {
	CommandID     string    `json:"command_id"`
	Type          string    `json:"type"`
	BorewellID    int       `json:"borewell_id,omitempty"`
	ConnectedTo   int       `json:"connected_to,omitempty"`
	Distance      float64   `json:"distance,omitempty"`
	Speed         float64   `json:"speed,omitempty"`
	WaterAmount   int       `json:"water_amount,omitempty"`
	CropID        int       `json:"crop_id,omitempty"`
	CropType      string    `json:"crop_type,omitempty"`
	SoilType      string    `json:"soil_type,omitempty"`
	WaterRequired int       `json:"water_required,omitempty"`
	Hour          *int      `json:"hour,omitempty"`
	Minute        *int      `json:"minute,omitempty"`
	StartTime     time.Time `json:"start_time,omitempty"`
}
