package entities

import "time"

// Crop holds the irrigation requirement of a single crop.
type Crop struct {
	ID            int       `json:"id"`             // catalog sort key
	CropType      string    `json:"crop_type"`      // e.g. "paddy", "sugarcane"
	SoilType      string    `json:"soil_type"`      // e.g. "loamy", "clay"
	WaterRequired int       `json:"water_required"` // liters
	StartTime     time.Time `json:"start_time"`
}
