package entities

// Connection is a directed water-transfer link from a borewell to another
// borewell or to a farm.
type Connection struct {
	BorewellID  int     `json:"borewell_id"`  // lookup key
	ConnectedTo int     `json:"connected_to"` // target borewell/farm id
	Distance    float64 `json:"distance"`     // meters
	Speed       float64 `json:"speed"`        // liters/hour
}
