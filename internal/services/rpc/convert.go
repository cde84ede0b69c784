package rpc

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

func invalidArg(format string, a ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, format, a...)
}

func number(in *structpb.Struct, key string) (float64, bool, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, false, invalidArg("%s must be a number", key)
	}
	return v.GetNumberValue(), true, nil
}

func floatArg(in *structpb.Struct, key string) (float64, error) {
	f, _, err := number(in, key)
	return f, err
}

func intArg(in *structpb.Struct, key string) (int, bool, error) {
	f, ok, err := number(in, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, invalidArg("%s must be an integer", key)
	}
	return int(f), true, nil
}

func stringArg(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func timeString(t time.Time) string { return t.Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func connToMap(c entities.Connection) map[string]interface{} {
	return map[string]interface{}{
		"borewell_id":  c.BorewellID,
		"connected_to": c.ConnectedTo,
		"distance":     c.Distance,
		"speed":        c.Speed,
	}
}

func cropToMap(c entities.Crop) map[string]interface{} {
	return map[string]interface{}{
		"id":             c.ID,
		"crop_type":      c.CropType,
		"soil_type":      c.SoilType,
		"water_required": c.WaterRequired,
		"start_time":     timeString(c.StartTime),
	}
}

func runToMap(r entities.ScheduledMotorRun) map[string]interface{} {
	return map[string]interface{}{
		"borewell_id":  r.BorewellID,
		"start_time":   timeString(r.StartTime),
		"water_amount": r.WaterAmount,
		"speed":        r.Speed,
	}
}

func entryToMap(e entities.ActionLogEntry) map[string]interface{} {
	return map[string]interface{}{
		"description": e.Description,
		"timestamp":   timeString(e.Timestamp),
	}
}

func connFromStruct(s *structpb.Struct) entities.Connection {
	f := s.GetFields()
	return entities.Connection{
		BorewellID:  int(f["borewell_id"].GetNumberValue()),
		ConnectedTo: int(f["connected_to"].GetNumberValue()),
		Distance:    f["distance"].GetNumberValue(),
		Speed:       f["speed"].GetNumberValue(),
	}
}

func cropFromStruct(s *structpb.Struct) (entities.Crop, error) {
	f := s.GetFields()
	start, err := parseTime(f["start_time"].GetStringValue())
	if err != nil {
		return entities.Crop{}, fmt.Errorf("crop start_time: %w", err)
	}
	return entities.Crop{
		ID:            int(f["id"].GetNumberValue()),
		CropType:      f["crop_type"].GetStringValue(),
		SoilType:      f["soil_type"].GetStringValue(),
		WaterRequired: int(f["water_required"].GetNumberValue()),
		StartTime:     start,
	}, nil
}

func runFromStruct(s *structpb.Struct) (entities.ScheduledMotorRun, error) {
	f := s.GetFields()
	start, err := parseTime(f["start_time"].GetStringValue())
	if err != nil {
		return entities.ScheduledMotorRun{}, fmt.Errorf("motor run start_time: %w", err)
	}
	return entities.ScheduledMotorRun{
		BorewellID:  int(f["borewell_id"].GetNumberValue()),
		StartTime:   start,
		WaterAmount: int(f["water_amount"].GetNumberValue()),
		Speed:       f["speed"].GetNumberValue(),
	}, nil
}

func entryFromStruct(s *structpb.Struct) (entities.ActionLogEntry, error) {
	f := s.GetFields()
	ts, err := parseTime(f["timestamp"].GetStringValue())
	if err != nil {
		return entities.ActionLogEntry{}, fmt.Errorf("history timestamp: %w", err)
	}
	return entities.ActionLogEntry{Description: f["description"].GetStringValue(), Timestamp: ts}, nil
}

// listOf converts items with conv into a []interface{} for structpb.
func listOf[T any](items []T, conv func(T) map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, conv(it))
	}
	return out
}
