package history

import (
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/messages"
)

const measurement = "system_event"

// EventToPoint maps a RecordEvent to one system_event point. The event's
// numeric fields become point fields; count is always present.
func EventToPoint(ev messages.RecordEvent) *write.Point {
	tags := map[string]string{
		"event_type": ev.Kind,
		"subject_id": strconv.Itoa(ev.SubjectID),
		"logged":     strconv.FormatBool(ev.Logged),
	}
	if ev.EventID != "" {
		tags["event_id"] = ev.EventID
	}

	fields := map[string]interface{}{"count": int64(1)}
	for k, v := range ev.Fields {
		fields[k] = v
	}
	if ev.EndTime != nil {
		fields["end_time_unix"] = ev.EndTime.Unix()
	}
	if ev.Action != "" {
		fields["action"] = ev.Action
	}
	return influxdb2.NewPoint(measurement, tags, fields, ev.Timestamp)
}
