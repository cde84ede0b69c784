package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

// RecordReply is the decoded reply of the record operations.
type RecordReply struct {
	EndTime        time.Time
	EndTimeDisplay string
	Logged         bool
	Warning        string
}

// Client calls ServiceName over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func (c *Client) call(ctx context.Context, method string, in map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) record(ctx context.Context, method string, in map[string]interface{}) (RecordReply, error) {
	out, err := c.call(ctx, method, in)
	if err != nil {
		return RecordReply{}, err
	}
	f := out.GetFields()
	end, err := parseTime(f["end_time"].GetStringValue())
	if err != nil {
		return RecordReply{}, fmt.Errorf("%s: end_time: %w", method, err)
	}
	return RecordReply{
		EndTime:        end,
		EndTimeDisplay: f["end_time_display"].GetStringValue(),
		Logged:         f["logged"].GetBoolValue(),
		Warning:        f["warning"].GetStringValue(),
	}, nil
}

func (c *Client) AddConnection(ctx context.Context, conn entities.Connection, start time.Time) (RecordReply, error) {
	in := connToMap(conn)
	in["start_time"] = timeString(start)
	return c.record(ctx, "AddConnection", in)
}

func (c *Client) ScheduleMotor(ctx context.Context, run entities.ScheduledMotorRun) (RecordReply, error) {
	return c.record(ctx, "ScheduleMotor", runToMap(run))
}

// AddCrop records crop; speed is the delivery rate used for the end time.
func (c *Client) AddCrop(ctx context.Context, crop entities.Crop, speed float64) (RecordReply, error) {
	in := cropToMap(crop)
	in["speed"] = speed
	return c.record(ctx, "AddCrop", in)
}

func (c *Client) FindConnection(ctx context.Context, borewellID int) (entities.Connection, bool, error) {
	out, err := c.call(ctx, "FindConnection", map[string]interface{}{"borewell_id": borewellID})
	if err != nil {
		return entities.Connection{}, false, err
	}
	f := out.GetFields()
	if !f["found"].GetBoolValue() {
		return entities.Connection{}, false, nil
	}
	return connFromStruct(f["connection"].GetStructValue()), true, nil
}

func (c *Client) NextMotorRun(ctx context.Context) (entities.ScheduledMotorRun, bool, error) {
	out, err := c.call(ctx, "NextMotorRun", nil)
	if err != nil {
		return entities.ScheduledMotorRun{}, false, err
	}
	f := out.GetFields()
	if f["empty"].GetBoolValue() {
		return entities.ScheduledMotorRun{}, false, nil
	}
	run, err := runFromStruct(f["motor_run"].GetStructValue())
	return run, err == nil, err
}

func (c *Client) ListConnections(ctx context.Context) ([]entities.Connection, error) {
	out, err := c.call(ctx, "ListConnections", nil)
	if err != nil {
		return nil, err
	}
	var res []entities.Connection
	for _, v := range out.GetFields()["connections"].GetListValue().GetValues() {
		res = append(res, connFromStruct(v.GetStructValue()))
	}
	return res, nil
}

func (c *Client) ListCrops(ctx context.Context) ([]entities.Crop, error) {
	out, err := c.call(ctx, "ListCrops", nil)
	if err != nil {
		return nil, err
	}
	var res []entities.Crop
	for _, v := range out.GetFields()["crops"].GetListValue().GetValues() {
		crop, err := cropFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		res = append(res, crop)
	}
	return res, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]entities.ActionLogEntry, error) {
	out, err := c.call(ctx, "ListHistory", nil)
	if err != nil {
		return nil, err
	}
	var res []entities.ActionLogEntry
	for _, v := range out.GetFields()["history"].GetListValue().GetValues() {
		e, err := entryFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func (c *Client) PendingMotorRuns(ctx context.Context) ([]entities.ScheduledMotorRun, error) {
	out, err := c.call(ctx, "PendingMotorRuns", nil)
	if err != nil {
		return nil, err
	}
	var res []entities.ScheduledMotorRun
	for _, v := range out.GetFields()["motor_runs"].GetListValue().GetValues() {
		r, err := runFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}
