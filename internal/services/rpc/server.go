// Package rpc exposes the irrigation service over gRPC.
package rpc

import (
	"context"
	"errors"
	"log"
	"net"
	"slices"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/borewell_project/internal/services/irrigation"
)

// GrpcHandler implements IrrigationServer on top of irrigation.Service.
type GrpcHandler struct {
	svc *irrigation.Service
	loc *time.Location
	now func() time.Time
}

func NewGrpcHandler(svc *irrigation.Service, loc *time.Location) *GrpcHandler {
	if loc == nil {
		loc = time.Local
	}
	return &GrpcHandler{svc: svc, loc: loc, now: time.Now}
}

// NewServer returns a grpc.Server with h registered.
func NewServer(h *GrpcHandler, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logErrors))
	s := grpc.NewServer(opts...)
	RegisterIrrigationServer(s, h)
	return s
}

// Serve runs s on lis until ctx is done.
func Serve(ctx context.Context, s *grpc.Server, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()
	log.Printf("rpc: listening on %s", lis.Addr())
	return s.Serve(lis)
}

func logErrors(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("rpc: %s: %v", info.FullMethod, err)
	}
	return resp, err
}

// start resolves start_time (RFC3339) or hour/minute; neither means now.
func (h *GrpcHandler) start(in *structpb.Struct) (time.Time, error) {
	if s := stringArg(in, "start_time"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return time.Time{}, invalidArg("start_time: %v", err)
		}
		return t, nil
	}
	hour, hasHour, err := intArg(in, "hour")
	if err != nil {
		return time.Time{}, err
	}
	minute, hasMinute, err := intArg(in, "minute")
	if err != nil {
		return time.Time{}, err
	}
	if !hasHour && !hasMinute {
		return h.now().In(h.loc), nil
	}
	t, err := irrigation.StartAt(h.now(), hour, minute, h.loc)
	if err != nil {
		return time.Time{}, invalidArg("%v", err)
	}
	return t, nil
}

func recordReply(res irrigation.Result, err error) (*structpb.Struct, error) {
	if err != nil && !errors.Is(err, irrigation.ErrLogFull) {
		if errors.Is(err, irrigation.ErrInvalidInput) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	m := map[string]interface{}{
		"success":          true,
		"end_time":         timeString(res.EndTime),
		"end_time_display": irrigation.FormatEndTime(res.EndTime),
		"logged":           res.Logged,
	}
	if err != nil {
		m["warning"] = "history is full, action not logged"
	}
	return structpb.NewStruct(m)
}

func (h *GrpcHandler) AddConnection(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := intArg(in, "borewell_id")
	if err != nil {
		return nil, err
	}
	to, _, err := intArg(in, "connected_to")
	if err != nil {
		return nil, err
	}
	dist, err := floatArg(in, "distance")
	if err != nil {
		return nil, err
	}
	speed, err := floatArg(in, "speed")
	if err != nil {
		return nil, err
	}
	start, err := h.start(in)
	if err != nil {
		return nil, err
	}
	return recordReply(h.svc.AddConnection(id, to, dist, speed, start))
}

func (h *GrpcHandler) ScheduleMotor(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := intArg(in, "borewell_id")
	if err != nil {
		return nil, err
	}
	water, _, err := intArg(in, "water_amount")
	if err != nil {
		return nil, err
	}
	speed, err := floatArg(in, "speed")
	if err != nil {
		return nil, err
	}
	start, err := h.start(in)
	if err != nil {
		return nil, err
	}
	return recordReply(h.svc.ScheduleMotor(id, start, water, speed))
}

func (h *GrpcHandler) AddCrop(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := intArg(in, "id")
	if err != nil {
		return nil, err
	}
	water, _, err := intArg(in, "water_required")
	if err != nil {
		return nil, err
	}
	speed, err := floatArg(in, "speed")
	if err != nil {
		return nil, err
	}
	start, err := h.start(in)
	if err != nil {
		return nil, err
	}
	return recordReply(h.svc.AddCrop(id, stringArg(in, "crop_type"), stringArg(in, "soil_type"), water, start, speed))
}

func (h *GrpcHandler) FindConnection(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := intArg(in, "borewell_id")
	if err != nil {
		return nil, err
	}
	c, ok := h.svc.FindConnection(id)
	if !ok {
		return structpb.NewStruct(map[string]interface{}{"found": false})
	}
	return structpb.NewStruct(map[string]interface{}{"found": true, "connection": connToMap(c)})
}

func (h *GrpcHandler) NextMotorRun(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	r, ok := h.svc.NextMotorRun()
	if !ok {
		return structpb.NewStruct(map[string]interface{}{"empty": true})
	}
	return structpb.NewStruct(map[string]interface{}{"empty": false, "motor_run": runToMap(r)})
}

func (h *GrpcHandler) ListConnections(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	items := slices.Collect(h.svc.ListConnections())
	return structpb.NewStruct(map[string]interface{}{"connections": listOf(items, connToMap)})
}

func (h *GrpcHandler) ListCrops(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	items := slices.Collect(h.svc.ListCropsSorted())
	return structpb.NewStruct(map[string]interface{}{"crops": listOf(items, cropToMap)})
}

func (h *GrpcHandler) ListHistory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	items := slices.Collect(h.svc.ListHistory())
	return structpb.NewStruct(map[string]interface{}{"history": listOf(items, entryToMap)})
}

func (h *GrpcHandler) PendingMotorRuns(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	items := slices.Collect(h.svc.PendingMotorRuns())
	return structpb.NewStruct(map[string]interface{}{"motor_runs": listOf(items, runToMap)})
}
