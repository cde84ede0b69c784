package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "borewell.v1.IrrigationService"

// IrrigationServer is the server side of ServiceName. Requests and replies
// are google.protobuf.Struct messages.
type IrrigationServer interface {
	AddConnection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ScheduleMotor(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddCrop(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindConnection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NextMotorRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListConnections(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCrops(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PendingMotorRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFunc func(IrrigationServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, fn unaryFunc) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(IrrigationServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return fn(srv.(IrrigationServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IrrigationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddConnection", IrrigationServer.AddConnection),
		unary("ScheduleMotor", IrrigationServer.ScheduleMotor),
		unary("AddCrop", IrrigationServer.AddCrop),
		unary("FindConnection", IrrigationServer.FindConnection),
		unary("NextMotorRun", IrrigationServer.NextMotorRun),
		unary("ListConnections", IrrigationServer.ListConnections),
		unary("ListCrops", IrrigationServer.ListCrops),
		unary("ListHistory", IrrigationServer.ListHistory),
		unary("PendingMotorRuns", IrrigationServer.PendingMotorRuns),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "borewell/v1/irrigation.proto",
}

func RegisterIrrigationServer(s grpc.ServiceRegistrar, srv IrrigationServer) {
	s.RegisterService(&ServiceDesc, srv)
}
