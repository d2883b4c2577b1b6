// Package pb defines the Reports gRPC service that receives analysis results.  Requests and acknowledgements are
// google.protobuf.Struct messages so collectors can store results without a generated schema.
package pb

import (
	"context"

	structpb "github.com/golang/protobuf/ptypes/struct"
	"google.golang.org/grpc"
)

const createMethod = "/spc.Reports/Create"

// ReportsClient is the client API for the Reports service
type ReportsClient interface {
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type reportsClient struct {
	cc *grpc.ClientConn
}

func NewReportsClient(cc *grpc.ClientConn) ReportsClient {
	return &reportsClient{cc}
}

func (c *reportsClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, createMethod, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReportsServer is the server API for the Reports service
type ReportsServer interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterReportsServer(s *grpc.Server, srv ReportsServer) {
	s.RegisterService(&reportsServiceDesc, srv)
}

func reportsCreateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportsServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: createMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportsServer).Create(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var reportsServiceDesc = grpc.ServiceDesc{
	ServiceName: "spc.Reports",
	HandlerType: (*ReportsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Create",
			Handler:    reportsCreateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spc/reports",
}

// NewAck returns the acknowledgement a collector sends for a report
func NewAck(success bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"success": Bool(success),
	}}
}

// Success reads the acknowledgement flag, false if it is missing
func Success(ack *structpb.Struct) bool {
	if ack == nil {
		return false
	}
	return ack.GetFields()["success"].GetBoolValue()
}

func Number(v float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: v}}
}

func String(v string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: v}}
}

func Bool(v bool) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: v}}
}

func Struct(fields map[string]*structpb.Value) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StructValue{StructValue: &structpb.Struct{Fields: fields}}}
}

func List(values ...*structpb.Value) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_ListValue{ListValue: &structpb.ListValue{Values: values}}}
}
