// Package rpc exposes the kinematics engine as a gRPC service. Messages are
// google.protobuf.Struct values so clients in any language can call it
// without generated stubs:
//
//	Forward: {"angles": [S, L, U, R, B, T]}  ->  {"x", "y", "z"}
//	Inverse: {"x", "y", "z"}                  ->  {"angles", "distance", "evaluated", "solution_id", "cached"}
//
// Lengths are in meters and angles in degrees. Inverse goes through the same
// solution log and timeout as the HTTP API.
package rpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/solve"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "armkin.v1.Kinematics"

const (
	forwardMethod = "/" + ServiceName + "/Forward"
	inverseMethod = "/" + ServiceName + "/Inverse"
)

// KinematicsServer is the server API for the Kinematics service.
type KinematicsServer interface {
	Forward(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Inverse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Ensure Service implements the gRPC interface.
var _ KinematicsServer = (*Service)(nil)

// Service implements KinematicsServer on top of a solve.Service.
type Service struct {
	solver *solve.Service
}

// NewService creates a service that answers inverse requests with solver.
func NewService(solver *solve.Service) *Service {
	return &Service{solver: solver}
}

// RegisterService registers svc on grpcServer.
func RegisterService(grpcServer *grpc.Server, svc KinematicsServer) {
	grpcServer.RegisterService(&serviceDesc, svc)
}

func (s *Service) Forward(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	list := req.GetFields()["angles"].GetListValue()
	if list == nil {
		return nil, status.Error(codes.InvalidArgument, "angles must be a list of 6 numbers")
	}
	vals := make([]float64, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "angles must be numbers")
		}
		vals = append(vals, n.NumberValue)
	}
	angles, err := kinematics.JointAnglesFromSlice(vals)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return pointStruct(kinematics.ForwardKinematics(angles)), nil
}

func (s *Service) Inverse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	target, err := structPoint(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sol, cached, err := s.solver.Solve(ctx, target, db.SourceGRPC)
	if err != nil {
		if errors.Is(err, kinematics.ErrEmptyGrid) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.FromContextError(err).Err()
	}
	out := resultStruct(sol.Result())
	out.Fields["solution_id"] = structpb.NewStringValue(sol.SolutionID)
	out.Fields["cached"] = structpb.NewBoolValue(cached)
	return out, nil
}

func pointStruct(p geom.Point) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"x": structpb.NewNumberValue(p.X),
		"y": structpb.NewNumberValue(p.Y),
		"z": structpb.NewNumberValue(p.Z),
	}}
}

func structPoint(s *structpb.Struct) (geom.Point, error) {
	var vals [3]float64
	for i, k := range []string{"x", "y", "z"} {
		v, ok := s.GetFields()[k].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return geom.Point{}, fmt.Errorf("%s must be a number", k)
		}
		vals[i] = v.NumberValue
	}
	return geom.NewPoint(vals[0], vals[1], vals[2]), nil
}

func resultStruct(res kinematics.SearchResult) *structpb.Struct {
	angles := make([]*structpb.Value, 0, 6)
	for _, a := range res.Angles.AsSlice() {
		angles = append(angles, structpb.NewNumberValue(a))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"angles":    structpb.NewListValue(&structpb.ListValue{Values: angles}),
		"distance":  structpb.NewNumberValue(res.Distance),
		"evaluated": structpb.NewNumberValue(float64(res.Evaluated)),
	}}
}

func structResult(s *structpb.Struct) (kinematics.SearchResult, error) {
	var vals []float64
	for _, v := range s.GetFields()["angles"].GetListValue().GetValues() {
		vals = append(vals, v.GetNumberValue())
	}
	angles, err := kinematics.JointAnglesFromSlice(vals)
	if err != nil {
		return kinematics.SearchResult{}, err
	}
	return kinematics.SearchResult{
		Angles:    angles,
		Distance:  s.GetFields()["distance"].GetNumberValue(),
		Evaluated: int(s.GetFields()["evaluated"].GetNumberValue()),
	}, nil
}

func forwardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KinematicsServer).Forward(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: forwardMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KinematicsServer).Forward(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func inverseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KinematicsServer).Inverse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: inverseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KinematicsServer).Inverse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KinematicsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Forward", Handler: forwardHandler},
		{MethodName: "Inverse", Handler: inverseHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "armkin/v1/kinematics",
}
