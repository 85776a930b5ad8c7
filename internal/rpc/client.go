package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
)

// Client calls the Kinematics service over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Forward returns the finger position for angles.
func (c *Client) Forward(ctx context.Context, angles kinematics.JointAngles) (geom.Point, error) {
	vals := make([]*structpb.Value, 0, 6)
	for _, a := range angles.AsSlice() {
		vals = append(vals, structpb.NewNumberValue(a))
	}
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"angles": structpb.NewListValue(&structpb.ListValue{Values: vals}),
	}}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, forwardMethod, in, out); err != nil {
		return geom.Point{}, err
	}
	return structPoint(out)
}

// Inverse solves for target on the server's grid.
func (c *Client) Inverse(ctx context.Context, target geom.Point) (kinematics.SearchResult, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, inverseMethod, pointStruct(target), out); err != nil {
		return kinematics.SearchResult{}, err
	}
	res, err := structResult(out)
	if err != nil {
		return res, fmt.Errorf("decode inverse response: %w", err)
	}
	return res, nil
}
