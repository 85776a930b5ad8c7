package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/solve"
	"github.com/banshee-data/armkin/internal/testutil"
)

func smallSolver() *solve.Service {
	return solve.New(smallSearch(), nil, 0)
}

func smallSearch() *kinematics.Solver {
	return &kinematics.Solver{
		Grid: kinematics.Grid{
			S: kinematics.Range{Min: 0, Max: 90, Step: 45},
			L: kinematics.Range{Min: -10, Max: 10, Step: 10},
			U: kinematics.Range{Min: -10, Max: 10, Step: 10},
		},
		Workers: 2,
	}
}

func dialBufconn(t *testing.T, svc KinematicsServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterService(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn)
}

func TestForward(t *testing.T) {
	c := dialBufconn(t, NewService(smallSolver()))

	p, err := c.Forward(context.Background(), kinematics.JointAngles{S: 90})
	require.NoError(t, err)
	testutil.AssertPointNear(t, geom.NewPoint(1.022, 1.162, 0), p, testutil.Tolerance)
}

func TestInverse(t *testing.T) {
	c := dialBufconn(t, NewService(smallSolver()))
	want := kinematics.JointAngles{S: 45, L: -10, U: 10}

	res, err := c.Inverse(context.Background(), kinematics.ForwardKinematics(want))
	require.NoError(t, err)
	assert.Equal(t, want, res.Angles)
	assert.InDelta(t, 0, res.Distance, 1e-12)
	assert.Equal(t, 27, res.Evaluated)
}

func TestInverse_EmptyGrid(t *testing.T) {
	c := dialBufconn(t, NewService(solve.New(&kinematics.Solver{}, nil, 0)))

	_, err := c.Inverse(context.Background(), geom.Origin)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestInvalidArguments(t *testing.T) {
	svc := NewService(smallSolver())
	ctx := context.Background()

	bad := []*structpb.Struct{
		{},
		{Fields: map[string]*structpb.Value{"angles": structpb.NewStringValue("90 0 0 0 0 0")}},
		{Fields: map[string]*structpb.Value{"angles": structpb.NewListValue(&structpb.ListValue{
			Values: []*structpb.Value{structpb.NewNumberValue(1)},
		})}},
	}
	for _, req := range bad {
		_, err := svc.Forward(ctx, req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%v", req)
	}

	_, err := svc.Inverse(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"x": structpb.NewNumberValue(1),
		"y": structpb.NewStringValue("1"),
	}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestInverse_Cancelled(t *testing.T) {
	svc := NewService(solve.New(&kinematics.Solver{Grid: kinematics.DefaultGrid(), Workers: 2}, nil, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Inverse(ctx, pointStruct(geom.Origin))
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestInverse_SharesSolutionLog(t *testing.T) {
	database, err := db.NewDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	shared := solve.New(smallSearch(), database, 0)
	target := kinematics.ForwardKinematics(kinematics.JointAngles{S: 90, L: 10})

	// an answer logged by another transport is served from the log
	logged, _, err := shared.Solve(context.Background(), target, db.SourceAPI)
	require.NoError(t, err)

	out, err := NewService(shared).Inverse(context.Background(), pointStruct(target))
	require.NoError(t, err)
	assert.True(t, out.GetFields()["cached"].GetBoolValue())
	assert.Equal(t, logged.SolutionID, out.GetFields()["solution_id"].GetStringValue())

	fresh := geom.NewPoint(0.3, 1.0, 0.7)
	out, err = NewService(shared).Inverse(context.Background(), pointStruct(fresh))
	require.NoError(t, err)
	assert.False(t, out.GetFields()["cached"].GetBoolValue())
	stored, err := database.GetSolution(out.GetFields()["solution_id"].GetStringValue())
	require.NoError(t, err)
	assert.Equal(t, db.SourceGRPC, stored.Source)
}

func TestInverse_Timeout(t *testing.T) {
	svc := NewService(solve.New(&kinematics.Solver{Grid: kinematics.DefaultGrid(), Workers: 1}, nil, time.Nanosecond))

	_, err := svc.Inverse(context.Background(), pointStruct(geom.Origin))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewService(smallSolver()))
	assert.Nil(t, s.Addr())
	require.NoError(t, s.Start())

	conn, err := grpc.NewClient(s.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	p, err := NewClient(conn).Forward(context.Background(), kinematics.JointAngles{})
	require.NoError(t, err)
	testutil.AssertPointNear(t, kinematics.RestPosition(), p, testutil.Tolerance)

	s.Stop()
}
