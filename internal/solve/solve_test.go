package solve

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/testutil"
	"github.com/banshee-data/armkin/internal/timeutil"
)

func smallSolver() *kinematics.Solver {
	return &kinematics.Solver{
		Grid: kinematics.Grid{
			S: kinematics.Range{Min: 0, Max: 90, Step: 45},
			L: kinematics.Range{Min: -10, Max: 10, Step: 10},
			U: kinematics.Range{Min: -10, Max: 10, Step: 10},
		},
		Workers: 2,
	}
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.NewDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSolve_RecordsThenCaches(t *testing.T) {
	database := newTestDB(t)
	svc := New(smallSolver(), database, time.Minute)
	want := kinematics.JointAngles{S: 45, L: 10, U: -10}
	target := kinematics.ForwardKinematics(want)

	first, cached, err := svc.Solve(context.Background(), target, db.SourceGRPC)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, want, first.Angles)
	assert.Equal(t, 27, first.Evaluated)

	second, cached, err := svc.Solve(context.Background(), target, db.SourceAPI)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.SolutionID, second.SolutionID)
	assert.Equal(t, db.SourceGRPC, second.Source)

	n, err := database.CountSolutions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSolve_ClockTimesSearch(t *testing.T) {
	svc := New(smallSolver(), nil, 0)
	svc.SetClock(timeutil.NewMockClock(time.Unix(1700000000, 0)))

	sol, _, err := svc.Solve(context.Background(), geom.Origin, db.SourceAPI)
	require.NoError(t, err)
	assert.Zero(t, sol.DurationNanos)
	assert.Nil(t, svc.DB())
	assert.Same(t, svc.Solver(), svc.solver)
}

func TestSolve_NonFiniteNotRecorded(t *testing.T) {
	database := newTestDB(t)
	svc := New(smallSolver(), database, 0)

	for _, target := range []geom.Point{
		geom.NewPoint(math.NaN(), 0, 0),
		geom.NewPoint(math.MaxFloat64, math.MaxFloat64, 0),
	} {
		sol, cached, err := svc.Solve(context.Background(), target, db.SourceAPI)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.True(t, math.IsInf(sol.Distance, 1), "%v", target)
	}

	n, err := database.CountSolutions()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSolve_Timeout(t *testing.T) {
	svc := New(&kinematics.Solver{Grid: kinematics.DefaultGrid(), Workers: 1}, nil, time.Nanosecond)

	_, _, err := svc.Solve(context.Background(), geom.Origin, db.SourceAPI)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSolve_EmptyGrid(t *testing.T) {
	_, _, err := New(&kinematics.Solver{}, nil, 0).Solve(context.Background(), geom.Origin, db.SourceAPI)
	assert.ErrorIs(t, err, kinematics.ErrEmptyGrid)
}

func TestFinite(t *testing.T) {
	assert.True(t, IsFinite(geom.NewPoint(1, -2, 3)))
	assert.False(t, IsFinite(geom.NewPoint(0, math.Inf(-1), 0)))
	assert.True(t, FiniteAngles(kinematics.JointAngles{S: 355}))
	assert.False(t, FiniteAngles(kinematics.JointAngles{T: math.NaN()}))
}
