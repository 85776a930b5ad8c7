// Package solve runs inverse searches through the solution log: identical
// targets on the same grid are answered from the log, new results are
// recorded. HTTP and gRPC share one Service so a cached answer from either
// transport serves the other.
package solve

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/monitoring"
	"github.com/banshee-data/armkin/internal/timeutil"
)

// Service wraps a solver with an optional solution log and a per-search
// timeout.
type Service struct {
	solver  *kinematics.Solver
	db      *db.DB
	timeout time.Duration
	clock   timeutil.Clock
}

// New returns a Service. database may be nil, which disables the log and
// cache. A zero timeout leaves deadlines to the caller's context.
func New(solver *kinematics.Solver, database *db.DB, timeout time.Duration) *Service {
	return &Service{solver: solver, db: database, timeout: timeout, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used to time searches.
func (s *Service) SetClock(c timeutil.Clock) {
	s.clock = c
}

// Solver returns the underlying solver.
func (s *Service) Solver() *kinematics.Solver { return s.solver }

// DB returns the solution log, or nil when it is disabled.
func (s *Service) DB() *db.DB { return s.db }

// Solve returns the best candidate for target. cached reports whether the
// answer came from the solution log. Results whose target or distance is not
// finite are never stored.
func (s *Service) Solve(ctx context.Context, target geom.Point, source string) (sol *db.Solution, cached bool, err error) {
	key := s.solver.Grid.Key()
	if s.db != nil {
		sol, err := s.db.LookupSolution(target, key)
		if err == nil {
			return sol, true, nil
		}
		if !errors.Is(err, db.ErrSolutionNotFound) {
			monitoring.Logf("[solve] solution lookup failed: %v", err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := s.clock.Now()
	res, err := s.solver.Solve(ctx, target)
	if err != nil {
		return nil, false, err
	}
	sol = db.NewSolution(target, s.solver.Grid, res, s.clock.Since(start), source)

	if s.db != nil && IsFinite(target) && !math.IsInf(res.Distance, 0) {
		if err := s.db.RecordSolution(sol); err != nil {
			monitoring.Logf("[solve] failed to record solution: %v", err)
			sol.SolutionID = ""
		}
	}
	return sol, false, nil
}

// IsFinite reports whether every coordinate of p is a finite number.
func IsFinite(p geom.Point) bool {
	return finite(p.AsSlice()...)
}

// FiniteAngles reports whether every joint angle is a finite number.
func FiniteAngles(a kinematics.JointAngles) bool {
	return finite(a.AsSlice()...)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
