package kinematics

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/monitoring"
)

// SearchResult is the best candidate found by an inverse search. Distance is
// the residual between the candidate's finger position and the target, in
// meters; it is not guaranteed to be zero.
type SearchResult struct {
	Angles    JointAngles `json:"angles"`
	Distance  float64     `json:"distance"`
	Evaluated int         `json:"evaluated"`
}

// InverseKinematics searches DefaultGrid for the angles that put the finger
// closest to target. The search is exhaustive; on exact ties the earliest
// candidate in enumeration order wins.
func InverseKinematics(target geom.Point) SearchResult {
	return searchSerial(context.Background(), DefaultGrid(), target)
}

// Solver runs inverse searches over a configurable grid, optionally split
// across workers.
type Solver struct {
	Grid Grid
	// Workers is the number of goroutines; 0 uses GOMAXPROCS, 1 is serial.
	Workers int
	// Chain defaults to K10S.
	Chain Chain
}

// NewSolver returns a solver over DefaultGrid using all CPUs.
func NewSolver() *Solver {
	return &Solver{Grid: DefaultGrid()}
}

func (s *Solver) chain() Chain {
	if s.Chain == nil {
		return K10S
	}
	return s.Chain
}

func (s *Solver) workers() int {
	w := s.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if n := s.Grid.Len(); w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Solve searches the solver's grid for target. It fails only when the grid
// is empty or ctx is done before the search completes.
func (s *Solver) Solve(ctx context.Context, target geom.Point) (SearchResult, error) {
	if err := s.Grid.Validate(); err != nil || s.Grid.Len() == 0 {
		return SearchResult{}, ErrEmptyGrid
	}

	start := time.Now()
	var res SearchResult
	var err error
	if w := s.workers(); w == 1 {
		res = s.serial(ctx, target)
		err = ctx.Err()
	} else {
		res, err = s.parallel(ctx, target, w)
	}
	if err != nil {
		return SearchResult{}, err
	}

	monitoring.Verbosef("[kinematics] solved %v: angles=%v dist=%.6f evaluated=%d in %v",
		target, res.Angles, res.Distance, res.Evaluated, time.Since(start))
	return res, nil
}

func (s *Solver) serial(ctx context.Context, target geom.Point) SearchResult {
	return searchChain(ctx, s.Grid, s.chain(), target)
}

func searchSerial(ctx context.Context, g Grid, target geom.Point) SearchResult {
	return searchChain(ctx, g, K10S, target)
}

// cancelCheckInterval is how many candidates are evaluated between context checks.
const cancelCheckInterval = 1024

func searchChain(ctx context.Context, g Grid, c Chain, target geom.Point) SearchResult {
	best := SearchResult{Distance: math.Inf(1)}
	for a := range g.All() {
		if best.Evaluated%cancelCheckInterval == 0 && ctx.Err() != nil {
			break
		}
		best.Evaluated++
		if d := c.Apply(a).DistanceTo(target); d < best.Distance {
			best.Distance = d
			best.Angles = a
		}
	}
	return best
}

// partial is one worker's best candidate over a contiguous index span.
type partial struct {
	index     int
	distance  float64
	evaluated int
}

// parallel splits the enumeration into contiguous spans, one per worker. Each
// worker keeps its earliest strict minimum and the spans are reduced in
// order with the same strict comparison, so ties resolve exactly as in the
// serial search.
func (s *Solver) parallel(ctx context.Context, target geom.Point, workers int) (SearchResult, error) {
	n := s.Grid.Len()
	chain := s.chain()
	parts := make([]partial, workers)

	var wg sync.WaitGroup
	span := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*span, min((w+1)*span, n)
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			p := partial{index: -1, distance: math.Inf(1)}
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 && ctx.Err() != nil {
					break
				}
				p.evaluated++
				if d := chain.Apply(s.Grid.At(i)).DistanceTo(target); d < p.distance {
					p.distance = d
					p.index = i
				}
			}
			parts[w] = p
		}(w, lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return SearchResult{}, err
	}

	best := partial{index: -1, distance: math.Inf(1)}
	evaluated := 0
	for _, p := range parts {
		evaluated += p.evaluated
		if p.index < 0 {
			continue
		}
		if p.distance < best.distance {
			best.distance = p.distance
			best.index = p.index
		}
	}

	res := SearchResult{Distance: best.distance, Evaluated: evaluated}
	if best.index >= 0 {
		res.Angles = s.Grid.At(best.index)
	}
	return res, nil
}
