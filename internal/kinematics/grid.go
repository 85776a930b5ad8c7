package kinematics

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Range is an inclusive integer range of degrees, Min to Max stepping by Step.
type Range struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// ParseRange parses a "min:max:step" string into a Range.
// Returns an error if the format is invalid or values cannot be parsed.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Range{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid min value %q: %w", parts[0], err)
	}

	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid max value %q: %w", parts[1], err)
	}

	step, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Range{}, fmt.Errorf("invalid step value %q: %w", parts[2], err)
	}

	r := Range{Min: min, Max: max, Step: step}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks the step is positive and min does not exceed max.
func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("step must be positive, got %d", r.Step)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %d exceeds max %d", r.Min, r.Max)
	}
	return nil
}

// String formats the range as "min:max:step".
func (r Range) String() string {
	return fmt.Sprintf("%d:%d:%d", r.Min, r.Max, r.Step)
}

// Count returns the number of values in the range, 0 if it is invalid.
func (r Range) Count() int {
	if r.Validate() != nil {
		return 0
	}
	return (r.Max-r.Min)/r.Step + 1
}

// At returns the i-th value of the range.
func (r Range) At(i int) int {
	return r.Min + i*r.Step
}

// Contains reports whether v is one of the range's values.
func (r Range) Contains(v float64) bool {
	if r.Validate() != nil || v != float64(int(v)) {
		return false
	}
	iv := int(v)
	return iv >= r.Min && iv <= r.Max && (iv-r.Min)%r.Step == 0
}

// ErrEmptyGrid is returned when a search grid has no candidates.
var ErrEmptyGrid = errors.New("search grid has no candidates")

// Grid is the set of candidate angles for the inverse search. S, L and U are
// searched; R, B and T stay at zero.
type Grid struct {
	S Range `json:"s"`
	L Range `json:"l"`
	U Range `json:"u"`
}

// DefaultGrid is the 5 degree grid searched by InverseKinematics:
// S 0..355, L -80..75, U -45..40, giving 72*32*18 = 41472 candidates.
func DefaultGrid() Grid {
	return Grid{
		S: Range{Min: 0, Max: 355, Step: 5},
		L: Range{Min: -80, Max: 75, Step: 5},
		U: Range{Min: -45, Max: 40, Step: 5},
	}
}

// Validate checks all three ranges.
func (g Grid) Validate() error {
	for _, r := range []struct {
		name string
		rng  Range
	}{{"S", g.S}, {"L", g.L}, {"U", g.U}} {
		if err := r.rng.Validate(); err != nil {
			return fmt.Errorf("%s range: %w", r.name, err)
		}
	}
	return nil
}

// Len returns the number of candidates.
func (g Grid) Len() int {
	return g.S.Count() * g.L.Count() * g.U.Count()
}

// Key identifies the grid, e.g. "S=0:355:5;L=-80:75:5;U=-45:40:5".
func (g Grid) Key() string {
	return fmt.Sprintf("S=%s;L=%s;U=%s", g.S, g.L, g.U)
}

// At returns the candidate at enumeration index i, matching the order of All.
func (g Grid) At(i int) JointAngles {
	nL, nU := g.L.Count(), g.U.Count()
	return JointAngles{
		S: float64(g.S.At(i / (nL * nU))),
		L: float64(g.L.At((i / nU) % nL)),
		U: float64(g.U.At(i % nU)),
	}
}

// Contains reports whether a is one of the grid's candidates.
func (g Grid) Contains(a JointAngles) bool {
	return g.S.Contains(a.S) && g.L.Contains(a.L) && g.U.Contains(a.U) &&
		a.R == 0 && a.B == 0 && a.T == 0
}

// All yields every candidate lazily, S outermost and U innermost. The
// sequence can be ranged over any number of times.
func (g Grid) All() iter.Seq[JointAngles] {
	return func(yield func(JointAngles) bool) {
		if g.Validate() != nil {
			return
		}
		for s := g.S.Min; s <= g.S.Max; s += g.S.Step {
			for l := g.L.Min; l <= g.L.Max; l += g.L.Step {
				for u := g.U.Min; u <= g.U.Max; u += g.U.Step {
					// the last three joints stay at zero for now
					if !yield(JointAngles{S: float64(s), L: float64(l), U: float64(u)}) {
						return
					}
				}
			}
		}
	}
}
