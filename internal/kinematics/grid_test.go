package kinematics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Range
		expectErr bool
	}{
		{"valid_range", "0:355:5", Range{Min: 0, Max: 355, Step: 5}, false},
		{"with_spaces", " -80 : 75 : 5 ", Range{Min: -80, Max: 75, Step: 5}, false},
		{"single_value", "0:0:5", Range{Min: 0, Max: 0, Step: 5}, false},
		{"missing_parts", "1:10", Range{}, true},
		{"too_many_parts", "1:10:2:5", Range{}, true},
		{"float_value", "1.5:10:2", Range{}, true},
		{"invalid_min", "abc:10:2", Range{}, true},
		{"invalid_max", "1:abc:2", Range{}, true},
		{"invalid_step", "1:10:abc", Range{}, true},
		{"zero_step", "1:10:0", Range{}, true},
		{"negative_step", "1:10:-2", Range{}, true},
		{"min_above_max", "10:1:1", Range{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseRange(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, result)
			}
			if back, err := ParseRange(result.String()); err != nil || back != result {
				t.Errorf("String() %q did not parse back: %v", result.String(), err)
			}
		})
	}
}

func TestRangeCount(t *testing.T) {
	assert.Equal(t, 72, Range{0, 355, 5}.Count())
	assert.Equal(t, 32, Range{-80, 75, 5}.Count())
	assert.Equal(t, 18, Range{-45, 40, 5}.Count())
	assert.Equal(t, 3, Range{0, 11, 5}.Count()) // 0, 5, 10
	assert.Equal(t, 0, Range{5, 0, 5}.Count())
	assert.Equal(t, 0, Range{0, 10, 0}.Count())
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: -45, Max: 40, Step: 5}
	assert.True(t, r.Contains(-45))
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(40))
	assert.False(t, r.Contains(45))
	assert.False(t, r.Contains(-50))
	assert.False(t, r.Contains(2))
	assert.False(t, r.Contains(2.5))
}

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid()
	require.NoError(t, g.Validate())
	assert.Equal(t, 41472, g.Len())
	assert.Equal(t, "S=0:355:5;L=-80:75:5;U=-45:40:5", g.Key())

	n := 0
	var first, last JointAngles
	for a := range g.All() {
		if n == 0 {
			first = a
		}
		last = a
		n++
	}
	assert.Equal(t, 41472, n)
	assert.Equal(t, JointAngles{S: 0, L: -80, U: -45}, first)
	assert.Equal(t, JointAngles{S: 355, L: 75, U: 40}, last)
}

func TestGridEnumerationOrder(t *testing.T) {
	g := Grid{
		S: Range{0, 10, 5},
		L: Range{-5, 0, 5},
		U: Range{1, 2, 1},
	}

	var got []JointAngles
	for a := range g.All() {
		got = append(got, a)
	}

	want := []JointAngles{
		{S: 0, L: -5, U: 1}, {S: 0, L: -5, U: 2}, {S: 0, L: 0, U: 1}, {S: 0, L: 0, U: 2},
		{S: 5, L: -5, U: 1}, {S: 5, L: -5, U: 2}, {S: 5, L: 0, U: 1}, {S: 5, L: 0, U: 2},
		{S: 10, L: -5, U: 1}, {S: 10, L: -5, U: 2}, {S: 10, L: 0, U: 1}, {S: 10, L: 0, U: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enumeration mismatch (-want +got):\n%s", diff)
	}
}

func TestGridAtMatchesAll(t *testing.T) {
	g := DefaultGrid()
	i := 0
	for a := range g.All() {
		if g.At(i) != a {
			t.Fatalf("At(%d) = %v, All yielded %v", i, g.At(i), a)
		}
		if !g.Contains(a) {
			t.Fatalf("grid does not contain its own candidate %v", a)
		}
		i++
	}
}

func TestGridRestartable(t *testing.T) {
	g := DefaultGrid()
	seq := g.All()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, g.Len(), count())
	assert.Equal(t, g.Len(), count())

	// stopping early is allowed
	n := 0
	for range seq {
		n++
		if n == 10 {
			break
		}
	}
	assert.Equal(t, 10, n)
}

func TestGridContains(t *testing.T) {
	g := DefaultGrid()
	assert.True(t, g.Contains(JointAngles{}))
	assert.True(t, g.Contains(JointAngles{S: 355, L: -80, U: 40}))
	assert.False(t, g.Contains(JointAngles{S: 360}))
	assert.False(t, g.Contains(JointAngles{L: 80}))
	assert.False(t, g.Contains(JointAngles{U: 45}))
	assert.False(t, g.Contains(JointAngles{R: 5}))
	assert.False(t, g.Contains(JointAngles{S: 3}))
}

func TestInvalidGridYieldsNothing(t *testing.T) {
	g := Grid{S: Range{0, 10, 0}, L: Range{0, 0, 5}, U: Range{0, 0, 5}}
	assert.Error(t, g.Validate())
	assert.Equal(t, 0, g.Len())
	for range g.All() {
		t.Fatal("invalid grid yielded a candidate")
	}
}
