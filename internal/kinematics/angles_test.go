package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJointAnglesFromSlice(t *testing.T) {
	a, err := JointAnglesFromSlice([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, JointAngles{S: 1, L: 2, U: 3, R: 4, B: 5, T: 6}, a)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.AsSlice())

	_, err = JointAnglesFromSlice([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestParseJointAngles(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    JointAngles
		wantErr bool
	}{
		{"commas", "90,0,-45,0,0,0", JointAngles{S: 90, U: -45}, false},
		{"spaces", "1 2 3 4 5 6", JointAngles{1, 2, 3, 4, 5, 6}, false},
		{"mixed", "1, 2, 3, 4, 5, 6.5", JointAngles{1, 2, 3, 4, 5, 6.5}, false},
		{"too few", "1,2,3", JointAngles{}, true},
		{"not a number", "1,2,x,4,5,6", JointAngles{}, true},
		{"empty", "", JointAngles{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJointAngles(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJointAnglesString(t *testing.T) {
	assert.Equal(t, "[0, 0, 0, 0, 0, 0]", JointAngles{}.String())
	assert.Equal(t, "[90, -80, 40.5, 0, 0, 0]", JointAngles{S: 90, L: -80, U: 40.5}.String())
}
