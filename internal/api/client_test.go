package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/httputil"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/testutil"
)

func TestClient_AgainstServer(t *testing.T) {
	s, _ := newTestServer(t, smallConfig(), false)
	ts := httptest.NewServer(s.ServeMux())
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())

	fwd, err := c.Forward(kinematics.JointAngles{S: 90, L: 10.5}, "")
	require.NoError(t, err)
	assert.Equal(t, kinematics.JointAngles{S: 90, L: 10.5}, fwd.Angles)
	testutil.AssertPointNear(t, kinematics.ForwardKinematics(fwd.Angles), fwd.Point, testutil.Tolerance)

	inv, err := c.Inverse(kinematics.ForwardKinematics(kinematics.JointAngles{S: 90, L: -10}), "m")
	require.NoError(t, err)
	assert.Equal(t, kinematics.JointAngles{S: 90, L: -10}, inv.Angles)

	v, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, "dev", v.Version)
}

func TestClient_ServerError(t *testing.T) {
	mock := httputil.NewMockHTTPClient().AddResponse(http.StatusBadRequest, `{"error": "invalid units"}`)
	c := NewClient("http://arm.local", mock)

	_, err := c.Inverse(geom.Origin, "ft")
	var se *httputil.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "invalid units", se.Message)
	assert.Equal(t, "/api/inverse", mock.Requests[0].URL.Path)
}

func TestJoinAngles(t *testing.T) {
	assert.Equal(t, "90, -80, 40.5, 0, 0, 0", joinAngles(kinematics.JointAngles{S: 90, L: -80, U: 40.5}))
}
