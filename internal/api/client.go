package api

import (
	"net/url"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/httputil"
	"github.com/banshee-data/armkin/internal/kinematics"
)

// Client calls a running armkin server.
type Client struct {
	json *httputil.JSONClient
}

// NewClient returns a client for the server at baseURL. A nil hc uses
// http.DefaultClient.
func NewClient(baseURL string, hc httputil.HTTPClient) *Client {
	return &Client{json: httputil.NewJSONClient(baseURL, hc)}
}

// Forward asks the server for the finger position, in u, for angles.
func (c *Client) Forward(angles kinematics.JointAngles, u string) (*ForwardResponse, error) {
	q := url.Values{}
	q.Set("angles", joinAngles(angles))
	if u != "" {
		q.Set("units", u)
	}
	var resp ForwardResponse
	if err := c.json.GetJSON("/api/forward?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Inverse asks the server to solve for target, given in u.
func (c *Client) Inverse(target geom.Point, u string) (*InverseResponse, error) {
	req := InverseRequest{X: &target.X, Y: &target.Y, Z: &target.Z, Units: u}
	var resp InverseResponse
	if err := c.json.PostJSON("/api/inverse", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Version returns the server build information.
func (c *Client) Version() (*VersionResponse, error) {
	var resp VersionResponse
	if err := c.json.GetJSON("/api/version", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func joinAngles(a kinematics.JointAngles) string {
	s := a.String()
	return s[1 : len(s)-1]
}
