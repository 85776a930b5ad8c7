// Package testutil provides shared test helpers for HTTP handlers and
// geometry comparisons.
package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/banshee-data/armkin/internal/geom"
)

// Tolerance is the default distance, in meters, under which two points are
// treated as the same.
const Tolerance = 1e-9

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertPointNear fails the test when got is further than tol from want.
func AssertPointNear(t testing.TB, want, got geom.Point, tol float64) {
	t.Helper()
	if !geom.AlmostEqual(want, got, tol) {
		t.Errorf("point = %v, want %v (distance %g > %g)", got, want, geom.Distance(want, got), tol)
	}
}

// DecodeJSON decodes the recorder body into v, failing the test on error.
func DecodeJSON(t testing.TB, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// TempDBPath returns a database path inside a per-test temporary directory.
func TempDBPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "armkin-test.db")
}
