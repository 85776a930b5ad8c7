package testutil

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/armkin/internal/geom"
)

func TestAssertPointNear(t *testing.T) {
	AssertPointNear(t, geom.NewPoint(1, 2, 3), geom.NewPoint(1, 2, 3+1e-12), Tolerance)
	AssertPointNear(t, geom.NewPoint(1, 2, 3), geom.NewPoint(1, 2, 3.05), 0.1)
}

func TestAssertStatusCode(t *testing.T) {
	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertStatusCode(t, http.StatusNotFound, http.StatusNotFound)
}

func TestDecodeJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Body.WriteString(`{"x": 1.5}`)

	var p geom.Point
	DecodeJSON(t, rec, &p)
	if p.X != 1.5 {
		t.Errorf("X = %v, want 1.5", p.X)
	}
}

func TestTempDBPath(t *testing.T) {
	path := TempDBPath(t)
	if filepath.Base(path) != "armkin-test.db" {
		t.Errorf("unexpected base name %q", path)
	}
	if !strings.HasPrefix(path, filepath.Dir(path)) || filepath.Dir(path) == "." {
		t.Errorf("path %q is not inside a temp dir", path)
	}
}
