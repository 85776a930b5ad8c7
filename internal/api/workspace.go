package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/armkin/internal/httputil"
	"github.com/banshee-data/armkin/internal/workspace"
)

// defaultWorkspaceStride keeps the chart at a few thousand points.
const defaultWorkspaceStride = 16

// workspaceSamples samples the server grid using the stride query parameter.
func (s *Server) workspaceSamples(r *http.Request) ([]workspace.Sample, int, error) {
	stride := defaultWorkspaceStride
	if v := r.URL.Query().Get("stride"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, 0, fmt.Errorf("invalid 'stride' parameter")
		}
		stride = n
	}
	samples, err := workspace.SampleGrid(s.solver.Grid, stride, s.solver.Chain)
	return samples, stride, err
}

func viewParam(r *http.Request) (workspace.View, error) {
	v := r.URL.Query().Get("view")
	if v == "" {
		return workspace.ViewTop, nil
	}
	return workspace.ParseView(v)
}

func (s *Server) handleWorkspaceStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	samples, _, err := s.workspaceSamples(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	st, err := workspace.ComputeStats(samples)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, st)
}

// handleWorkspaceChart renders the reachable points as an echarts scatter plot.
func (s *Server) handleWorkspaceChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	view, err := viewParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	samples, stride, err := s.workspaceSamples(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	subtitle := fmt.Sprintf("grid=%s points=%d stride=%d", s.solver.Grid.Key(), len(samples), stride)
	if err := workspace.RenderChart(&buf, samples, view, subtitle); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleWorkspacePNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	view, err := viewParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	samples, _, err := s.workspaceSamples(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := workspace.WritePNG(&buf, samples, view, fmt.Sprintf("K10S workspace (%s view)", view)); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
