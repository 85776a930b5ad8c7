package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/httputil"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/solve"
	"github.com/banshee-data/armkin/internal/units"
	"github.com/banshee-data/armkin/internal/version"
)

// unitsParam returns the requested units or the server default.
func (s *Server) unitsParam(r *http.Request) (string, error) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return s.units, nil
	}
	return u, units.Validate(u)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	raw := r.URL.Query().Get("angles")
	if raw == "" {
		httputil.BadRequest(w, "missing 'angles' parameter (S,L,U,R,B,T in degrees)")
		return
	}
	angles, err := kinematics.ParseJointAngles(raw)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if !solve.FiniteAngles(angles) {
		httputil.BadRequest(w, "angles must be finite numbers")
		return
	}
	u, err := s.unitsParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	resp := ForwardResponse{
		Angles: angles,
		Point:  toUnits(kinematics.ForwardKinematics(angles), u),
		Units:  u,
	}
	if trace, _ := strconv.ParseBool(r.URL.Query().Get("trace")); trace {
		for _, tp := range kinematics.K10S.Trace(angles) {
			resp.Trace = append(resp.Trace, TraceStep{Label: tp.Label, Point: toUnits(tp.Point, u)})
		}
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) handleInverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req InverseRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if req.X == nil || req.Y == nil || req.Z == nil {
		httputil.BadRequest(w, "target requires x, y and z")
		return
	}
	u := req.Units
	if u == "" {
		u = s.units
	}
	if err := units.Validate(u); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	target := fromUnits(geom.NewPoint(*req.X, *req.Y, *req.Z), u)
	if !solve.IsFinite(target) {
		httputil.BadRequest(w, "target is out of range")
		return
	}

	sol, cached, err := s.svc.Solve(r.Context(), target, db.SourceAPI)
	switch {
	case err == nil && math.IsInf(sol.Distance, 0):
		httputil.BadRequest(w, "target is out of range: no candidate is a finite distance away")
		return
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		httputil.GatewayTimeout(w, "inverse search timed out")
		return
	case errors.Is(err, context.Canceled):
		// client went away
		return
	default:
		httputil.InternalServerError(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, InverseResponse{
		SolutionID: sol.SolutionID,
		Target:     toUnits(target, u),
		Angles:     sol.Angles,
		Finger:     toUnits(kinematics.ForwardKinematics(sol.Angles), u),
		Distance:   units.ConvertLength(sol.Distance, u),
		Evaluated:  sol.Evaluated,
		Units:      u,
		Cached:     cached,
		DurationMS: float64(sol.DurationNanos) / 1e6,
	})
}

func (s *Server) handleSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "solution log is disabled")
		return
	}

	limit := defaultSolutionsLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	sols, err := s.db.Solutions(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list solutions: %v", err))
		return
	}
	if sols == nil {
		sols = []*db.Solution{}
	}
	httputil.WriteJSONOK(w, sols)
}

// handleSolution serves GET and DELETE for a single logged solution.
func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httputil.NotFound(w, "solution log is disabled")
		return
	}
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		sol, err := s.db.GetSolution(id)
		if errors.Is(err, db.ErrSolutionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to get solution: %v", err))
			return
		}
		httputil.WriteJSONOK(w, sol)
	case http.MethodDelete:
		err := s.db.DeleteSolution(id)
		if errors.Is(err, db.ErrSolutionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to delete solution: %v", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	g := s.solver.Grid
	httputil.WriteJSONOK(w, GridResponse{
		S:          g.S.String(),
		L:          g.L.String(),
		U:          g.U.String(),
		Key:        g.Key(),
		Candidates: g.Len(),
		Workers:    s.solver.Workers,
		Units:      s.units,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, VersionResponse{
		Version:   version.Version,
		GitSHA:    version.GitSHA,
		BuildTime: version.BuildTime,
	})
}
