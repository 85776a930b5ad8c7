// Package api serves the kinematics engine over HTTP: forward and inverse
// kinematics, the solution log and workspace charts.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/armkin/internal/config"
	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/solve"
	"github.com/banshee-data/armkin/internal/units"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// defaultSolutionsLimit is used when /api/solutions has no limit parameter.
const defaultSolutionsLimit = 50

type Server struct {
	svc    *solve.Service
	solver *kinematics.Solver
	db     *db.DB
	units  string
}

// NewServer builds a server from cfg. database may be nil, which disables
// the solution log and cache.
func NewServer(cfg *config.SearchConfig, database *db.DB) *Server {
	svc := solve.New(cfg.Solver(), database, cfg.GetTimeout())
	return &Server{
		svc:    svc,
		solver: svc.Solver(),
		db:     database,
		units:  cfg.GetUnits(),
	}
}

// SolveService returns the cached solve path, for sharing with other
// transports.
func (s *Server) SolveService() *solve.Service {
	return s.svc
}

// toUnits converts a point in meters to u.
func toUnits(p geom.Point, u string) geom.Point {
	return p.Scale(units.ConvertLength(1, u))
}

// fromUnits converts a point in u to meters.
func fromUnits(p geom.Point, u string) geom.Point {
	return p.Scale(units.ConvertToMeters(1, u))
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes. Admin routes for the database are attached
// separately by the caller.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/forward", s.handleForward)
	mux.HandleFunc("/api/inverse", s.handleInverse)
	mux.HandleFunc("/api/solutions", s.handleSolutions)
	mux.HandleFunc("/api/solutions/{id}", s.handleSolution)
	mux.HandleFunc("/api/grid", s.handleGrid)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/workspace", s.handleWorkspaceStats)
	mux.HandleFunc("/debug/workspace", s.handleWorkspaceChart)
	mux.HandleFunc("/debug/workspace.png", s.handleWorkspacePNG)
	return mux
}
