package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
)

// Solution sources.
const (
	SourceCLI  = "cli"
	SourceAPI  = "api"
	SourceGRPC = "grpc"
)

// ErrSolutionNotFound is returned when no stored solution matches a lookup.
var ErrSolutionNotFound = errors.New("solution not found")

// Solution is a persisted inverse search result. Target is stored in meters.
type Solution struct {
	SolutionID    string                 `json:"solution_id"`
	Target        geom.Point             `json:"target"`
	GridKey       string                 `json:"grid_key"`
	Angles        kinematics.JointAngles `json:"angles"`
	Distance      float64                `json:"distance"`
	Evaluated     int                    `json:"evaluated"`
	DurationNanos int64                  `json:"duration_ns"`
	Source        string                 `json:"source"`
	CreatedAt     int64                  `json:"created_at"`
}

// NewSolution builds a Solution from a finished search.
func NewSolution(target geom.Point, grid kinematics.Grid, res kinematics.SearchResult, took time.Duration, source string) *Solution {
	return &Solution{
		Target:        target,
		GridKey:       grid.Key(),
		Angles:        res.Angles,
		Distance:      res.Distance,
		Evaluated:     res.Evaluated,
		DurationNanos: took.Nanoseconds(),
		Source:        source,
	}
}

// Result returns the search result portion of the solution.
func (s *Solution) Result() kinematics.SearchResult {
	return kinematics.SearchResult{Angles: s.Angles, Distance: s.Distance, Evaluated: s.Evaluated}
}

const solutionColumns = `
	solution_id, target_x, target_y, target_z, grid_key,
	angle_s, angle_l, angle_u, angle_r, angle_b, angle_t,
	distance, evaluated, duration_ns, source, created_at`

// RecordSolution persists sol. If SolutionID is empty a UUID is generated and
// a zero CreatedAt is stamped from the database clock.
func (db *DB) RecordSolution(sol *Solution) error {
	if sol.SolutionID == "" {
		sol.SolutionID = uuid.New().String()
	}
	if sol.CreatedAt == 0 {
		sol.CreatedAt = db.clock.Now().UnixNano()
	}
	if sol.Source == "" {
		sol.Source = SourceCLI
	}

	a := sol.Angles
	_, err := db.Exec(`INSERT INTO ik_solutions (`+solutionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.SolutionID, sol.Target.X, sol.Target.Y, sol.Target.Z, sol.GridKey,
		a.S, a.L, a.U, a.R, a.B, a.T,
		sol.Distance, sol.Evaluated, sol.DurationNanos, sol.Source, sol.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solution: %w", err)
	}
	return nil
}

// Solutions returns the most recent solutions, newest first. A limit of zero
// or less returns every row.
func (db *DB) Solutions(limit int) ([]*Solution, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT `+solutionColumns+`
		FROM ik_solutions
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query solutions: %w", err)
	}
	defer rows.Close()

	var out []*Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	return out, rows.Err()
}

// GetSolution returns a single solution by ID.
func (db *DB) GetSolution(id string) (*Solution, error) {
	row := db.QueryRow(`SELECT `+solutionColumns+` FROM ik_solutions WHERE solution_id = ?`, id)
	sol, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("solution %s: %w", id, ErrSolutionNotFound)
	}
	return sol, err
}

// LookupSolution returns the newest stored solution for exactly this target
// and grid. The comparison is exact, so a cache hit reproduces the search
// result bit for bit.
func (db *DB) LookupSolution(target geom.Point, gridKey string) (*Solution, error) {
	row := db.QueryRow(`SELECT `+solutionColumns+`
		FROM ik_solutions
		WHERE target_x = ? AND target_y = ? AND target_z = ? AND grid_key = ?
		ORDER BY created_at DESC
		LIMIT 1`, target.X, target.Y, target.Z, gridKey)
	sol, err := scanSolution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSolutionNotFound
	}
	return sol, err
}

// DeleteSolution removes a solution by ID.
func (db *DB) DeleteSolution(id string) error {
	result, err := db.Exec(`DELETE FROM ik_solutions WHERE solution_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete solution: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("solution %s: %w", id, ErrSolutionNotFound)
	}
	return nil
}

// CountSolutions returns the number of stored solutions.
func (db *DB) CountSolutions() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ik_solutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count solutions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (*Solution, error) {
	var s Solution
	a := &s.Angles
	err := row.Scan(
		&s.SolutionID, &s.Target.X, &s.Target.Y, &s.Target.Z, &s.GridKey,
		&a.S, &a.L, &a.U, &a.R, &a.B, &a.T,
		&s.Distance, &s.Evaluated, &s.DurationNanos, &s.Source, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan solution row: %w", err)
	}
	return &s, nil
}
