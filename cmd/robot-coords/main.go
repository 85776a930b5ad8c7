// Command robot-coords converts between K10S joint angles and finger
// positions.
//
//	robot-coords --angles 90 0 0 0 0 0
//	robot-coords --point 0.3 0.9 0.6 --verbose
//	robot-coords --test
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/armkin/internal/api"
	"github.com/banshee-data/armkin/internal/config"
	"github.com/banshee-data/armkin/internal/db"
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
	"github.com/banshee-data/armkin/internal/monitoring"
	"github.com/banshee-data/armkin/internal/solve"
	"github.com/banshee-data/armkin/internal/units"
	"github.com/banshee-data/armkin/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type mode int

const (
	modeNone mode = iota
	modeAngles
	modePoint
	modeTest
)

// modes maps each mode flag to the number of values that follow it.
var modes = map[string]struct {
	mode  mode
	nargs int
}{
	"angles": {modeAngles, 6},
	"point":  {modePoint, 3},
	"test":   {modeTest, 0},
}

// usageError is reported with the usage text and exit status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, v ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, v...)}
}

type options struct {
	mode   mode
	values []float64

	verbose    bool
	trace      bool
	showVer    bool
	units      string
	workers    int
	timeout    time.Duration
	configPath string
	dbPath     string
	server     string
	set        map[string]bool
}

// splitMode pulls the mode flag and its numeric values out of args so that
// negative numbers are not mistaken for flags. The remaining arguments are
// returned for the flag set.
func splitMode(args []string) (mode, []float64, []string, error) {
	m := modeNone
	var values []float64
	var rest []string
	for i := 0; i < len(args); i++ {
		name, ok := modeFlagName(args[i])
		flagMode, known := modes[name]
		if !ok || !known {
			rest = append(rest, args[i])
			continue
		}
		if m != modeNone {
			return modeNone, nil, nil, usageErrorf("only one of --angles, --point or --test may be given")
		}
		m = flagMode.mode
		if len(args)-i-1 < flagMode.nargs {
			return modeNone, nil, nil, usageErrorf("--%s requires %d values, got %d", name, flagMode.nargs, len(args)-i-1)
		}
		for _, raw := range args[i+1 : i+1+flagMode.nargs] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return modeNone, nil, nil, usageErrorf("--%s: %q is not a number", name, raw)
			}
			values = append(values, v)
		}
		i += flagMode.nargs
	}
	return m, values, rest, nil
}

// modeFlagName returns name for "-name" or "--name".
func modeFlagName(arg string) (string, bool) {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		return name, !strings.HasPrefix(name, "-")
	}
	return strings.CutPrefix(arg, "-")
}

func newFlagSet(opts *options, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("robot-coords", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&opts.verbose, "verbose", false, "print the residual distance before the angles")
	fs.BoolVar(&opts.verbose, "v", false, "shorthand for --verbose")
	fs.BoolVar(&opts.trace, "trace", false, "print the point after every chain step and log search timings")
	fs.BoolVar(&opts.showVer, "version", false, "print version information and exit")
	fs.StringVar(&opts.units, "units", units.Meters, "length units for points: "+units.GetValidUnitsString())
	fs.IntVar(&opts.workers, "workers", 0, "inverse search goroutines (0 = one per CPU)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "give up on an inverse search after this long (0 = no limit)")
	fs.StringVar(&opts.configPath, "config", "", "search config JSON file (default: built-in 5 degree grid)")
	fs.StringVar(&opts.dbPath, "db", "", "record inverse solutions in this sqlite database and reuse them")
	fs.StringVar(&opts.server, "server", "", "send requests to a running armkin-server at this URL")
	return fs
}

func printUsage(out io.Writer) {
	fs := newFlagSet(&options{}, out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "    robot-coords --angles S L U R B T          convert joint angles to a 3d point")
	fmt.Fprintln(out, "    robot-coords --point X Y Z [--verbose|-v]  convert a 3d point to joint angles")
	fmt.Fprintln(out, "    robot-coords --test                        solve for the rest position")
	fmt.Fprintln(out, "Units:")
	fmt.Fprintln(out, "    joint angles: degrees")
	fmt.Fprintln(out, "    3d point: meters unless --units is given")
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
}

// parseArgs returns the parsed options. flag.ErrHelp is returned for -h.
func parseArgs(args []string) (*options, error) {
	opts := &options{set: map[string]bool{}}
	m, values, rest, err := splitMode(args)
	if err != nil {
		return nil, err
	}
	opts.mode, opts.values = m, values

	fs := newFlagSet(opts, io.Discard)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageErrorf("%v", err)
	}
	if fs.NArg() > 0 {
		return nil, usageErrorf("unexpected argument %q", fs.Arg(0))
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if err := units.Validate(opts.units); err != nil {
		return nil, usageErrorf("%v", err)
	}
	if opts.workers < 0 {
		return nil, usageErrorf("--workers must be non-negative")
	}
	if opts.timeout < 0 {
		return nil, usageErrorf("--timeout must be non-negative")
	}
	return opts, nil
}

// searchConfig loads --config and applies command line overrides.
func (o *options) searchConfig() (*config.SearchConfig, error) {
	cfg := config.EmptySearchConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadSearchConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.set["units"] {
		cfg.Units = &o.units
	}
	if o.set["workers"] {
		cfg.Workers = &o.workers
	}
	if o.set["timeout"] {
		d := o.timeout.String()
		cfg.Timeout = &d
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return exitOK
		}
		fmt.Fprintf(stderr, "robot-coords: %v\n\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if opts.showVer {
		fmt.Fprintln(stdout, version.String("robot-coords"))
		return exitOK
	}
	if opts.mode == modeNone {
		printUsage(stdout)
		return exitOK
	}

	cfg, err := opts.searchConfig()
	if err != nil {
		fmt.Fprintf(stderr, "robot-coords: %v\n", err)
		return exitUsage
	}

	monitoring.SetVerbose(opts.trace)
	monitoring.SetLogger(func(format string, v ...interface{}) {
		fmt.Fprintf(stderr, format+"\n", v...)
	})
	defer func() {
		monitoring.SetVerbose(false)
		monitoring.SetLogger(log.Printf)
	}()

	c := &cli{opts: opts, cfg: cfg, units: cfg.GetUnits(), out: stdout}
	switch opts.mode {
	case modeAngles:
		err = c.forward()
	case modePoint:
		err = c.inverse()
	case modeTest:
		err = c.selfTest()
	}
	if err != nil {
		fmt.Fprintf(stderr, "robot-coords: %v\n", err)
		return exitFailure
	}
	return exitOK
}

type cli struct {
	opts  *options
	cfg   *config.SearchConfig
	units string
	out   io.Writer
}

func (c *cli) forward() error {
	angles, err := kinematics.JointAnglesFromSlice(c.opts.values)
	if err != nil {
		return err
	}

	var p geom.Point
	if c.opts.server != "" {
		resp, err := api.NewClient(c.opts.server, nil).Forward(angles, c.units)
		if err != nil {
			return err
		}
		p = resp.Point
	} else {
		c.printTrace(angles)
		p = kinematics.ForwardKinematics(angles).Scale(units.ConvertLength(1, c.units))
	}
	fmt.Fprintln(c.out, formatList(p.AsSlice()))
	return nil
}

func (c *cli) inverse() error {
	input, err := geom.PointFromSlice(c.opts.values)
	if err != nil {
		return err
	}

	var angles kinematics.JointAngles
	var dist float64
	if c.opts.server != "" {
		resp, err := api.NewClient(c.opts.server, nil).Inverse(input, c.units)
		if err != nil {
			return err
		}
		angles, dist = resp.Angles, resp.Distance
	} else {
		target := input.Scale(units.ConvertToMeters(1, c.units))
		res, err := c.solve(target)
		if err != nil {
			return err
		}
		angles, dist = res.Angles, units.ConvertLength(res.Distance, c.units)
		c.printTrace(angles)
	}

	if c.opts.verbose {
		fmt.Fprintf(c.out, "distance from robot finger to target point: %s\n", formatFloat(dist))
	}
	fmt.Fprintln(c.out, angles)
	return nil
}

// solve runs the configured search, going through the solution log when
// --db is set.
func (c *cli) solve(target geom.Point) (kinematics.SearchResult, error) {
	var store *db.DB
	if c.opts.dbPath != "" {
		var err error
		if store, err = db.NewDB(c.opts.dbPath); err != nil {
			return kinematics.SearchResult{}, err
		}
		defer store.Close()
	}

	svc := solve.New(c.cfg.Solver(), store, c.cfg.GetTimeout())
	sol, cached, err := svc.Solve(context.Background(), target, db.SourceCLI)
	if err != nil {
		return kinematics.SearchResult{}, fmt.Errorf("inverse search failed: %w", err)
	}
	switch {
	case cached:
		monitoring.Verbosef("using stored solution %s", sol.SolutionID)
	case sol.SolutionID != "":
		monitoring.Verbosef("recorded solution %s", sol.SolutionID)
	}
	return sol.Result(), nil
}

// selfTest solves for the rest position, which must come back as all zero
// angles at zero distance.
func (c *cli) selfTest() error {
	target := kinematics.RestPosition()
	scale := units.ConvertLength(1, c.units)
	fmt.Fprintf(c.out, "target point: %v\n", target.Scale(scale))
	fmt.Fprintln(c.out, "finding angles to hit that point...")

	res, err := c.solve(target)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "dist: %s\n", formatFloat(res.Distance*scale))
	fmt.Fprintf(c.out, "angles: %v\n", res.Angles)

	if res.Angles != (kinematics.JointAngles{}) || res.Distance > 1e-9 {
		return fmt.Errorf("self test failed: expected zero angles at the rest position")
	}
	return nil
}

func (c *cli) printTrace(angles kinematics.JointAngles) {
	if !c.opts.trace {
		return
	}
	scale := units.ConvertLength(1, c.units)
	for _, tp := range kinematics.K10S.Trace(angles) {
		fmt.Fprintf(c.out, "%-18s %v\n", tp.Label, tp.Point.Scale(scale))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatList(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
