// Command workspace-plot renders the reachable finger positions of the search
// grid as PNG plots and prints reach statistics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/armkin/internal/config"
	"github.com/banshee-data/armkin/internal/fsutil"
	"github.com/banshee-data/armkin/internal/security"
	"github.com/banshee-data/armkin/internal/workspace"
)

func main() {
	outDir := flag.String("out", "workspace-plots", "directory for the PNG files")
	stride := flag.Int("stride", 4, "plot every Nth grid candidate")
	configPath := flag.String("config", "", "search config JSON file (default: built-in 5 degree grid)")
	statsOnly := flag.Bool("stats-only", false, "print statistics without writing plots")
	flag.Parse()

	cfg := config.EmptySearchConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadSearchConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	paths, err := run(cfg, *stride, *outDir, *statsOnly, os.Stdout)
	if err != nil {
		log.Fatalf("workspace-plot failed: %v", err)
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
}

// run samples the configured grid, writes the statistics as JSON to out and,
// unless statsOnly is set, saves top and side PNGs into outDir.
func run(cfg *config.SearchConfig, stride int, outDir string, statsOnly bool, out io.Writer) ([]string, error) {
	samples, err := workspace.SampleGrid(cfg.GetGrid(), stride, nil)
	if err != nil {
		return nil, err
	}
	st, err := workspace.ComputeStats(samples)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	if statsOnly {
		return nil, nil
	}
	if err := security.ValidateExportPath(outDir); err != nil {
		return nil, err
	}
	return workspace.SavePNGs(fsutil.OSFileSystem{}, outDir, samples, workspace.ViewTop, workspace.ViewSide)
}
