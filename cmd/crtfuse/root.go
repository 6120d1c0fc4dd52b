package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/config"
	"github.com/katalvlaran/crtfuse/coprime"
	"github.com/katalvlaran/crtfuse/matrix"
	"github.com/katalvlaran/crtfuse/telemetry"
)

// =============================================================================
// Global flags
// =============================================================================

var (
	configPath string
	logLevel   string
	presetFile string

	// engine is built by the root PersistentPreRunE for every subcommand.
	engine *config.Engine
)

// newRootCmd assembles a fresh command tree. Tests build one per case so
// flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	configPath, logLevel, presetFile = "", "", ""
	engine = nil

	root := &cobra.Command{
		Use:           "crtfuse",
		Short:         "CRT modular-residue fusion engine",
		Long:          "crtfuse reconstructs residues, projects attention onto the Birkhoff polytope and scores batches with the homology regularizer.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEngine(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration (default: built-in)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&presetFile, "presets", "", "YAML file with additional moduli presets")

	root.AddCommand(
		newPresetsCmd(),
		newReconstructCmd(),
		newProjectCmd(),
		newAnalyzeCmd(),
		newAttendCmd(),
		newPlotCmd(),
	)

	return root
}

// loadEngine reads the configuration and builds the engine objects. Logs go
// to logOut so stdout stays pure JSON.
func loadEngine(logOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	sel, err := selector()
	if err != nil {
		return err
	}
	engine, err = cfg.Build(sel, telemetry.NewLogger(cfg.LogLevel, logOut))

	return err
}

// selector returns the preset selector, extended with --presets when given.
func selector() (*coprime.Selector, error) {
	reg := coprime.DefaultRegistry()
	if presetFile != "" {
		f, err := os.Open(presetFile)
		if err != nil {
			return nil, fmt.Errorf("presets: %w", err)
		}
		defer f.Close()
		if err = reg.LoadYAML(f); err != nil {
			return nil, err
		}
	}

	return coprime.NewSelector(coprime.WithRegistry(reg)), nil
}

// =============================================================================
// I/O helpers
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// readMatrix loads a JSON array of rows.
func readMatrix(path string) (*matrix.Dense, error) {
	var rows [][]float64
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}

	return matrix.NewFromRows(rows)
}
