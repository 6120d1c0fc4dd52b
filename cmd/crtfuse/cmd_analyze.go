package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/layer"
)

var analyzeInput string

type analyzeReport struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMS float64            `json:"duration_ms"`
	Moduli     []uint64           `json:"moduli"`
	Batch      *layer.BatchOutput `json:"batch"`
}

func newAnalyzeCmd() *cobra.Command {
	analyzeInput = ""
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the modular layer and the homology regularizer over a batch",
		Long:  "Reads a JSON array of feature vectors and reports per-sample reconstructions, the homology loss and the Betti numbers of the kernel graph.",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	cmd.Flags().StringVar(&analyzeInput, "input", "", "JSON file holding an array of feature vectors")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var features [][]float64
	if err := readJSON(analyzeInput, &features); err != nil {
		return err
	}

	runID := uuid.NewString()
	start := time.Now()
	engine.Logger.Info("analyze started", "run_id", runID, "samples", len(features))

	out, err := engine.Layer.ForwardBatch(cmd.Context(), features)
	if err != nil {
		engine.Logger.Error("analyze failed", "run_id", runID, "error", err)
		return err
	}
	elapsed := time.Since(start)
	engine.Logger.Info("analyze finished", "run_id", runID,
		"total_loss", out.TotalLoss, "beta0", out.Betti.Beta0, "beta1", out.Betti.Beta1)

	return writeJSON(cmd.OutOrStdout(), analyzeReport{
		RunID:      runID,
		StartedAt:  start.UTC(),
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		Moduli:     engine.Moduli,
		Batch:      out,
	})
}
