package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/attention"
	"github.com/katalvlaran/crtfuse/matrix"
)

var attendInput string

// attendInputDoc is the JSON shape read by attend.
type attendInputDoc struct {
	Q [][]float64 `json:"q"`
	K [][]float64 `json:"k"`
	V [][]float64 `json:"v"`
}

type attendReport struct {
	Output  [][]float64      `json:"output"`
	Weights [][]float64      `json:"weights"`
	Heads   []attention.Head `json:"heads"`
}

func newAttendCmd() *cobra.Command {
	attendInput = ""
	cmd := &cobra.Command{
		Use:   "attend",
		Short: "Run fused doubly-stochastic attention with one head per modulus",
		Args:  cobra.NoArgs,
		RunE:  runAttend,
	}
	cmd.Flags().StringVar(&attendInput, "input", "", `JSON file {"q": [[...]], "k": [[...]], "v": [[...]]}`)

	return cmd
}

func runAttend(cmd *cobra.Command, args []string) error {
	var doc attendInputDoc
	if err := readJSON(attendInput, &doc); err != nil {
		return err
	}
	var qkv [3]*matrix.Dense
	for i, rows := range [][][]float64{doc.Q, doc.K, doc.V} {
		m, err := matrix.NewFromRows(rows)
		if err != nil {
			return fmt.Errorf("%c: %w", "qkv"[i], err)
		}
		qkv[i] = m
	}

	out, err := engine.Attention.Forward(qkv[0], qkv[1], qkv[2])
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), attendReport{
		Output:  out.Matrix.ToRows(),
		Weights: out.Weights.ToRows(),
		Heads:   out.Heads,
	})
}
