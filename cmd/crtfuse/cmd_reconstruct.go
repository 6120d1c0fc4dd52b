package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/crt"
)

var reconstructModuli []uint

type reconstructReport struct {
	Moduli   []uint64 `json:"moduli"`
	Residues []uint64 `json:"residues"`
	Product  string   `json:"product"`
	Value    string   `json:"value"`
	BigPath  bool     `json:"big_path"`
}

func newReconstructCmd() *cobra.Command {
	reconstructModuli = nil
	cmd := &cobra.Command{
		Use:   "reconstruct <residue>...",
		Short: "Reconstruct the integer for a residue vector",
		Long:  "Reconstructs x in [0, P) from one residue per modulus. Moduli default to the configured set.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReconstruct,
	}
	cmd.Flags().UintSliceVar(&reconstructModuli, "moduli", nil, "comma-separated pairwise coprime moduli")

	return cmd
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	moduli := engine.Moduli
	if len(reconstructModuli) > 0 {
		moduli = make([]uint64, len(reconstructModuli))
		for i, m := range reconstructModuli {
			moduli[i] = uint64(m)
		}
	}
	rec, err := crt.NewReconstructor(moduli)
	if err != nil {
		return err
	}

	residues := make([]uint64, len(args))
	for i, a := range args {
		if residues[i], err = strconv.ParseUint(a, 10, 64); err != nil {
			return fmt.Errorf("residue %d: %w", i, err)
		}
	}

	report := reconstructReport{
		Moduli:   rec.Moduli(),
		Residues: residues,
		Product:  rec.Product().String(),
		BigPath:  !rec.ProductFits(),
	}
	if rec.ProductFits() {
		x, err := rec.Reconstruct(residues)
		if err != nil {
			return err
		}
		report.Value = strconv.FormatUint(x, 10)
	} else {
		x, err := rec.ReconstructBig(residues)
		if err != nil {
			return err
		}
		report.Value = x.String()
	}

	return writeJSON(cmd.OutOrStdout(), report)
}
