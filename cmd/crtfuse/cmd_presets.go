package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/crt"
)

type presetInfo struct {
	Name    string   `json:"name"`
	Moduli  []uint64 `json:"moduli"`
	Product string   `json:"product"`
	Active  bool     `json:"active"`
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the registered moduli presets",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	}
}

func runPresets(cmd *cobra.Command, args []string) error {
	sel, err := selector()
	if err != nil {
		return err
	}
	reg := sel.Registry()

	var out []presetInfo
	for _, name := range reg.Names() {
		moduli, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		rec, err := crt.NewReconstructor(moduli)
		if err != nil {
			return err
		}
		out = append(out, presetInfo{
			Name:    name,
			Moduli:  moduli,
			Product: rec.Product().String(),
			Active:  engine != nil && engine.Config.Preset == name,
		})
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
