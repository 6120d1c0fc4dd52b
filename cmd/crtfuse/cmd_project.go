package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/birkhoff"
)

var (
	projectInput   string
	projectMaxIter int
	projectTol     float64
)

type projectReport struct {
	*birkhoff.Result
	Matrix     [][]float64         `json:"matrix"`
	Validation birkhoff.Validation `json:"validation"`
}

func newProjectCmd() *cobra.Command {
	projectInput, projectMaxIter, projectTol = "", 0, 0
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a non-negative square matrix onto the Birkhoff polytope",
		Args:  cobra.NoArgs,
		RunE:  runProject,
	}
	cmd.Flags().StringVar(&projectInput, "input", "", "JSON file holding an array of rows")
	cmd.Flags().IntVar(&projectMaxIter, "max-iter", 0, "override birkhoff.max_iterations")
	cmd.Flags().Float64Var(&projectTol, "tol", 0, "override birkhoff.tolerance")

	return cmd
}

// projector returns the configured projector, rebuilt when flags override it.
func projector(extra ...birkhoff.Option) (*birkhoff.Projector, error) {
	if projectMaxIter == 0 && projectTol == 0 && len(extra) == 0 {
		return engine.Projector, nil
	}
	maxIter, tol := engine.Projector.MaxIterations(), engine.Projector.Tolerance()
	if projectMaxIter != 0 {
		maxIter = projectMaxIter
	}
	if projectTol != 0 {
		tol = projectTol
	}
	opts := append([]birkhoff.Option{
		birkhoff.WithMaxIterations(maxIter),
		birkhoff.WithTolerance(tol),
		birkhoff.WithLogger(engine.Logger),
	}, extra...)

	return birkhoff.NewProjector(opts...)
}

func runProject(cmd *cobra.Command, args []string) error {
	m, err := readMatrix(projectInput)
	if err != nil {
		return err
	}
	p, err := projector()
	if err != nil {
		return err
	}
	res, err := p.Project(m)
	if err != nil {
		return err
	}
	val, err := birkhoff.Validate(res.Matrix, p.Tolerance())
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), projectReport{
		Result:     res,
		Matrix:     res.Matrix.ToRows(),
		Validation: val,
	})
}
