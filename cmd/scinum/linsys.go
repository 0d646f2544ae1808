package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/internal/matutil"
	"github.com/YuminosukeSato/scinum/linsys"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

type linsysCmd struct {
	*Context
}

// NewLinsysCmd builds the "scinum linsys" command.
func NewLinsysCmd(cxt *Context) *cobra.Command {
	c := &linsysCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "linsys",
		Short: "Solve a dense linear system Ax = b",
		Example: `
  scinum linsys --method pivoteo_parcial --a "2,1;1,-1" --b 5,1
  scinum linsys --method cholesky --input spd.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("method", "pivoteo_parcial", "gauss_simple, pivoteo_parcial, pivoteo_total, lu, plu or cholesky")
	cmd.Flags().String("a", "", "matrix rows separated by ';', entries by ','")
	cmd.Flags().String("b", "", "comma separated right-hand side")
	cmd.Flags().Float64("pivot-threshold", 1e-10, "smallest acceptable pivot for pivoting variants")
	cmd.Flags().Float64("symmetry-tolerance", 1e-10, "symmetry tolerance for cholesky")
	cmd.Flags().Bool("steps", true, "record the elimination steps in the trace")
	return cmd
}

func (c *linsysCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := linsys.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
	}
	rows, err := matrix(v, "a")
	if err != nil {
		return err
	}
	a, err := matutil.FromRows("scinum.linsys", rows)
	if err != nil {
		return err
	}
	b, err := floats(v, "b")
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return errors.NewValidationError("b", "is required", nil)
	}

	sol, err := linsys.Solve(m, a, b,
		linsys.WithPivotThreshold(v.GetFloat64("pivot-threshold")),
		linsys.WithSymmetryTolerance(v.GetFloat64("symmetry-tolerance")),
		linsys.WithSteps(v.GetBool("steps")),
	)
	if err != nil {
		return err
	}
	return c.write(sol.X, sol.Trace)
}
