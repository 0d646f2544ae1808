package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/chart"
	"github.com/YuminosukeSato/scinum/roots"
)

type rootFindCmd struct {
	*Context
}

// NewRootFindCmd builds the "scinum root" command.
func NewRootFindCmd(cxt *Context) *cobra.Command {
	c := &rootFindCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Find a zero of an expression in x",
		Long: `Find a zero of f. Seeds are the bracket [a, b] for biseccion and
falsa_posicion, x0,x1 for secante, x0 for newton_raphson and punto_fijo,
and x0,x1,x2 for muller. newton_raphson derives f' symbolically unless
--df is given; punto_fijo iterates --g.

When the iteration budget runs out the last iterate is printed with
"converged": false.`,
		Example: `
  scinum root --method biseccion --f "x^2 - 4" --seeds 0,3
  scinum root --method newton_raphson --f "cos(x) - x" --seeds 1
  scinum root --method punto_fijo --g "cos(x)" --seeds 1 --max-iterations 200
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("method", "biseccion", "biseccion, falsa_posicion, secante, newton_raphson, punto_fijo or muller")
	cmd.Flags().String("f", "", "function, an expression in x")
	cmd.Flags().String("df", "", "derivative of f for newton_raphson")
	cmd.Flags().String("g", "", "iteration function for punto_fijo")
	cmd.Flags().String("seeds", "", "comma separated bracket or initial guesses")
	cmd.Flags().Float64("tolerance", 1e-6, "convergence tolerance")
	cmd.Flags().Int("max-iterations", 100, "iteration budget")
	return cmd
}

func (c *rootFindCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := roots.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
	}
	seeds, err := floats(v, "seeds")
	if err != nil {
		return err
	}
	res, err := roots.FindExpr(m, roots.ExprProblem{
		F:          v.GetString("f"),
		Derivative: v.GetString("df"),
		G:          v.GetString("g"),
		Seeds:      seeds,
	},
		roots.WithTolerance(v.GetFloat64("tolerance")),
		roots.WithMaxIterations(v.GetInt("max-iterations")),
	)
	if err != nil {
		return err
	}
	if path := c.Viper.GetString("plot"); path != "" {
		plt, err := chart.RootHistory(res)
		if err != nil {
			return err
		}
		if err := chart.Save(plt, path); err != nil {
			return err
		}
	}
	return c.write(res.Root, res)
}
