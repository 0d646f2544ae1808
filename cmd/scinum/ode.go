package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/scinum/chart"
	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/ode"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

type odeCmd struct {
	*Context
}

// NewODECmd builds the "scinum ode" command.
func NewODECmd(cxt *Context) *cobra.Command {
	c := &odeCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "ode",
		Short: "Solve a scalar initial value problem y' = f(x, y)",
		Example: `
  scinum ode --method rk4 --f=-y --x0 0 --y0 1 --xf 1 --n 20 --exact "exp(-x)"
  scinum ode --method taylor_3 --f "x + y" --x0 0 --y0 1 --xf 1 --n 10 --plot ode.png
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	addODEFlags(cmd)
	cmd.Flags().String("f", "", "right-hand side, an expression in x and y")
	cmd.Flags().Float64("y0", 0, "initial value")
	cmd.Flags().String("exact", "", "exact solution in x, compared against the numerical one")
	return cmd
}

func addODEFlags(cmd *cobra.Command) {
	cmd.Flags().String("method", "rk4", "euler, taylor_2, taylor_3, taylor_4, rk3, rk4, rkf45, adams_bashforth or adams_moulton")
	cmd.Flags().Float64("x0", 0, "initial abscissa")
	cmd.Flags().Float64("xf", 1, "final abscissa")
	cmd.Flags().Int("n", 10, "number of steps")
	cmd.Flags().Int("corrector-iterations", 3, "Adams-Moulton corrector iterations per step")
}

func odeOptions(v *viper.Viper) []ode.Option {
	return []ode.Option{ode.WithCorrectorIterations(v.GetInt("corrector-iterations"))}
}

type odeTrace struct {
	*ode.Trajectory
	Comparison *ode.Comparison `json:"comparison,omitempty"`
}

func (c *odeCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := ode.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
	}
	src, err := required(v, "f")
	if err != nil {
		return err
	}
	p := ode.Problem{X0: v.GetFloat64("x0"), Y0: v.GetFloat64("y0"), XF: v.GetFloat64("xf"), N: v.GetInt("n")}

	traj, err := ode.SolveExpr(m, src, p, odeOptions(v)...)
	if err != nil {
		return err
	}
	trace := odeTrace{Trajectory: traj}

	var exact func(float64) float64
	if exactSrc := v.GetString("exact"); exactSrc != "" {
		if exact, err = expr.Func1(exactSrc, "x"); err != nil {
			return errors.Wrap(err, "exact")
		}
		if trace.Comparison, err = ode.Compare(traj, exact); err != nil {
			return err
		}
	}

	if path := c.Viper.GetString("plot"); path != "" {
		plt, err := chart.Trajectory(traj, exact)
		if err != nil {
			return err
		}
		if err := chart.Save(plt, path); err != nil {
			return err
		}
	}
	return c.write(traj.Y, trace)
}

type odeSystemCmd struct {
	*Context
}

// NewODESystemCmd builds the "scinum ode-system" command.
func NewODESystemCmd(cxt *Context) *cobra.Command {
	c := &odeSystemCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "ode-system",
		Short: "Solve a system y' = f(x, y1, ..., ym)",
		Example: `
  scinum ode-system --method rk4 --f y2 --f=-y1 --y0 1,0 --xf 6.283185307179586 --n 100
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	addODEFlags(cmd)
	cmd.Flags().StringArray("f", nil, "one right-hand side per equation, in x and y1..ym (repeatable)")
	cmd.Flags().String("y0", "", "comma separated initial state")
	return cmd
}

func (c *odeSystemCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := ode.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
	}
	srcs := v.GetStringSlice("f")
	if len(srcs) == 0 {
		return errors.NewValidationError("f", "is required", nil)
	}
	y0, err := floats(v, "y0")
	if err != nil {
		return err
	}
	p := ode.SystemProblem{X0: v.GetFloat64("x0"), Y0: y0, XF: v.GetFloat64("xf"), N: v.GetInt("n")}

	traj, err := ode.SolveSystemExpr(m, srcs, p, odeOptions(v)...)
	if err != nil {
		return err
	}
	if path := c.Viper.GetString("plot"); path != "" {
		plt, err := chart.System(traj)
		if err != nil {
			return err
		}
		if err := chart.Save(plt, path); err != nil {
			return err
		}
	}
	return c.write(traj.Final(), traj)
}
