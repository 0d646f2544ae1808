package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/differentiation"
	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

type differentiateCmd struct {
	*Context
}

// NewDifferentiateCmd builds the "scinum differentiate" command.
func NewDifferentiateCmd(cxt *Context) *cobra.Command {
	c := &differentiateCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "differentiate",
		Short: "Estimate first derivatives with finite difference stencils",
		Long: `Estimate first derivatives from tabulated data (--x, --y) or from an
expression in x sampled around --points with step --h.

With --stencil richardson the second-order base given by --base is
combined at two step sizes: 2h and h for tabulated data, --h and --h2 for
expressions.`,
		Example: `
  scinum differentiate --stencil 3_centrada --x 0,0.1,0.2,0.3 --y 0,0.0998,0.1987,0.2955
  scinum differentiate --stencil 5_centrada --f "sin(x)" --points 0,0.5 --h 0.01
  scinum differentiate --stencil richardson --f "exp(x)" --points 1 --h 0.2 --h2 0.1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("stencil", "3_centrada", "2_adelante ... 5_centrada, or richardson")
	cmd.Flags().String("base", "3_centrada", "base stencil for richardson: 3_centrada or 3_atras")
	cmd.Flags().String("x", "", "comma separated abscissas of tabulated data")
	cmd.Flags().String("y", "", "comma separated values of tabulated data")
	cmd.Flags().String("f", "", "expression in x")
	cmd.Flags().String("points", "", "comma separated points where f is differentiated")
	cmd.Flags().Float64("h", 0.01, "step size for expressions")
	cmd.Flags().Float64("h2", 0, "second step size for richardson (default h/2)")
	return cmd
}

func (c *differentiateCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	richardson := v.GetString("stencil") == "richardson"
	name := v.GetString("stencil")
	if richardson {
		name = v.GetString("base")
	}
	s, err := differentiation.ParseStencil(name)
	if err != nil {
		return err
	}

	if src := v.GetString("f"); src != "" {
		fn, err := expr.Func1(src, "x")
		if err != nil {
			return err
		}
		points, err := floats(v, "points")
		if err != nil {
			return err
		}
		if len(points) == 0 {
			return errors.NewValidationError("points", "is required with --f", nil)
		}
		h := v.GetFloat64("h")
		if richardson {
			h2 := v.GetFloat64("h2")
			if h2 == 0 {
				h2 = h / 2
			}
			res, err := differentiation.Richardson(fn, points, h, h2, s)
			if err != nil {
				return err
			}
			return c.write(res.Value, res)
		}
		res, err := differentiation.AtPoints(fn, points, h, s)
		if err != nil {
			return err
		}
		return c.write(res.Estimates, res)
	}

	x, err := floats(v, "x")
	if err != nil {
		return err
	}
	y, err := floats(v, "y")
	if err != nil {
		return err
	}
	if len(x) == 0 {
		return errors.NewValidationError("x", "tabulated data or --f is required", nil)
	}
	if richardson {
		res, err := differentiation.RichardsonTable(x, y, s)
		if err != nil {
			return err
		}
		return c.write(res.Value, res)
	}
	res, err := differentiation.Differentiate(s, x, y)
	if err != nil {
		return err
	}
	return c.write(res.Estimates, res)
}
