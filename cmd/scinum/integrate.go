package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/integration"
)

type integrateCmd struct {
	*Context
}

// NewIntegrateCmd builds the "scinum integrate" command.
func NewIntegrateCmd(cxt *Context) *cobra.Command {
	c := &integrateCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Integrate an expression in x over [a, b]",
		Example: `
  scinum integrate --method simpson_1_3 --f "sin(x)" --a 0 --b 3.141592653589793 --n 10
  scinum integrate --method gauss --f "exp(x)" --a 0 --b 1 --n 3
  scinum integrate --method adaptativa --f "sqrt(x)" --a 0 --b 1 --tolerance 1e-8
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("method", "simpson_1_3", "trapecio, simpson_1_3, simpson_3_8, gauss, richardson or adaptativa")
	cmd.Flags().String("f", "", "integrand, an expression in x")
	cmd.Flags().Float64("a", 0, "lower limit")
	cmd.Flags().Float64("b", 1, "upper limit")
	cmd.Flags().Int("n", 10, "subintervals (gauss: points, richardson: coarse level)")
	cmd.Flags().Float64("tolerance", 1e-6, "adaptive tolerance")
	cmd.Flags().Int("max-depth", 50, "adaptive recursion limit")
	return cmd
}

func (c *integrateCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := integration.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
	}
	src, err := required(v, "f")
	if err != nil {
		return err
	}
	f, err := expr.Func1(src, "x")
	if err != nil {
		return err
	}
	res, err := integration.Integrate(m, f, v.GetFloat64("a"), v.GetFloat64("b"), v.GetInt("n"),
		integration.WithTolerance(v.GetFloat64("tolerance")),
		integration.WithMaxDepth(v.GetInt("max-depth")),
	)
	if err != nil {
		return err
	}
	return c.write(res.Value, res)
}
