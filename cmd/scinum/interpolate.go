package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/chart"
	"github.com/YuminosukeSato/scinum/interpolation"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

type interpolateCmd struct {
	*Context
}

// NewInterpolateCmd builds the "scinum interpolate" command.
func NewInterpolateCmd(cxt *Context) *cobra.Command {
	c := &interpolateCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "interpolate",
		Short: "Evaluate the interpolating polynomial through (x, y) nodes",
		Example: `
  scinum interpolate --method adelante --x 0,1,2 --y 1,2,5 --at 1.5
  scinum interpolate --method neville --input nodes.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("method", "adelante", "adelante, atras or neville")
	cmd.Flags().String("x", "", "comma separated node abscissas")
	cmd.Flags().String("y", "", "comma separated node values")
	cmd.Flags().Float64("at", 0, "evaluation point")
	return cmd
}

func (c *interpolateCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	m, err := interpolation.ParseMethod(v.GetString("method"))
	if err != nil {
		return err
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
		return errors.NewValidationError("x", "is required", nil)
	}

	res, err := interpolation.Interpolate(m, x, y, v.GetFloat64("at"))
	if err != nil {
		return err
	}
	if path := c.Viper.GetString("plot"); path != "" {
		p, err := chart.Interpolation(res)
		if err != nil {
			return err
		}
		if err := chart.Save(p, path); err != nil {
			return err
		}
	}
	return c.write(res.Value, res)
}
