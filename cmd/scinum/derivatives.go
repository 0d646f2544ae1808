package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scinum/expr"
)

type derivativesCmd struct {
	*Context
}

// NewDerivativesCmd builds the "scinum derivatives" command.
func NewDerivativesCmd(cxt *Context) *cobra.Command {
	c := &derivativesCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "derivatives",
		Short: "Print the total derivatives of f(x, y) used by Taylor methods",
		Example: `
  scinum derivatives --f "x + y" --order 3
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd)
		},
	}
	cmd.Flags().String("f", "", "right-hand side, an expression in x and y")
	cmd.Flags().Int("order", 3, "highest derivative")
	return cmd
}

func (c *derivativesCmd) run(cmd *cobra.Command) error {
	v, err := c.params(cmd)
	if err != nil {
		return err
	}
	src, err := required(v, "f")
	if err != nil {
		return err
	}
	f, err := expr.Parse(src)
	if err != nil {
		return err
	}
	ders, err := expr.TotalDerivatives(f, "x", "y", v.GetInt("order"))
	if err != nil {
		return err
	}
	out := make([]string, len(ders))
	for i, d := range ders {
		out[i] = d.String()
	}
	return c.write(out, map[string]interface{}{"f": src, "order": v.GetInt("order")})
}
