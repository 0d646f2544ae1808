package roots_test

import (
	"fmt"

	"github.com/YuminosukeSato/scinum/roots"
)

func ExampleBisect() {
	res, err := roots.Bisect(func(x float64) float64 { return x*x - 4 }, 0, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %.4f %v\n", res.Name, res.Root, res.Converged)
	// Output: biseccion 2.0000 true
}

func ExampleFindExpr() {
	res, err := roots.FindExpr(roots.NewtonRaphson, roots.ExprProblem{
		F:     "x^2 - 2",
		Seeds: []float64{1},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.6f\n", res.Root)
	// Output: 1.414214
}
