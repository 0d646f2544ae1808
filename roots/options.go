package roots

// Option configures a root finder.
type Option func(*config)

type config struct {
	tol     float64
	maxIter int
}

func newConfig(opts []Option) config {
	c := config{tol: 1e-6, maxIter: 100}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithTolerance sets the convergence tolerance. Default 1e-6.
func WithTolerance(tol float64) Option {
	return func(c *config) { c.tol = tol }
}

// WithMaxIterations sets the iteration budget. Default 100.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}
