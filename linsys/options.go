package linsys

// Option は連立一次方程式ソルバーの設定を変更する関数型オプション
type Option func(*config)

type config struct {
	pivotThreshold float64
	symmetryTol    float64
	recordSteps    bool
}

func newConfig(opts []Option) config {
	c := config{
		pivotThreshold: 1e-10,
		symmetryTol:    1e-10,
		recordSteps:    true,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithPivotThreshold はピボット選択付き消去で特異とみなすピボットの絶対値の閾値を設定する（デフォルト1e-10）
func WithPivotThreshold(th float64) Option {
	return func(c *config) { c.pivotThreshold = th }
}

// WithSymmetryTolerance はCholesky分解の対称性チェックの許容誤差を設定する（デフォルト1e-10）
func WithSymmetryTolerance(tol float64) Option {
	return func(c *config) { c.symmetryTol = tol }
}

// WithSteps は行操作の文字列記録の有無を設定する（デフォルトtrue）
// 大規模な行列では記録がn²個になるため無効化できる
func WithSteps(record bool) Option {
	return func(c *config) { c.recordSteps = record }
}
