package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type output struct {
	Result json.RawMessage        `json:"result"`
	Trace  map[string]interface{} `json:"trace"`
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decode(t *testing.T, stdout string) output {
	t.Helper()
	var out output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func scalarResult(t *testing.T, out output) float64 {
	t.Helper()
	var v float64
	require.NoError(t, json.Unmarshal(out.Result, &v))
	return v
}

func vectorResult(t *testing.T, out output) []float64 {
	t.Helper()
	var v []float64
	require.NoError(t, json.Unmarshal(out.Result, &v))
	return v
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRoot(t *testing.T) {
	code, stdout, stderr := execute(t, "root", "--method", "biseccion", "--f", "x^2 - 4", "--seeds", "0,3")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	assert.InDelta(t, 2.0, scalarResult(t, out), 1e-6)
	assert.Equal(t, "biseccion", out.Trace["method"])
	assert.Equal(t, true, out.Trace["converged"])
	assert.NotEmpty(t, out.Trace["history"])
}

func TestNewtonSymbolicDerivative(t *testing.T) {
	code, stdout, stderr := execute(t, "root", "--method", "newton_raphson", "--f", "cos(x) - x", "--seeds", "1")
	require.Equal(t, 0, code, stderr)
	assert.InDelta(t, 0.7390851332151607, scalarResult(t, decode(t, stdout)), 1e-6)
}

func TestInterpolate(t *testing.T) {
	for _, m := range []string{"adelante", "atras", "neville"} {
		t.Run(m, func(t *testing.T) {
			code, stdout, stderr := execute(t, "interpolate", "--method", m, "--x", "0,1,2", "--y", "1,2,5", "--at", "1.5")
			require.Equal(t, 0, code, stderr)
			out := decode(t, stdout)
			assert.InDelta(t, 3.25, scalarResult(t, out), 1e-12)
			assert.Equal(t, m, out.Trace["method"])
			assert.NotEmpty(t, out.Trace["table"])
		})
	}
}

func TestDifferentiate(t *testing.T) {
	code, stdout, stderr := execute(t, "differentiate", "--stencil", "5_centrada", "--f", "sin(x)", "--points", "0", "--h", "0.01")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	var est []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Result, &est))
	require.Len(t, est, 1)
	assert.InDelta(t, 1.0, est[0]["value"], 1e-5)

	code, stdout, stderr = execute(t, "differentiate", "--stencil", "richardson", "--f", "exp(x)", "--points", "1", "--h", "0.2")
	require.Equal(t, 0, code, stderr)
	require.NoError(t, json.Unmarshal(decode(t, stdout).Result, &est))
	assert.InDelta(t, math.E, est[0]["value"], 1e-4)

	code, stdout, stderr = execute(t, "differentiate", "--stencil", "2_adelante", "--x", "0,1,2", "--y", "0,1,4")
	require.Equal(t, 0, code, stderr)
	require.NoError(t, json.Unmarshal(decode(t, stdout).Result, &est))
	require.Len(t, est, 3)
	assert.Equal(t, 1.0, est[0]["value"])
	assert.Nil(t, est[2]["value"])
}

func TestIntegrate(t *testing.T) {
	code, stdout, stderr := execute(t, "integrate", "--method", "simpson_1_3", "--f", "sin(x)", "--a", "0", "--b", "3.141592653589793", "--n", "10")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	assert.InDelta(t, 2.0, scalarResult(t, out), 1e-3)
	assert.Equal(t, "simpson_1_3", out.Trace["method"])

	code, _, _ = execute(t, "integrate", "--method", "simpson_1_3", "--f", "sin(x)", "--n", "9")
	assert.Equal(t, exitInput, code)

	code, stdout, stderr = execute(t, "integrate", "--method", "adaptativa", "--f", "sqrt(x)", "--tolerance", "1e-8")
	require.Equal(t, 0, code, stderr)
	assert.InDelta(t, 2.0/3.0, scalarResult(t, decode(t, stdout)), 1e-6)
}

func TestLinsys(t *testing.T) {
	for _, m := range []string{"gauss_simple", "pivoteo_parcial", "pivoteo_total", "lu", "plu"} {
		t.Run(m, func(t *testing.T) {
			code, stdout, stderr := execute(t, "linsys", "--method", m, "--a", "2,1;1,-1", "--b", "5,1")
			require.Equal(t, 0, code, stderr)
			out := decode(t, stdout)
			assert.InDeltaSlice(t, []float64{2, 1}, vectorResult(t, out), 1e-4)
			assert.InDelta(t, -3.0, out.Trace["determinant"], 1e-12)
		})
	}

	code, _, stderr := execute(t, "linsys", "--method", "cholesky", "--a", "2,1;1,-1", "--b", "5,1")
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "positive definite")
}

func TestLinsysInputFile(t *testing.T) {
	input := writeFile(t, "spd.yaml", `
method: cholesky
a:
  - [4, 2]
  - [2, 3]
b: [2, 1]
`)
	code, stdout, stderr := execute(t, "linsys", "--input", input)
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	assert.InDeltaSlice(t, []float64{0.5, 0}, vectorResult(t, out), 1e-12)
	assert.Equal(t, "cholesky", out.Trace["method"])

	// flags override the input file
	code, stdout, stderr = execute(t, "linsys", "--input", input, "--method", "pivoteo_parcial")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "pivoteo_parcial", decode(t, stdout).Trace["method"])

	code, _, _ = execute(t, "linsys", "--input", writeFile(t, "bad.yaml", "a: [1, 2"))
	assert.Equal(t, exitInput, code)
}

func TestODE(t *testing.T) {
	code, stdout, stderr := execute(t, "ode", "--method", "rk4", "--f=-y", "--y0", "1", "--xf", "1", "--n", "20", "--exact", "exp(-x)")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	y := vectorResult(t, out)
	require.Len(t, y, 21)
	assert.InDelta(t, math.Exp(-1), y[20], 1e-3)
	cmp, ok := out.Trace["comparison"].(map[string]interface{})
	require.True(t, ok)
	assert.Less(t, cmp["max_abs_error"], 1e-6)
	assert.LessOrEqual(t, cmp["mean_abs_error"], cmp["max_abs_error"])

	code, stdout, stderr = execute(t, "ode", "--method", "taylor_4", "--f", "x + y", "--y0", "1", "--n", "10")
	require.Equal(t, 0, code, stderr)
	y = vectorResult(t, decode(t, stdout))
	assert.InDelta(t, 2*math.E-2, y[10], 1e-5)

	code, _, _ = execute(t, "ode", "--method", "adams_bashforth", "--f=-y", "--y0", "1", "--n", "3")
	assert.Equal(t, exitInput, code)
}

func TestODESystem(t *testing.T) {
	code, stdout, stderr := execute(t, "ode-system", "--method", "rk4", "--f", "y2", "--f=-y1", "--y0", "1,0", "--xf", "3.141592653589793", "--n", "100")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	assert.InDeltaSlice(t, []float64{-1, 0}, vectorResult(t, out), 1e-6)
	assert.Len(t, out.Trace["y"], 101)
}

func TestDerivatives(t *testing.T) {
	code, stdout, stderr := execute(t, "derivatives", "--f", "x + y", "--order", "2")
	require.Equal(t, 0, code, stderr)
	var ders []string
	require.NoError(t, json.Unmarshal(decode(t, stdout).Result, &ders))
	require.Len(t, ders, 3)
	assert.Equal(t, "x + y", ders[0])
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown method", []string{"root", "--method", "brent", "--f", "x", "--seeds", "0,1"}},
		{"malformed expression", []string{"root", "--f", "x^^2", "--seeds", "0,3"}},
		{"forbidden function", []string{"integrate", "--f", "system(1)"}},
		{"no sign change", []string{"root", "--f", "x^2 + 1", "--seeds=-1,1"}},
		{"unknown flag", []string{"root", "--nope"}},
		{"bad number", []string{"interpolate", "--x", "0,a", "--y", "1,2"}},
		{"bad log level", []string{"--log-level", "loud", "root", "--f", "x", "--seeds=-1,1"}},
		{"bad format", []string{"--format", "xml", "root", "--f", "x", "--seeds=-1,1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, exitInput, code, stderr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestYAMLOutput(t *testing.T) {
	code, stdout, stderr := execute(t, "--format", "yaml", "root", "--f", "x^2 - 4", "--seeds", "0,3")
	require.Equal(t, 0, code, stderr)
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.InDelta(t, 2.0, doc["result"], 1e-6)
	trace, ok := doc["trace"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "biseccion", trace["method"])
}

func TestConfigFileAndEnvironment(t *testing.T) {
	cfg := writeFile(t, "scinum.yaml", "max-iterations: 3\n")
	code, stdout, stderr := execute(t, "--config", cfg, "root", "--f", "x^2 - 2", "--seeds", "0,2")
	require.Equal(t, 0, code, stderr)
	out := decode(t, stdout)
	assert.Equal(t, false, out.Trace["converged"])
	assert.Equal(t, 3.0, out.Trace["iterations"])

	// flags win over the config file
	code, stdout, stderr = execute(t, "--config", cfg, "root", "--f", "x^2 - 2", "--seeds", "0,2", "--max-iterations", "100")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, true, decode(t, stdout).Trace["converged"])

	t.Setenv("SCINUM_MAX_ITERATIONS", "4")
	code, stdout, stderr = execute(t, "root", "--f", "x^2 - 2", "--seeds", "0,2")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 4.0, decode(t, stdout).Trace["iterations"])

	code, _, _ = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "root", "--f", "x", "--seeds=-1,1")
	assert.Equal(t, exitInput, code)
}

func TestZerologWarnings(t *testing.T) {
	code, stdout, stderr := execute(t, "--log-backend", "zerolog", "root", "--f", "x^2 - 2", "--seeds", "0,2", "--max-iterations", "2")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, false, decode(t, stdout).Trace["converged"])
	assert.Contains(t, stderr, `"algorithm":"biseccion"`)
	assert.Contains(t, stderr, `"level":"warn"`)
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"ode.png", []string{"ode", "--f=-y", "--y0", "1", "--exact", "exp(-x)"}},
		{"system.svg", []string{"ode-system", "--f", "y2", "--f=-y1", "--y0", "1,0", "--n", "20"}},
		{"interp.png", []string{"interpolate", "--x", "0,1,2", "--y", "1,2,5", "--at", "1.5"}},
		{"root.svg", []string{"root", "--f", "x^2 - 4", "--seeds", "0,3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			args := append([]string{"--plot", path}, tt.args...)
			code, _, stderr := execute(t, args...)
			require.Equal(t, 0, code, stderr)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestHelp(t *testing.T) {
	code, stdout, _ := execute(t, "--help")
	assert.Equal(t, 0, code)
	for _, sub := range []string{"interpolate", "differentiate", "integrate", "linsys", "ode", "ode-system", "root", "derivatives"} {
		assert.True(t, strings.Contains(stdout, sub), sub)
	}
}
