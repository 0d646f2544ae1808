package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// sharedKeys are numeric settings that may come from the config file or
// environment and can be overridden per command.
var sharedKeys = []string{
	"tolerance",
	"max-iterations",
	"max-depth",
	"pivot-threshold",
	"symmetry-tolerance",
	"corrector-iterations",
}

func setSharedDefaults(v *viper.Viper) {
	v.SetDefault("tolerance", 1e-6)
	v.SetDefault("max-iterations", 100)
	v.SetDefault("max-depth", 50)
	v.SetDefault("pivot-threshold", 1e-10)
	v.SetDefault("symmetry-tolerance", 1e-10)
	v.SetDefault("corrector-iterations", 3)
}

// params resolves command parameters. Precedence: explicit flag, --input
// file, global settings, flag default.
func (c *Context) params(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	for _, k := range sharedKeys {
		v.SetDefault(k, c.Viper.Get(k))
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	if path := c.Viper.GetString("input"); path != "" {
		in, err := readInput(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(in); err != nil {
			return nil, errors.Wrapf(err, "merge input %s", path)
		}
	}
	return v, nil
}

func readInput(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read input %s", path)
	}
	in := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, errors.NewValidationError("input", "invalid YAML: "+err.Error(), path)
	}
	return in, nil
}

// floats reads a vector given either as "1,2,3" or as a YAML sequence.
func floats(v *viper.Viper, key string) ([]float64, error) {
	return toFloats(key, v.Get(key))
}

func toFloats(key string, val interface{}) ([]float64, error) {
	switch val := val.(type) {
	case nil:
		return nil, nil
	case string:
		return parseFloats(key, val)
	case []interface{}:
		out := make([]float64, len(val))
		for i, e := range val {
			f, err := cast.ToFloat64E(e)
			if err != nil {
				return nil, errors.NewValidationError(key, "not a number", e)
			}
			out[i] = f
		}
		return out, nil
	case []float64:
		return val, nil
	default:
		return nil, errors.NewValidationError(key, "expected a list of numbers", val)
	}
}

func parseFloats(key, s string) ([]float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.NewValidationError(key, "not a number", p)
		}
		out[i] = f
	}
	return out, nil
}

// matrix reads a matrix given either as "2,1;1,-1" or as a YAML sequence of
// rows.
func matrix(v *viper.Viper, key string) ([][]float64, error) {
	switch val := v.Get(key).(type) {
	case nil:
		return nil, nil
	case string:
		var rows [][]float64
		for _, r := range strings.Split(val, ";") {
			row, err := parseFloats(key, r)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	case []interface{}:
		rows := make([][]float64, len(val))
		for i, r := range val {
			row, err := toFloats(key, r)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %d", key, i)
			}
			rows[i] = row
		}
		return rows, nil
	default:
		return nil, errors.NewValidationError(key, "expected a list of rows", val)
	}
}

// required fails when a string parameter is empty.
func required(v *viper.Viper, key string) (string, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return "", errors.NewValidationError(key, "is required", nil)
	}
	return s, nil
}
