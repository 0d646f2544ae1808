package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Context is shared by every subcommand.
type Context struct {
	// Viper holds global settings: config file, SCINUM_* environment and
	// persistent flags.
	Viper     *viper.Viper
	Output    io.Writer
	ErrOutput io.Writer
}

// envelope is the document written for every successful command.
type envelope struct {
	Result interface{} `json:"result"`
	Trace  interface{} `json:"trace,omitempty"`
}

// write prints result and trace in the configured format.
func (c *Context) write(result, trace interface{}) error {
	doc, err := json.MarshalIndent(envelope{Result: result, Trace: trace}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	switch format := c.Viper.GetString("format"); format {
	case "json", "":
		_, err = c.Output.Write(append(doc, '\n'))
		return err
	case "yaml":
		// JSON is valid YAML, so custom MarshalJSON layouts carry over.
		var tree interface{}
		if err := yaml.Unmarshal(doc, &tree); err != nil {
			return errors.Wrap(err, "convert output to yaml")
		}
		enc := yaml.NewEncoder(c.Output)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return errors.Wrap(err, "encode yaml output")
		}
		return enc.Close()
	default:
		return errors.NewValidationError("format", "must be json or yaml", format)
	}
}
