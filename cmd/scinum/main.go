// Command scinum runs the numerical methods of this module from the command
// line and prints the result together with its trace as JSON or YAML.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
