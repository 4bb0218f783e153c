// Command transformctl loads a model file, runs the transformation lifecycle
// and reports the result.
//
//	transformctl check model.yaml
//	transformctl report model.yaml -i start.txt --row 2
//	transformctl objective model.toml --log-level debug
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}
