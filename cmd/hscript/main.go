// Command hscript is a CLI driver around pkg/hscript.
package main

import (
	"fmt"
	"os"

	"github.com/mirelson/hscript/cmd/hscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
