package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, overridable by build flags (-ldflags "-X ...").
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hscript",
	Short: "hscript interpreter",
	Long: `hscript is an embeddable interpreter for a small C-like scripting
language: classes, handle (@) references, arrays, enums, and a
reflection-based bridge for calling into host Go code.

This CLI drives the same pkg/hscript engine a Go program embeds
directly, for quick iteration on scripts from a shell.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
