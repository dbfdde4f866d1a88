package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/cerrors"
	"github.com/mirelson/hscript/internal/lexer"
	"github.com/mirelson/hscript/internal/parser"
	"github.com/spf13/cobra"
)

// readSourceOrStdin behaves like readSource, but falls back to reading
// stdin (rather than erroring) when no file or -e expression is given.
func readSourceOrStdin(eval string, args []string) (input, filename string, err error) {
	if eval == "" && len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	return readSource(eval, args)
}

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse hscript source and display the AST",
	Long: `Parse hscript source code and display the Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line, or --dump-ast for a per-declaration
breakdown instead of the reconstituted source form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump a per-declaration AST breakdown")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSourceOrStdin(parseEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	p := parser.New(l, input, filename)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprint(os.Stderr, cerrors.FormatErrors(errs, true))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpProgram(program)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

// dumpProgram prints each top-level declaration's Go type alongside its
// String() rendering. Every ast.Node already renders itself, so there is
// no need for a separate per-kind fallback case.
func dumpProgram(program *ast.Program) {
	fmt.Printf("Program (%d declarations)\n", len(program.Decls))
	for i, d := range program.Decls {
		fmt.Printf("[%d] %T\n", i, d)
		fmt.Println(indent(d.String(), "    "))
	}
}

func indent(s, prefix string) string {
	out := prefix
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += prefix
		}
	}
	return out
}
