package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mirelson/hscript/internal/builtins"
	"github.com/mirelson/hscript/internal/runtime"
	"github.com/mirelson/hscript/pkg/hscript"
	"github.com/spf13/cobra"
)

var (
	runEval    string
	runDumpAST bool
	runTrace   bool
	runVars    string
	callMain   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an hscript file or expression",
	Long: `Execute an hscript program from a file or inline expression.

Examples:
  hscript run script.hs
  hscript run -e "var x = 1 + 2;"
  hscript run --trace script.hs
  hscript run --vars vars.yaml --call-main script.hs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "print the source text before running")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "trace statement execution to stderr")
	runCmd.Flags().StringVar(&runVars, "vars", "", "YAML file of globals to register before running (name: value)")
	runCmd.Flags().BoolVar(&callMain, "call-main", false, "call the script's main() function after loading")
}

// registrarAdapter lets cmd/hscript route builtins.RegisterMath/RegisterJSON
// through the public pkg/hscript.Engine surface instead of reaching past
// it into internal/interp directly.
type registrarAdapter struct{ engine *hscript.Engine }

func (r registrarAdapter) RegisterNativeFunction(name string, fn func(args []runtime.Value) (runtime.Value, error)) {
	_ = r.engine.RegisterFunction(name, fn)
}

func (r registrarAdapter) DefineGlobal(name string, v runtime.Value) {
	_ = r.engine.RegisterGlobal(name, v)
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	if runDumpAST {
		fmt.Println("Source:")
		fmt.Println(input)
		fmt.Println()
	}

	opts := []hscript.Option{hscript.WithOutput(os.Stdout), hscript.WithFile(filename)}
	if runTrace {
		opts = append(opts, hscript.WithTrace(func(pos, msg string) {
			fmt.Fprintf(os.Stderr, "[trace] %s: %s\n", pos, msg)
		}))
	}
	engine := hscript.New(opts...)

	reg := registrarAdapter{engine}
	builtins.RegisterMath(reg)
	builtins.RegisterJSON(reg)

	if runVars != "" {
		if err := loadVars(engine, runVars); err != nil {
			return err
		}
	}

	if err := engine.Load(input); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("execution failed")
	}

	if callMain {
		if _, err := engine.Call("main"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return fmt.Errorf("main() failed")
		}
	}

	return nil
}

// loadVars reads a flat YAML map of name->scalar pairs from path and
// registers each as a global, so a script's globals can be seeded from
// the command line without recompiling.
func loadVars(engine *hscript.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read vars file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse vars file %s: %w", path, err)
	}

	for name, v := range raw {
		val, err := toRuntimeValue(v)
		if err != nil {
			return fmt.Errorf("vars file %s: %s: %w", path, name, err)
		}
		if err := engine.RegisterGlobal(name, val); err != nil {
			return err
		}
	}
	return nil
}

// toRuntimeValue converts a YAML-decoded Go scalar into the matching
// runtime.Value.
func toRuntimeValue(v any) (runtime.Value, error) {
	switch x := v.(type) {
	case int:
		return runtime.NewInt(int64(x)), nil
	case int64:
		return runtime.NewInt(x), nil
	case uint64:
		return runtime.NewInt(int64(x)), nil
	case float64:
		return runtime.Float(x), nil
	case string:
		return runtime.String(x), nil
	case bool:
		return runtime.Bool(x), nil
	case nil:
		return &runtime.Handle{}, nil
	default:
		return nil, fmt.Errorf("unsupported vars value type %T", v)
	}
}
