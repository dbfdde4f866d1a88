// Package hscript is the public embedding API: a host application loads
// source text, registers native functions/objects/classes, and invokes
// script functions, passing values across the boundary.
package hscript

import (
	"fmt"
	"io"

	"github.com/mirelson/hscript/internal/cerrors"
	"github.com/mirelson/hscript/internal/interp"
	"github.com/mirelson/hscript/internal/lexer"
	"github.com/mirelson/hscript/internal/parser"
	"github.com/mirelson/hscript/internal/runtime"
)

// Value is an alias for the runtime value type scripts exchange with
// the host across the boundary.
type Value = runtime.Value

// Engine embeds a single interpreter instance: one global environment
// and class table, mutated by Load and Call.
type Engine struct {
	interp *interp.Interpreter
	file   string
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput sets the writer scripts write to (e.g. via a registered
// print-style native). Equivalent to calling SetOutput after New.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.interp.SetOutput(w) }
}

// WithFile sets the filename reported in error messages produced by
// Load, in place of the default "<script>".
func WithFile(name string) Option {
	return func(e *Engine) { e.file = name }
}

// WithTrace installs a statement-level trace callback.
func WithTrace(fn func(pos, msg string)) Option {
	return func(e *Engine) { e.interp.SetTrace(true, fn) }
}

// New creates an Engine with an empty global environment. By default,
// script output is discarded; pass WithOutput to capture it.
func New(opts ...Option) *Engine {
	e := &Engine{interp: interp.New(nil), file: "<script>"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load lexes, parses, and executes source's top-level declarations.
// Forward references between functions, classes, and global variables
// resolve regardless of declaration order.
func (e *Engine) Load(source string) error {
	l := lexer.New(source)
	p := parser.New(l, source, e.file)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s", cerrors.FormatErrors(errs, false))
	}
	return e.interp.Run(program, source, e.file)
}

// Call looks up a global function by name and invokes it, returning its
// value (Void for a function that doesn't return).
func (e *Engine) Call(name string, args ...Value) (Value, error) {
	return e.interp.CallFunction(name, args)
}

// RegisterFunction binds a native Go function in globals under name.
func (e *Engine) RegisterFunction(name string, fn runtime.NativeFunc) error {
	e.interp.RegisterNativeFunction(name, fn)
	return nil
}

// RegisterGlobal binds a value in globals under name.
func (e *Engine) RegisterGlobal(name string, v Value) error {
	e.interp.DefineGlobal(name, v)
	return nil
}

// RegisterInt is a convenience over RegisterGlobal for integer globals.
func (e *Engine) RegisterInt(name string, n int64) error {
	return e.RegisterGlobal(name, runtime.NewInt(n))
}

// RegisterObject binds obj as a runtime.Native global under name, with
// its script-visible type name set to typeName (empty defaults to obj's
// Go type name).
func (e *Engine) RegisterObject(name string, obj any, typeName string) error {
	e.interp.RegisterObject(name, obj, typeName)
	return nil
}

// RegisterClass binds a native callable under name that produces a
// runtime.Native from factory when invoked from script.
func (e *Engine) RegisterClass(name string, factory func(args []Value) (any, error)) error {
	e.interp.RegisterClass(name, factory)
	return nil
}

// GetGlobal reads a global's current value.
func (e *Engine) GetGlobal(name string) (Value, bool) {
	return e.interp.Global(name)
}

// SetGlobal writes a global variable, defining it if it doesn't already
// exist.
func (e *Engine) SetGlobal(name string, v Value) error {
	e.interp.SetGlobal(name, v)
	return nil
}

// SetOutput redirects script output (e.g. a registered print-style
// native writing through Engine.Output) to w.
func (e *Engine) SetOutput(w io.Writer) {
	e.interp.SetOutput(w)
}

// Output returns the writer currently backing script output.
func (e *Engine) Output() io.Writer {
	return e.interp.Output()
}
