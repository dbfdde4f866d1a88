// JSON-backed native object support: a small FFI demonstration showing
// how a host value produced entirely inside a native function (not
// registered ahead of time by the embedder) flows back across the
// boundary as a runtime.Native, indexable and member-accessible exactly
// like a host-registered struct.
package builtins

import (
	"encoding/json"
	"fmt"

	"github.com/mirelson/hscript/internal/runtime"
)

// RegisterJSON installs JSONParse and JSONStringify as global native
// functions, one RegisterX per concern like the rest of this package.
// This uses stdlib encoding/json rather than a path-query library since
// nothing here needs path-query support, only a generic decode into a Go
// value the native bridge can already wrap.
func RegisterJSON(i Registrar) {
	i.RegisterNativeFunction("JSONParse", builtinJSONParse)
	i.RegisterNativeFunction("JSONStringify", builtinJSONStringify)
}

// builtinJSONParse decodes a JSON string into a generic Go value
// (map[string]any / []any / primitives) and wraps it as a runtime.Native,
// so script code can read `obj.field` or `arr[0]` against parsed JSON
// via the ordinary native member/index resolution paths.
func builtinJSONParse(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("JSONParse() expects exactly 1 argument, got %d", len(args))
	}
	s, ok := args[0].(runtime.String)
	if !ok {
		return nil, fmt.Errorf("JSONParse() expects a string argument, got %s", args[0].Type())
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, fmt.Errorf("JSONParse(): %w", err)
	}
	return &runtime.Native{TypeName: "json", Host: decoded}, nil
}

// builtinJSONStringify re-encodes a previously-parsed native (or any
// wrapped Go value) back to a JSON string.
func builtinJSONStringify(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("JSONStringify() expects exactly 1 argument, got %d", len(args))
	}
	n, ok := args[0].(*runtime.Native)
	if !ok {
		return nil, fmt.Errorf("JSONStringify() expects a native value, got %s", args[0].Type())
	}
	out, err := json.Marshal(n.Host)
	if err != nil {
		return nil, fmt.Errorf("JSONStringify(): %w", err)
	}
	return runtime.String(out), nil
}
