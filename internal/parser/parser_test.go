package parser

import (
	"testing"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l, input, "<test>")
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors for %q: %v", input, errs)
	}
	return program
}

func TestParseVarDecl(t *testing.T) {
	program := parseProgram(t, `int x = 5;`)
	if len(program.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(program.Decls))
	}
	vd, ok := program.Decls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", program.Decls[0])
	}
	if vd.Name != "x" || vd.TypeRef.Name != "int" {
		t.Fatalf("unexpected VarDecl: %+v", vd)
	}
}

func TestParseArraySizeVarDecl(t *testing.T) {
	program := parseProgram(t, `int arr(10);`)
	vd := program.Decls[0].(*ast.VarDecl)
	if vd.ArraySizeInit == nil {
		t.Fatalf("expected an array-size initializer")
	}
}

func TestParseConstDecl(t *testing.T) {
	program := parseProgram(t, `const int x = 5;`)
	vd := program.Decls[0].(*ast.VarDecl)
	if !vd.IsConst {
		t.Fatalf("expected IsConst to be true")
	}
}

func TestParseFuncDecl(t *testing.T) {
	program := parseProgram(t, `int add(int a, int b) { return a + b; }`)
	fn, ok := program.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", program.Decls[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected FuncDecl: %+v", fn)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body.Statements))
	}
}

func TestParseHandleType(t *testing.T) {
	program := parseProgram(t, `Counter@ c = null;`)
	vd := program.Decls[0].(*ast.VarDecl)
	if !vd.TypeRef.IsHandle {
		t.Fatalf("expected a handle type, got %+v", vd.TypeRef)
	}
}

func TestParseClassDecl(t *testing.T) {
	src := `
class Counter {
	int value;
	Counter(int start) { value = start; }
	void increment() { value = value + 1; }
}
`
	program := parseProgram(t, src)
	class, ok := program.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", program.Decls[0])
	}
	if class.Name != "Counter" {
		t.Fatalf("expected class name Counter, got %s", class.Name)
	}
	var fields, methods, ctors int
	for _, m := range class.Members {
		switch d := m.(type) {
		case *ast.VarDecl:
			fields++
		case *ast.FuncDecl:
			if d.Name == class.Name {
				ctors++
			} else {
				methods++
			}
		}
	}
	if fields != 1 || methods != 1 || ctors != 1 {
		t.Fatalf("expected 1 field, 1 method, 1 constructor; got fields=%d methods=%d ctors=%d", fields, methods, ctors)
	}
}

func TestParseEnumDecl(t *testing.T) {
	program := parseProgram(t, `enum Color { Red, Green, Blue = 10, Indigo }`)
	enum, ok := program.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", program.Decls[0])
	}
	if len(enum.Values) != 4 {
		t.Fatalf("expected 4 enum values, got %d", len(enum.Values))
	}
	if enum.Values[2].Name != "Blue" || enum.Values[2].Value == nil {
		t.Fatalf("expected Blue to carry an explicit initializer")
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, `
void main() {
	if (1 < 2) {
		return;
	} else {
		return;
	}
}
`)
	fn := program.Decls[0].(*ast.FuncDecl)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", fn.Body.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseForLoop(t *testing.T) {
	program := parseProgram(t, `
void main() {
	for (int i = 0; i < 10; i = i + 1) {
		continue;
	}
}
`)
	fn := program.Decls[0].(*ast.FuncDecl)
	forStmt, ok := fn.Body.Statements[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, got %T", fn.Body.Statements[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Update == nil {
		t.Fatalf("expected a fully populated for-loop header, got %+v", forStmt)
	}
}

func TestParseSwitchFallthrough(t *testing.T) {
	program := parseProgram(t, `
void main() {
	switch (1) {
	case 1:
	case 2:
		break;
	default:
		break;
	}
}
`)
	fn := program.Decls[0].(*ast.FuncDecl)
	sw, ok := fn.Body.Statements[0].(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("expected *ast.SwitchStmt, got %T", fn.Body.Statements[0])
	}
	if len(sw.Cases) != 3 {
		t.Fatalf("expected 3 case arms (including default), got %d", len(sw.Cases))
	}
	if len(sw.Cases[0].Body) != 0 {
		t.Fatalf("expected the first case arm to fall through with no statements of its own")
	}
}

func TestParseIndexExpressionInInitializer(t *testing.T) {
	program := parseProgram(t, `int x = arr[0] + 1;`)
	vd := program.Decls[0].(*ast.VarDecl)
	if vd.Initializer == nil {
		t.Fatalf("expected an initializer expression")
	}
}

func TestParseDeclarationVsExpressionBacktracking(t *testing.T) {
	// `foo(x);` with no known type keyword before `foo` must parse as a
	// call-expression statement, not a declaration attempt.
	program := parseProgram(t, `
void main() {
	foo(x);
}
`)
	fn := program.Decls[0].(*ast.FuncDecl)
	exprStmt, ok := fn.Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", fn.Body.Statements[0])
	}
	if _, ok := exprStmt.Expr.(*ast.CallExpr); !ok {
		t.Fatalf("expected a call expression, got %T", exprStmt.Expr)
	}
}
