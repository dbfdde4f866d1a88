package parser

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/token"
)

// parseTopLevelDecl parses one of: class, enum, var, or func declaration.
func (p *Parser) parseTopLevelDecl() ast.TopLevelDecl {
	switch {
	case p.curIs(token.CLASS):
		return p.parseClassDecl()
	case p.curIs(token.ENUM):
		return p.parseEnumDecl()
	case p.curIs(token.CONST) || p.looksLikeTypeStart():
		return p.parseVarOrFuncDecl()
	default:
		p.errorf("expected declaration, got %s %q", p.cur().Kind, p.cur().Lexeme)
		return nil
	}
}

// parseVarOrFuncDecl parses `TypeRef name ...` as either a VarDecl or a
// FuncDecl: a variable if followed by `;` / `=` / `(expr)` (array size),
// or a function if followed by a `(` parameter list.
func (p *Parser) parseVarOrFuncDecl() ast.TopLevelDecl {
	pos := p.cur().Pos
	typeRef := p.parseTypeRef()
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	name := nameTok.Lexeme

	if p.curIs(token.LPAREN) {
		if fn, isFn := p.tryParseFuncDecl(typeRef, name, pos); isFn {
			return fn
		}
		return p.finishArraySizeVarDecl(typeRef, name, pos)
	}

	return p.finishSimpleVarDecl(typeRef, name, pos)
}

// tryParseFuncDecl attempts to parse `(params) { body }` starting at the
// current '('. On any failure it restores the parser position and
// reports isFn=false so the caller can fall back to an array-size
// VarDecl, mirroring the language's general declaration/expression
// backtracking philosophy.
func (p *Parser) tryParseFuncDecl(returnType *ast.TypeRef, name string, pos token.Position) (*ast.FuncDecl, bool) {
	m := p.mark()
	params, ok := p.tryParseParamList()
	if !ok {
		p.reset(m)
		return nil, false
	}
	if !p.curIs(token.LBRACE) {
		p.reset(m)
		return nil, false
	}
	body := p.parseBlock()
	return &ast.FuncDecl{ReturnType: returnType, Name: name, Params: params, Body: body, Position: pos}, true
}

// tryParseParamList parses `( [qualifier]? Type name (, ...)* )` and
// returns ok=false on failure. A failure can leave parse errors recorded
// (e.g. from a missing parameter name); callers that treat failure as
// "this wasn't a function after all" discard them with mark/reset.
func (p *Parser) tryParseParamList() ([]ast.Param, bool) {
	if !p.curIs(token.LPAREN) {
		return nil, false
	}
	p.advance()
	var params []ast.Param
	if p.curIs(token.RPAREN) {
		p.advance()
		return params, true
	}
	for {
		qualifier := ast.QualifierNone
		switch p.cur().Kind {
		case token.IN:
			qualifier = ast.QualifierIn
			p.advance()
		case token.OUT:
			qualifier = ast.QualifierOut
			p.advance()
		case token.INOUT:
			qualifier = ast.QualifierInout
			p.advance()
		}
		if !token.IsTypeKeyword(p.cur().Kind) && !p.curIs(token.IDENT) {
			return nil, false
		}
		pt := p.parseTypeRef()
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{TypeRef: pt, Name: nameTok.Lexeme, Qualifier: qualifier})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.curIs(token.RPAREN) {
		return nil, false
	}
	p.advance()
	return params, true
}

func (p *Parser) finishArraySizeVarDecl(typeRef *ast.TypeRef, name string, pos token.Position) *ast.VarDecl {
	p.expect(token.LPAREN)
	sizeExpr := p.parseAssignment()
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return &ast.VarDecl{TypeRef: typeRef, Name: name, ArraySizeInit: sizeExpr, Position: pos}
}

func (p *Parser) finishSimpleVarDecl(typeRef *ast.TypeRef, name string, pos token.Position) *ast.VarDecl {
	vd := &ast.VarDecl{TypeRef: typeRef, Name: name, IsConst: typeRef.IsConst, Position: pos}
	if p.curIs(token.ASSIGN) {
		p.advance()
		vd.Initializer = p.parseAssignment()
	}
	p.expect(token.SEMI)
	return vd
}

// parseClassDecl parses `class Name { members }`.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	pos := p.cur().Pos
	p.advance() // 'class'
	nameTok, _ := p.expect(token.IDENT)
	class := &ast.ClassDecl{Name: nameTok.Lexeme, Position: pos}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		member := p.parseClassMember(class.Name)
		if member != nil {
			class.Members = append(class.Members, member)
		} else {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return class
}

// parseClassMember parses one field, method, constructor, or destructor.
func (p *Parser) parseClassMember(className string) ast.ClassMember {
	pos := p.cur().Pos

	// `~Ident (...)`: destructor.
	if p.curIs(token.TILDE) {
		p.advance()
		nameTok, _ := p.expect(token.IDENT)
		params, _ := p.tryParseParamList()
		body := p.parseBlock()
		return &ast.FuncDecl{ReturnType: &ast.TypeRef{Name: "void"}, Name: "~" + nameTok.Lexeme, Params: params, Body: body, Position: pos}
	}

	// `ClassName (...)`: constructor.
	if p.curIs(token.IDENT) && p.cur().Lexeme == className && p.peek().Kind == token.LPAREN {
		name := p.advance().Lexeme
		params, _ := p.tryParseParamList()
		body := p.parseBlock()
		return &ast.FuncDecl{ReturnType: &ast.TypeRef{Name: "void"}, Name: name, Params: params, Body: body, Position: pos}
	}

	if !token.IsTypeKeyword(p.cur().Kind) && !p.curIs(token.IDENT) && !p.curIs(token.CONST) {
		p.errorf("expected class member, got %s %q", p.cur().Kind, p.cur().Lexeme)
		return nil
	}

	typeRef := p.parseTypeRef()
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	name := nameTok.Lexeme

	if p.curIs(token.LPAREN) {
		if fn, isFn := p.tryParseFuncDecl(typeRef, name, pos); isFn {
			return fn
		}
		return p.finishArraySizeVarDecl(typeRef, name, pos)
	}
	return p.finishSimpleVarDecl(typeRef, name, pos)
}

// parseEnumDecl parses `enum Name { A, B = expr, ... }`.
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	pos := p.cur().Pos
	p.advance() // 'enum'
	nameTok, _ := p.expect(token.IDENT)
	decl := &ast.EnumDecl{Name: nameTok.Lexeme, Position: pos}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		memberTok, ok := p.expect(token.IDENT)
		if !ok {
			p.advance()
			continue
		}
		ev := ast.EnumValue{Name: memberTok.Lexeme}
		if p.curIs(token.ASSIGN) {
			p.advance()
			ev.Value = p.parseAssignment()
		}
		decl.Values = append(decl.Values, ev)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return decl
}
