package parser

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/token"
)

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur().Pos
	p.expect(token.LBRACE)
	block := &ast.Block{Position: pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return block
}

// parseStatement dispatches on the current token to the matching
// statement form, falling back to the local-declaration-or-expression
// disambiguation below.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		pos := p.advance().Pos
		p.expect(token.SEMI)
		return &ast.BreakStmt{Position: pos}
	case token.CONTINUE:
		pos := p.advance().Pos
		p.expect(token.SEMI)
		return &ast.ContinueStmt{Position: pos}
	case token.CONST:
		return p.parseLocalVarDecl()
	default:
		return p.parseDeclOrExprStmt()
	}
}

// parseDeclOrExprStmt tries a local variable declaration first when the
// statement looks like a type start; if that attempt doesn't pan out,
// reset and parse a plain expression statement instead.
func (p *Parser) parseDeclOrExprStmt() ast.Stmt {
	if p.looksLikeTypeStart() {
		m := p.mark()
		if vd, ok := p.tryParseLocalVarDecl(); ok {
			return vd
		}
		p.reset(m)
	}
	return p.parseExprStmt()
}

func (p *Parser) parseLocalVarDecl() ast.Stmt {
	if vd, ok := p.tryParseLocalVarDecl(); ok {
		return vd
	}
	p.errorf("expected variable declaration")
	return nil
}

// tryParseLocalVarDecl attempts `TypeRef name (= expr | ( expr ))? ;`. It
// reports ok=false (without necessarily leaving errors behind — callers
// use mark/reset) when the token shape doesn't match a declaration.
func (p *Parser) tryParseLocalVarDecl() (ast.Stmt, bool) {
	pos := p.cur().Pos
	typeRef := p.parseTypeRef()
	if !p.curIs(token.IDENT) {
		return nil, false
	}
	name := p.advance().Lexeme

	switch p.cur().Kind {
	case token.SEMI:
		p.advance()
		return &ast.VarDecl{TypeRef: typeRef, Name: name, IsConst: typeRef.IsConst, Position: pos}, true
	case token.ASSIGN:
		p.advance()
		init := p.parseAssignment()
		if !p.curIs(token.SEMI) {
			return nil, false
		}
		p.advance()
		return &ast.VarDecl{TypeRef: typeRef, Name: name, Initializer: init, IsConst: typeRef.IsConst, Position: pos}, true
	case token.LPAREN:
		p.advance()
		sizeExpr := p.parseAssignment()
		if !p.curIs(token.RPAREN) {
			return nil, false
		}
		p.advance()
		if !p.curIs(token.SEMI) {
			return nil, false
		}
		p.advance()
		return &ast.VarDecl{TypeRef: typeRef, Name: name, ArraySizeInit: sizeExpr, Position: pos}, true
	default:
		return nil, false
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	pos := p.cur().Pos
	expr := p.parseExpression()
	p.expect(token.SEMI)
	return &ast.ExprStmt{Expr: expr, Position: pos}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.advance().Pos // 'if'
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	then := p.parseStatement()
	var elseStmt ast.Stmt
	if p.curIs(token.ELSE) {
		p.advance()
		elseStmt = p.parseStatement()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Position: pos}
}

func (p *Parser) parseForStmt() ast.Stmt {
	pos := p.advance().Pos // 'for'
	p.expect(token.LPAREN)

	var init ast.Stmt
	if !p.curIs(token.SEMI) {
		if p.looksLikeTypeStart() {
			m := p.mark()
			if vd, ok := p.tryParseLocalVarDecl(); ok {
				init = vd
			} else {
				p.reset(m)
				init = p.parseExprStmt()
			}
		} else {
			init = p.parseExprStmt()
		}
	} else {
		p.advance() // consume ';'
	}

	var cond ast.Expr
	if !p.curIs(token.SEMI) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMI)

	var update ast.Expr
	if !p.curIs(token.RPAREN) {
		update = p.parseExpression()
	}
	p.expect(token.RPAREN)

	body := p.parseStatement()
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body, Position: pos}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.advance().Pos // 'while'
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStmt{Cond: cond, Body: body, Position: pos}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	pos := p.advance().Pos // 'do'
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return &ast.DoWhileStmt{Body: body, Cond: cond, Position: pos}
}

// parseSwitchStmt parses C-style switch with fall-through semantics.
func (p *Parser) parseSwitchStmt() ast.Stmt {
	pos := p.advance().Pos // 'switch'
	p.expect(token.LPAREN)
	discriminant := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	stmt := &ast.SwitchStmt{Discriminant: discriminant, Position: pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur().Kind {
		case token.CASE:
			p.advance()
			val := p.parseExpression()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, ast.SwitchCase{Value: val, Body: body})
		case token.DEFAULT:
			p.advance()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, ast.SwitchCase{Value: nil, Body: body})
		default:
			p.errorf("expected 'case' or 'default', got %s %q", p.cur().Kind, p.cur().Lexeme)
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return stmt
}

// parseCaseBody collects statements until the next case/default/closing
// brace, implementing fall-through (no implicit break between cases).
func (p *Parser) parseCaseBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.advance()
		}
	}
	return stmts
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.advance().Pos // 'return'
	var value ast.Expr
	if !p.curIs(token.SEMI) {
		value = p.parseExpression()
	}
	p.expect(token.SEMI)
	return &ast.ReturnStmt{Value: value, Position: pos}
}
