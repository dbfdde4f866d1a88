package parser

import (
	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/token"
)

// parseExpression parses a full expression, starting at the lowest
// precedence level (assignment).
func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

var compoundAssignOps = map[token.Type]string{
	token.ASSIGN:         "",
	token.PLUS_ASSIGN:    "+",
	token.MINUS_ASSIGN:   "-",
	token.STAR_ASSIGN:    "*",
	token.SLASH_ASSIGN:   "/",
	token.PERCENT_ASSIGN: "%",
	token.AMP_ASSIGN:     "&",
	token.PIPE_ASSIGN:    "|",
	token.CARET_ASSIGN:   "^",
}

// parseAssignment handles plain/compound assignment, `@target = value`
// handle rebinding, and falls through to the ternary level. Assignment
// is right-associative.
func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseTernary()

	op, isAssign := compoundAssignOps[p.cur().Kind]
	if !isAssign {
		return left
	}
	assignTok := p.advance()

	if un, ok := left.(*ast.UnaryExpr); ok && un.Op == "@" && un.Prefix && assignTok.Kind == token.ASSIGN {
		value := p.parseAssignment()
		return &ast.HandleAssignExpr{Target: un.Operand, Value: value, Position: un.Position}
	}

	value := p.parseAssignment()
	return &ast.AssignExpr{Target: left, Op: op, Value: value, Position: left.Pos()}
}

// parseTernary parses `cond ? then : else`.
func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOr()
	if !p.curIs(token.QUESTION) {
		return cond
	}
	pos := p.advance().Pos
	then := p.parseAssignment()
	p.expect(token.COLON)
	elseExpr := p.parseAssignment()
	return &ast.TernaryExpr{Cond: cond, Then: then, Else: elseExpr, Position: pos}
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.curIs(token.OR) {
		op := p.advance()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{Left: left, Op: "||", Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseBitwiseOr()
	for p.curIs(token.AND) {
		op := p.advance()
		right := p.parseBitwiseOr()
		left = &ast.BinaryExpr{Left: left, Op: "&&", Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseBitwiseOr() ast.Expr {
	left := p.parseBitwiseXor()
	for p.curIs(token.PIPE) {
		op := p.advance()
		right := p.parseBitwiseXor()
		left = &ast.BinaryExpr{Left: left, Op: "|", Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseBitwiseXor() ast.Expr {
	left := p.parseBitwiseAnd()
	for p.curIs(token.CARET) {
		op := p.advance()
		right := p.parseBitwiseAnd()
		left = &ast.BinaryExpr{Left: left, Op: "^", Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseBitwiseAnd() ast.Expr {
	left := p.parseEquality()
	for p.curIs(token.AMP) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Op: "&", Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.curIs(token.EQ) || p.curIs(token.NEQ) {
		op := p.advance()
		right := p.parseRelational()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseShift()
	for p.curIs(token.LT) || p.curIs(token.GT) || p.curIs(token.LE) || p.curIs(token.GE) {
		op := p.advance()
		right := p.parseShift()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for p.curIs(token.SHL) || p.curIs(token.SHR) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Position: op.Pos}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.curIs(token.STAR) || p.curIs(token.SLASH) || p.curIs(token.PERCENT) {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Position: op.Pos}
	}
	return left
}

// prefixUnaryOps are the tokens that start a prefix unary expression.
var prefixUnaryOps = map[token.Type]bool{
	token.MINUS: true, token.BANG: true, token.TILDE: true, token.AT: true,
	token.INCREMENT: true, token.DECREMENT: true,
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.cur().Pos
	if prefixUnaryOps[p.cur().Kind] {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Lexeme, Operand: operand, Prefix: true, Position: pos}
	}
	if p.curIs(token.LPAREN) {
		if cast, ok := p.tryParseCast(); ok {
			return cast
		}
	}
	return p.parsePostfix()
}

// castOperandStart reports whether k can begin the operand of a cast —
// i.e. it cannot also be read as a postfix continuation of a grouped
// expression (call, index, member access) or a binary operator, which
// would mean `(X) ...` was parenthesized grouping, not a cast.
var castOperandStart = map[token.Type]bool{
	token.IDENT: true, token.INT_LITERAL: true, token.FLOAT_LITERAL: true,
	token.STRING_LITERAL: true, token.BOOL_LITERAL: true, token.NULL: true,
	token.THIS: true, token.NEW: true, token.BANG: true, token.TILDE: true,
	token.AT: true, token.INCREMENT: true, token.DECREMENT: true,
}

// tryParseCast attempts `(TypeRef) operand`. It only commits when the
// parenthesized content is unambiguously a type (a primitive keyword, or
// an identifier carrying a handle/array/template/const marker) and the
// token after the closing paren can only begin a new primary expression,
// never a continuation of a grouped one. Anything else is left alone so
// the caller falls back to ordinary parenthesized-expression parsing.
func (p *Parser) tryParseCast() (ast.Expr, bool) {
	m := p.mark()
	pos := p.cur().Pos
	p.advance() // '('

	if !token.IsTypeKeyword(p.cur().Kind) && !p.curIs(token.IDENT) && !p.curIs(token.CONST) {
		p.reset(m)
		return nil, false
	}
	typeRef := p.parseTypeRef()
	if !p.curIs(token.RPAREN) {
		p.reset(m)
		return nil, false
	}
	isUnambiguousType := token.IsTypeKeyword(p.tokens[m.pos+1].Kind) || typeRef.IsHandle || typeRef.IsConst || typeRef.TemplateArg != nil
	if !isUnambiguousType {
		p.reset(m)
		return nil, false
	}
	p.advance() // ')'

	if !castOperandStart[p.cur().Kind] {
		p.reset(m)
		return nil, false
	}

	operand := p.parseUnary()
	return &ast.CastExpr{TargetType: typeRef, Value: operand, Position: pos}, true
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT:
			pos := p.advance().Pos
			nameTok, ok := p.expect(token.IDENT)
			if !ok {
				return expr
			}
			expr = &ast.MemberExpr{Object: expr, Member: nameTok.Lexeme, Position: pos}
		case token.DBLCOLON:
			pos := p.advance().Pos
			nameTok, ok := p.expect(token.IDENT)
			if !ok {
				return expr
			}
			expr = &ast.MemberExpr{Object: expr, Member: nameTok.Lexeme, IsNamespace: true, Position: pos}
		case token.LBRACKET:
			pos := p.advance().Pos
			idx := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.IndexExpr{Object: expr, Index: idx, Position: pos}
		case token.LPAREN:
			pos := p.cur().Pos
			args := p.parseArgs()
			expr = &ast.CallExpr{Callee: expr, Args: args, Position: pos}
		case token.INCREMENT, token.DECREMENT:
			op := p.advance()
			expr = &ast.UnaryExpr{Op: op.Lexeme, Operand: expr, Prefix: false, Position: op.Pos}
		default:
			return expr
		}
	}
}

// parseArgs parses `(expr (, expr)*)`, tolerating (and ignoring) a
// leading '@' before any individual argument, which call syntax permits
// to mark handle-semantics pass-by-reference without changing
// evaluation.
func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if p.curIs(token.RPAREN) {
		p.advance()
		return args
	}
	for {
		if p.curIs(token.AT) {
			p.advance()
		}
		args = append(args, p.parseAssignment())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.INT_LITERAL:
		p.advance()
		return &ast.IntLiteral{Value: parseIntLiteral(tok.Lexeme), Position: tok.Pos}
	case token.FLOAT_LITERAL:
		p.advance()
		return &ast.FloatLiteral{Value: parseFloatLiteral(tok.Lexeme), Position: tok.Pos}
	case token.STRING_LITERAL:
		p.advance()
		return &ast.StringLiteral{Value: tok.Lexeme, Position: tok.Pos}
	case token.BOOL_LITERAL:
		p.advance()
		return &ast.BoolLiteral{Value: tok.Lexeme == "true", Position: tok.Pos}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Position: tok.Pos}
	case token.THIS:
		p.advance()
		return &ast.Identifier{Name: "this", Position: tok.Pos}
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Lexeme, Position: tok.Pos}
	case token.NEW:
		return p.parseNewExpr()
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	default:
		// Constructor-style conversion: `int(expr)`, `float(expr)`, ...
		if token.IsTypeKeyword(tok.Kind) && p.peek().Kind == token.LPAREN {
			p.advance()
			p.advance() // '('
			operand := p.parseExpression()
			p.expect(token.RPAREN)
			return &ast.CastExpr{TargetType: &ast.TypeRef{Name: tok.Lexeme, Position: tok.Pos}, Value: operand, Position: tok.Pos}
		}
		p.errorf("unexpected token %s %q", tok.Kind, tok.Lexeme)
		p.advance()
		return &ast.NullLiteral{Position: tok.Pos}
	}
}

func (p *Parser) parseNewExpr() ast.Expr {
	pos := p.advance().Pos // 'new'
	nameTok, _ := p.expect(token.IDENT)
	var args []ast.Expr
	if p.curIs(token.LPAREN) {
		args = p.parseArgs()
	}
	return &ast.NewExpr{ClassName: nameTok.Lexeme, Args: args, Position: pos}
}
