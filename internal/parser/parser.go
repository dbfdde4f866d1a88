// Package parser implements a recursive-descent, precedence-climbing
// parser that turns a token stream into an *ast.Program: one parse
// function per precedence level, and a save/restore backtracking pattern
// for the declaration-vs-expression-statement ambiguity.
package parser

import (
	"fmt"
	"strconv"

	"github.com/mirelson/hscript/internal/ast"
	"github.com/mirelson/hscript/internal/cerrors"
	"github.com/mirelson/hscript/internal/lexer"
	"github.com/mirelson/hscript/internal/token"
)

// Parser holds the full token stream (pre-scanned, so declaration/
// expression-statement backtracking is a cheap index save/restore
// rather than a lexer-state snapshot).
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*cerrors.CompilerError
	source string
	file   string
}

// New creates a Parser over the tokens produced by l. source and file
// are kept for error-message source-context rendering; file may be "".
func New(l *lexer.Lexer, source, file string) *Parser {
	p := &Parser{source: source, file: file}
	for {
		tok := l.Next()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	for _, lexErr := range l.Errors() {
		p.errors = append(p.errors, cerrors.New(cerrors.LexKind, lexErr.Pos, lexErr.Message, source, file))
	}
	return p
}

// Errors returns every lex + parse error accumulated so far.
func (p *Parser) Errors() []*cerrors.CompilerError { return p.errors }

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k token.Type) bool { return p.cur().Kind == k }

// expect consumes the current token if it matches k, else records a
// parse error and returns the zero Token with ok=false.
func (p *Parser) expect(k token.Type) (token.Token, bool) {
	if p.curIs(k) {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s %q", k, p.cur().Kind, p.cur().Lexeme)
	return token.Token{}, false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, cerrors.New(cerrors.ParseKind, p.cur().Pos, fmt.Sprintf(format, args...), p.source, p.file))
}

// mark/reset implement one-shot backtracking for the
// declaration-vs-expression-statement ambiguity.
type mark struct {
	pos      int
	errCount int
}

func (p *Parser) mark() mark {
	return mark{pos: p.pos, errCount: len(p.errors)}
}

func (p *Parser) reset(m mark) {
	p.pos = m.pos
	p.errors = p.errors[:m.errCount]
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		decl := p.parseTopLevelDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		} else if !p.curIs(token.EOF) {
			// Avoid an infinite loop on unrecoverable input.
			p.advance()
		}
	}
	return prog
}

// parseTypeRef parses `[const] name[<TypeRef>][[]][@]`.
func (p *Parser) parseTypeRef() *ast.TypeRef {
	pos := p.cur().Pos
	isConst := false
	if p.curIs(token.CONST) {
		isConst = true
		p.advance()
	}

	var name string
	if token.IsTypeKeyword(p.cur().Kind) {
		name = p.cur().Lexeme
		p.advance()
	} else if p.curIs(token.IDENT) {
		name = p.advance().Lexeme
		for p.curIs(token.DBLCOLON) {
			p.advance()
			if !p.curIs(token.IDENT) {
				p.errorf("expected identifier after '::'")
				break
			}
			name += "::" + p.advance().Lexeme
		}
	} else {
		p.errorf("expected type name, got %s", p.cur().Kind)
		return &ast.TypeRef{Name: "int", Position: pos}
	}

	var templateArg *ast.TypeRef
	if p.curIs(token.LT) {
		p.advance()
		templateArg = p.parseTypeRef()
		p.expect(token.GT)
	}

	if p.curIs(token.LBRACKET) && p.peek().Kind == token.RBRACKET {
		p.advance()
		p.advance()
		inner := &ast.TypeRef{Name: name, TemplateArg: templateArg, Position: pos}
		name = "array"
		templateArg = inner
	}

	isHandle := false
	if p.curIs(token.AT) {
		isHandle = true
		p.advance()
	}

	return &ast.TypeRef{Name: name, IsHandle: isHandle, IsConst: isConst, TemplateArg: templateArg, Position: pos}
}

// looksLikeTypeStart reports whether the token stream at offset 0
// plausibly begins a type reference: a primitive keyword, or an
// identifier followed by another identifier or '@'.
func (p *Parser) looksLikeTypeStart() bool {
	if token.IsTypeKeyword(p.cur().Kind) {
		return true
	}
	if p.curIs(token.IDENT) {
		nxt := p.peek().Kind
		return nxt == token.IDENT || nxt == token.AT
	}
	return false
}

func parseIntLiteral(lexeme string) int64 {
	v, _ := strconv.ParseInt(lexeme, 10, 64)
	return v
}

func parseFloatLiteral(lexeme string) float64 {
	s := lexeme
	if len(s) > 0 && (s[len(s)-1] == 'f' || s[len(s)-1] == 'F') {
		s = s[:len(s)-1]
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
