// Copyright The go-zkasm Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package asm

import (
	"strconv"
	"strings"

	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
	"github.com/zkasmlang/go-zkasm/pkg/util/source/lex"
)

// Parse accepts a given source file representing an assembly program, and
// parses it into a sequence of statements ready for compilation.
func Parse(srcfile *source.File) (*Program, []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	return parser.Parse()
}

// Parser is a parser for the assembly language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
	// Labels declared so far (they must be unique)
	labels map[string]bool
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0, make(map[string]bool)}
}

// Parse the given source file into a program, or some number of syntax
// errors.
func (p *Parser) Parse() (*Program, []source.SyntaxError) {
	var (
		program = &Program{nil, p.srcfile}
		errors  []source.SyntaxError
		stmt    Statement
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(p.srcfile); len(errors) > 0 {
		return program, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		lookahead := p.lookahead()
		// All statements lead with an identifier.
		if lookahead.Kind != IDENTIFIER {
			return program, p.syntaxErrors(lookahead, "unknown statement")
		}
		// Determine type of statement
		switch p.string(lookahead) {
		case "reg":
			stmt, errors = p.parseRegisterDeclaration()
		case "instr":
			stmt, errors = p.parseInstructionDeclaration()
		case "pil":
			stmt, errors = p.parseInlinePil()
		default:
			if p.following(IDENTIFIER, COLON) {
				stmt, errors = p.parseLabel()
			} else if p.followingAssignment() {
				stmt, errors = p.parseAssignment()
			} else {
				stmt, errors = p.parseInvocation()
			}
		}
		//
		if len(errors) > 0 {
			return program, errors
		}
		//
		program.Statements = append(program.Statements, stmt)
	}
	//
	return program, nil
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseRegisterDeclaration() (Statement, []source.SyntaxError) {
	var (
		start = p.index
		flag  = NO_FLAG
		name  string
		errs  []source.SyntaxError
	)
	//
	if errs = p.parseKeyword("reg"); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	// Parse optional flag
	if p.match(LSQUARE) {
		lookahead := p.lookahead()
		//
		switch {
		case p.match(AT):
			if errs = p.parseKeyword("pc"); len(errs) > 0 {
				return nil, errs
			}
			//
			flag = PC_FLAG
		case p.match(LESS_THAN_EQUALS):
			flag = ASSIGNMENT_FLAG
		default:
			return nil, p.syntaxErrors(lookahead, "unknown register flag")
		}
		//
		if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &RegisterDeclaration{p.spanOf(start, p.index-1), name, flag}, nil
}

func (p *Parser) parseInstructionDeclaration() (Statement, []source.SyntaxError) {
	var (
		start  = p.index
		name   string
		params []Param
		body   []pil.Expr
		expr   pil.Expr
		errs   []source.SyntaxError
	)
	//
	if errs = p.parseKeyword("instr"); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	// Parse parameters until start of body
	for p.lookahead().Kind != LCURLY {
		if len(params) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		param, errs := p.parseParam()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		params = append(params, param)
	}
	// Parse body
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RCURLY {
		if len(body) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if expr, errs = p.parseBodyConstraint(); len(errs) > 0 {
			return nil, errs
		}
		//
		body = append(body, expr)
	}
	// Advance past "}"
	p.match(RCURLY)
	//
	return &InstructionDeclaration{p.spanOf(start, p.index - 1), name, params, body}, nil
}

func (p *Parser) parseParam() (Param, []source.SyntaxError) {
	var param Param
	//
	name, errs := p.parseIdentifier()
	//
	if len(errs) > 0 {
		return param, errs
	}
	//
	param.Name = name
	// Parse optional role (or type tag)
	if p.match(COLON) {
		tag, errs := p.parseIdentifier()
		//
		if len(errs) > 0 {
			return param, errs
		}
		//
		switch tag {
		case "in":
			param.Input = true
		case "out":
			param.Output = true
		default:
			param.Type = tag
		}
	}
	//
	return param, nil
}

// Parse a single constraint of an instruction body.  An equation "lhs = rhs"
// is lowered to the expression "lhs - rhs", such that an equation whose
// left-hand side is a next-row reference describes a register update.
func (p *Parser) parseBodyConstraint() (pil.Expr, []source.SyntaxError) {
	lhs, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(EQUALS) {
		rhs, errs := p.parseExpr()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return pil.BuildSub(lhs, rhs), nil
	}
	//
	return lhs, nil
}

func (p *Parser) parseInlinePil() (Statement, []source.SyntaxError) {
	var (
		start = p.index
		stmts []pil.Statement
		errs  []source.SyntaxError
	)
	//
	if errs = p.parseKeyword("pil"); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RCURLY {
		stmt, errs := p.parsePilStatement()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		stmts = append(stmts, stmt)
	}
	// Advance past "}"
	p.match(RCURLY)
	//
	return &InlinePil{p.spanOf(start, p.index - 1), stmts}, nil
}

func (p *Parser) parsePilStatement() (pil.Statement, []source.SyntaxError) {
	var (
		offset = p.lookahead().Span.Start()
		errs   []source.SyntaxError
	)
	// Check for declarations
	if p.lookahead().Kind == IDENTIFIER && p.string(p.lookahead()) == "pol" {
		p.match(IDENTIFIER)
		// Either a commit declaration or a definition
		if p.lookahead().Kind == IDENTIFIER && p.string(p.lookahead()) == "commit" {
			return p.parsePilCommit(offset)
		}
		//
		return p.parsePilDefinition(offset)
	}
	// Otherwise, its an identity
	lhs, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(EQUALS); len(errs) > 0 {
		return nil, errs
	}
	//
	rhs, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	// An identity against literal zero keeps its left-hand side alone, so
	// that it renders back exactly as written.
	if num, ok := rhs.(*pil.Number); ok && num.Value == 0 {
		return &pil.Identity{Start: offset, Expr: lhs}, nil
	}
	//
	return &pil.Identity{Start: offset, Expr: pil.BuildSub(lhs, rhs)}, nil
}

func (p *Parser) parsePilCommit(offset int) (pil.Statement, []source.SyntaxError) {
	var names []string
	//
	if errs := p.parseKeyword("commit"); len(errs) > 0 {
		return nil, errs
	}
	//
	for len(names) == 0 || p.match(COMMA) {
		name, errs := p.parseIdentifier()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		names = append(names, name)
	}
	//
	if _, errs := p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &pil.CommitDeclaration{Start: offset, Names: names}, nil
}

func (p *Parser) parsePilDefinition(offset int) (pil.Statement, []source.SyntaxError) {
	var (
		name string
		expr pil.Expr
		errs []source.SyntaxError
	)
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(EQUALS); len(errs) > 0 {
		return nil, errs
	} else if expr, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &pil.Definition{Start: offset, Name: name, Value: expr}, nil
}

func (p *Parser) parseLabel() (Statement, []source.SyntaxError) {
	var start = p.index
	// Observe, following cannot fail
	tok, _ := p.expect(IDENTIFIER)
	// Likewise, this cannot fail
	p.expect(COLON)
	//
	name := p.string(tok)
	//
	if p.labels[name] {
		return nil, p.syntaxErrors(tok, "label already declared")
	}
	//
	p.labels[name] = true
	//
	return &Label{p.spanOf(start, p.index - 1), name}, nil
}

func (p *Parser) parseAssignment() (Statement, []source.SyntaxError) {
	var (
		start     = p.index
		writeRegs []string
		assignReg = util.None[string]()
		value     pil.Expr
		errs      []source.SyntaxError
	)
	// Parse write register(s)
	for len(writeRegs) == 0 || p.match(COMMA) {
		name, errs := p.parseIdentifier()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		writeRegs = append(writeRegs, name)
	}
	//
	if _, errs = p.expect(LESS_THAN_EQUALS); len(errs) > 0 {
		return nil, errs
	}
	// Parse optional assignment register, as in "A <=X= 1;"
	if p.following(IDENTIFIER, EQUALS) {
		name, _ := p.parseIdentifier()
		p.expect(EQUALS)
		//
		assignReg = util.Some(name)
	}
	//
	if value, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &Assignment{p.spanOf(start, p.index - 1), writeRegs, assignReg, value}, nil
}

func (p *Parser) parseInvocation() (Statement, []source.SyntaxError) {
	var (
		start = p.index
		args  []pil.Expr
		arg   pil.Expr
	)
	//
	name, errs := p.parseIdentifier()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Parse arguments (if any)
	for p.lookahead().Kind != SEMICOLON {
		if len(args) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if arg, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	// Advance past ";"
	p.match(SEMICOLON)
	//
	return &Instruction{p.spanOf(start, p.index - 1), name, args}, nil
}

// ============================================================================
// Expressions
// ============================================================================

// Binary operators by ascending precedence level.  Operators on the same
// level associate to the left.
var binaryLevels = []map[uint]pil.BinaryOp{
	{BITOR: pil.BITOR, BITAND: pil.BITAND, SHL: pil.SHL, SHR: pil.SHR},
	{ADD: pil.ADD, SUB: pil.SUB},
	{MUL: pil.MUL, DIV: pil.DIV, MOD: pil.MOD},
	{POW: pil.POW},
}

func (p *Parser) parseExpr() (pil.Expr, []source.SyntaxError) {
	return p.parseBinaryExpr(0)
}

func (p *Parser) parseBinaryExpr(level int) (pil.Expr, []source.SyntaxError) {
	if level == len(binaryLevels) {
		return p.parseUnaryExpr()
	}
	//
	expr, errs := p.parseBinaryExpr(level + 1)
	//
	for len(errs) == 0 {
		op, ok := binaryLevels[level][p.lookahead().Kind]
		//
		if !ok {
			break
		}
		// Consume operator
		p.match(p.lookahead().Kind)
		//
		rhs, rhsErrs := p.parseBinaryExpr(level + 1)
		//
		if len(rhsErrs) > 0 {
			return nil, rhsErrs
		}
		//
		expr = pil.BuildBinary(expr, op, rhs)
	}
	//
	return expr, errs
}

func (p *Parser) parseUnaryExpr() (pil.Expr, []source.SyntaxError) {
	if p.match(SUB) {
		expr, errs := p.parseUnaryExpr()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return pil.BuildUnary(pil.MINUS, expr), nil
	}
	//
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() (pil.Expr, []source.SyntaxError) {
	var lookahead = p.lookahead()
	//
	switch lookahead.Kind {
	case NUMBER:
		p.match(NUMBER)
		//
		value, err := strconv.ParseInt(p.string(lookahead), 0, 64)
		//
		if err != nil {
			return nil, p.syntaxErrors(lookahead, "malformed numeric literal")
		}
		//
		return pil.NewNumber(value), nil
	case IDENTIFIER:
		return p.parseReferenceExpr()
	case FREE_INPUT_START:
		return p.parseFreeInput()
	case LBRACE:
		return p.parseBracketedExpr()
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
}

func (p *Parser) parseReferenceExpr() (pil.Expr, []source.SyntaxError) {
	name, _ := p.parseIdentifier()
	// A trailing quote denotes the value in the next row.
	if strings.HasSuffix(name, "'") {
		return pil.NextReference(strings.TrimSuffix(name, "'")), nil
	}
	// A reference followed by an open brace is a function call.
	if p.lookahead().Kind == LBRACE {
		return p.parseCallArgs(name)
	}
	//
	return pil.DirectReference(name), nil
}

func (p *Parser) parseCallArgs(name string) (pil.Expr, []source.SyntaxError) {
	var (
		args []pil.Expr
		arg  pil.Expr
		errs []source.SyntaxError
	)
	// Advance past "("
	p.match(LBRACE)
	//
	for p.lookahead().Kind != RBRACE {
		if len(args) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if arg, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	// Advance past ")"
	p.match(RBRACE)
	//
	return &pil.FunctionCall{Name: name, Args: args}, nil
}

func (p *Parser) parseFreeInput() (pil.Expr, []source.SyntaxError) {
	var errs []source.SyntaxError
	// Advance past "${"
	p.match(FREE_INPUT_START)
	// Check for unconstrained free input "${ }"
	if p.match(RCURLY) {
		return &pil.FreeInput{Arg: nil}, nil
	}
	//
	arg, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	return &pil.FreeInput{Arg: arg}, nil
}

func (p *Parser) parseBracketedExpr() (pil.Expr, []source.SyntaxError) {
	var errs []source.SyntaxError
	// Advance past "("
	p.match(LBRACE)
	//
	expr, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// A comma turns the bracketed expression into a tuple.
	if p.lookahead().Kind == COMMA {
		items := []pil.Expr{expr}
		//
		for p.match(COMMA) {
			if expr, errs = p.parseExpr(); len(errs) > 0 {
				return nil, errs
			}
			//
			items = append(items, expr)
		}
		//
		if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		//
		return &pil.Tuple{Items: items}, nil
	}
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return expr, nil
}

// ============================================================================
// Helpers
// ============================================================================

// FollowingAssignment checks whether the upcoming tokens form the left-hand
// side of an assignment, i.e. one or more comma-separated identifiers
// followed by "<=".
func (p *Parser) followingAssignment() bool {
	index := p.index
	//
	for index+1 < len(p.tokens) && p.tokens[index].Kind == IDENTIFIER {
		switch p.tokens[index+1].Kind {
		case COMMA:
			index += 2
		case LESS_THAN_EQUALS:
			return true
		default:
			return false
		}
	}
	//
	return false
}

func (p *Parser) parseKeyword(keyword string) []source.SyntaxError {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return errs
	} else if p.string(tok) != keyword {
		return p.syntaxErrors(tok, "expected \""+keyword+"\"")
	}
	//
	return nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Following attempts to check what follows the current position.
func (p *Parser) following(kinds ...uint) bool {
	for i, kind := range kinds {
		n := i + p.index
		if n >= len(p.tokens) {
			return false
		} else if p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
