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
	"github.com/zkasmlang/go-zkasm/pkg/util"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
	"github.com/zkasmlang/go-zkasm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "// ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// LSQUARE signals "["
const LSQUARE uint = 5

// RSQUARE signals "]"
const RSQUARE uint = 6

// LCURLY signals "{"
const LCURLY uint = 7

// RCURLY signals "}"
const RCURLY uint = 8

// COMMA signals ","
const COMMA uint = 9

// COLON signals ":"
const COLON uint = 10

// SEMICOLON signals ";"
const SEMICOLON uint = 11

// AT signals "@"
const AT uint = 12

// NUMBER signals an integer number
const NUMBER uint = 13

// IDENTIFIER signals a register, column or label name.
const IDENTIFIER uint = 14

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 15

// EQUALS signals "="
const EQUALS uint = 16

// ADD signals "+"
const ADD uint = 17

// SUB signals "-"
const SUB uint = 18

// MUL signals "*"
const MUL uint = 19

// DIV signals "/"
const DIV uint = 20

// MOD signals "%"
const MOD uint = 21

// POW signals "**"
const POW uint = 22

// BITAND signals "&"
const BITAND uint = 23

// BITOR signals "|"
const BITOR uint = 24

// SHL signals "<<"
const SHL uint = 25

// SHR signals ">>"
const SHR uint = 26

// FREE_INPUT_START signals "${"
const FREE_INPUT_START uint = 27

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Rule for describing decimal numbers
var number lex.Scanner[rune] = lex.Many(lex.Within('0', '9'))

// Rule for describing hexadecimal numbers
var hexNumber lex.Scanner[rune] = lex.Sequence(
	lex.Unit('0', 'x'),
	lex.Many(lex.Or(
		lex.Within('0', '9'),
		lex.Within('a', 'f'),
		lex.Within('A', 'F'))))

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('\''),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers.  A trailing quote marks a next-row
// reference and is handled by the parser.
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Comments start with '//' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.And(lex.Unit('/', '/'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('$', '{'), FREE_INPUT_START),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit('@'), AT),
	lex.Rule(lex.Unit('<', '='), LESS_THAN_EQUALS),
	lex.Rule(lex.Unit('<', '<'), SHL),
	lex.Rule(lex.Unit('>', '>'), SHR),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('*', '*'), POW),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.Unit('%'), MOD),
	lex.Rule(lex.Unit('&'), BITAND),
	lex.Rule(lex.Unit('|'), BITOR),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(hexNumber, NUMBER),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Remove any whitespace
	tokens = util.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == WHITESPACE })
	// Remove any comments
	tokens = util.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == COMMENT })
	// Done
	return tokens, nil
}
