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
package pil

import (
	"fmt"
	"strings"
)

// Statement is a single top-level PIL statement.  Statement is a closed sum:
// extending it requires updating every matcher.  Each statement retains the
// offset of the source construct it originated from; offsets are opaque to
// rendering and exist purely for tooling.
type Statement interface {
	fmt.Stringer
	// Offset returns the source offset this statement originated from.
	Offset() int
}

// File is an ordered sequence of PIL statements.  Rendering a file renders
// each statement on its own line, in the exact order they were appended.
type File struct {
	Statements []Statement
}

func (p *File) String() string {
	var builder strings.Builder
	//
	for _, stmt := range p.Statements {
		builder.WriteString(stmt.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// ============================================================================
// CommitDeclaration
// ============================================================================

// CommitDeclaration declares one or more committed (witness) columns.
type CommitDeclaration struct {
	Start int
	Names []string
}

// NewCommitDeclaration constructs a declaration for a single witness column.
func NewCommitDeclaration(start int, name string) *CommitDeclaration {
	return &CommitDeclaration{start, []string{name}}
}

// Offset returns the source offset this statement originated from.
func (p *CommitDeclaration) Offset() int {
	return p.Start
}

func (p *CommitDeclaration) String() string {
	return fmt.Sprintf("pol commit %s;", strings.Join(p.Names, ", "))
}

// ============================================================================
// Definition
// ============================================================================

// Definition declares an intermediate polynomial defined by an expression
// over other columns.
type Definition struct {
	Start int
	Name  string
	Value Expr
}

// Offset returns the source offset this statement originated from.
func (p *Definition) Offset() int {
	return p.Start
}

func (p *Definition) String() string {
	return fmt.Sprintf("pol %s = %s;", p.Name, p.Value)
}

// ============================================================================
// ConstantDefinition
// ============================================================================

// FunctionDefinition gives the rows of a fixed column, either pointwise as an
// array of values or intensionally as a mapping from row index to value.
type FunctionDefinition interface {
	isFunctionDefinition()
}

// ArrayDefinition defines a fixed column by listing its rows.
type ArrayDefinition struct {
	Values []Expr
}

func (p *ArrayDefinition) isFunctionDefinition() {}

// MappingDefinition defines a fixed column as a function of the row index.
type MappingDefinition struct {
	Params []string
	Body   Expr
}

func (p *MappingDefinition) isFunctionDefinition() {}

// ConstantDefinition declares a fixed (constant) column.
type ConstantDefinition struct {
	Start int
	Name  string
	Def   FunctionDefinition
}

// Offset returns the source offset this statement originated from.
func (p *ConstantDefinition) Offset() int {
	return p.Start
}

func (p *ConstantDefinition) String() string {
	switch def := p.Def.(type) {
	case *ArrayDefinition:
		return fmt.Sprintf("pol constant %s = [%s];", p.Name, joinExprs(def.Values))
	case *MappingDefinition:
		return fmt.Sprintf("pol constant %s(%s) { %s };",
			p.Name, strings.Join(def.Params, ", "), def.Body)
	default:
		panic("unknown function definition")
	}
}

// ============================================================================
// Identity
// ============================================================================

// Identity asserts that an expression evaluates to zero on every row.  An
// identity whose top-level node is a subtraction renders in its equational
// form "lhs = rhs;"; all others render as "expr = 0;".
type Identity struct {
	Start int
	Expr  Expr
}

// Offset returns the source offset this statement originated from.
func (p *Identity) Offset() int {
	return p.Start
}

func (p *Identity) String() string {
	if sub, ok := p.Expr.(*BinaryOperation); ok && sub.Op == SUB {
		return fmt.Sprintf("%s = %s;", sub.Left, sub.Right)
	}
	//
	return fmt.Sprintf("%s = 0;", p.Expr)
}

// ============================================================================
// PlookupIdentity
// ============================================================================

// SelectedExpressions is a list of expressions with an optional selector.
type SelectedExpressions struct {
	// Selector is nil when absent.
	Selector Expr
	//
	Expressions []Expr
}

func (p *SelectedExpressions) String() string {
	if p.Selector != nil {
		return fmt.Sprintf("%s { %s }", p.Selector, joinExprs(p.Expressions))
	}
	//
	return fmt.Sprintf("{ %s }", joinExprs(p.Expressions))
}

// PlookupIdentity asserts that, on every row, the tuple of values on the left
// appears as a row of the table given on the right.
type PlookupIdentity struct {
	Start int
	Left  SelectedExpressions
	Right SelectedExpressions
}

// Offset returns the source offset this statement originated from.
func (p *PlookupIdentity) Offset() int {
	return p.Start
}

func (p *PlookupIdentity) String() string {
	return fmt.Sprintf("%s in %s;", &p.Left, &p.Right)
}
