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
	"strconv"
	"strings"

	"github.com/zkasmlang/go-zkasm/pkg/util"
)

// Expr represents an arbitrary expression over the polynomial columns of a
// constraint system.  Expressions are strictly acyclic trees with unique
// ownership (each subexpression has exactly one parent) and, once built, are
// never mutated.  No normalisation or constant folding is applied anywhere:
// the textual rendering of an expression reproduces exactly the shape in
// which it was built.
type Expr interface {
	fmt.Stringer
	// Marker distinguishing expressions from other stringers.  Expr is a
	// closed sum: extending it requires updating every matcher.
	isExpr()
}

// BinaryOp identifies a binary operator.
type BinaryOp uint8

// Binary operators.
const (
	ADD BinaryOp = iota
	SUB
	MUL
	DIV
	MOD
	POW
	BITAND
	BITOR
	SHL
	SHR
)

// String returns the source-level symbol for this operator.
func (op BinaryOp) String() string {
	switch op {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case MOD:
		return "%"
	case POW:
		return "**"
	case BITAND:
		return "&"
	case BITOR:
		return "|"
	case SHL:
		return "<<"
	case SHR:
		return ">>"
	default:
		panic("unknown binary operator")
	}
}

// UnaryOp identifies a unary operator.
type UnaryOp uint8

// MINUS is (currently) the only unary operator.
const MINUS UnaryOp = 0

// ============================================================================
// Number
// ============================================================================

// Number is an integer literal.
type Number struct {
	Value int64
}

func (e *Number) isExpr() {}

func (e *Number) String() string {
	return strconv.FormatInt(e.Value, 10)
}

// ============================================================================
// PolynomialReference
// ============================================================================

// PolynomialReference refers to a polynomial column, possibly within another
// namespace and possibly at a given array index.  When Next is set, the
// reference denotes the value of the column in the following row; such
// references only make sense in positions defining a register update.
type PolynomialReference struct {
	Namespace util.Option[string]
	Name      string
	Index     util.Option[uint]
	Next      bool
}

func (e *PolynomialReference) isExpr() {}

func (e *PolynomialReference) String() string {
	var builder strings.Builder
	//
	if e.Namespace.HasValue() {
		builder.WriteString(e.Namespace.Unwrap())
		builder.WriteString(".")
	}
	//
	builder.WriteString(e.Name)
	//
	if e.Index.HasValue() {
		builder.WriteString(fmt.Sprintf("[%d]", e.Index.Unwrap()))
	}
	//
	if e.Next {
		builder.WriteString("'")
	}
	//
	return builder.String()
}

// ============================================================================
// PublicReference
// ============================================================================

// PublicReference refers to a declared public value.
type PublicReference struct {
	Name string
}

func (e *PublicReference) isExpr() {}

func (e *PublicReference) String() string {
	return ":" + e.Name
}

// ============================================================================
// StringLiteral
// ============================================================================

// StringLiteral is a string literal.
type StringLiteral struct {
	Value string
}

func (e *StringLiteral) isExpr() {}

func (e *StringLiteral) String() string {
	return strconv.Quote(e.Value)
}

// ============================================================================
// Constant
// ============================================================================

// Constant refers to a named compile-time constant.
type Constant struct {
	Name string
}

func (e *Constant) isExpr() {}

func (e *Constant) String() string {
	return e.Name
}

// ============================================================================
// FreeInput
// ============================================================================

// FreeInput is a prover-supplied value queried at witness-generation time.
// The argument describes the query and may be nil for an unconstrained free
// input.
type FreeInput struct {
	Arg Expr
}

func (e *FreeInput) isExpr() {}

func (e *FreeInput) String() string {
	if e.Arg == nil {
		return "${ }"
	}
	//
	return fmt.Sprintf("${ %s }", e.Arg)
}

// ============================================================================
// BinaryOperation
// ============================================================================

// BinaryOperation applies a binary operator to two subexpressions.
type BinaryOperation struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (e *BinaryOperation) isExpr() {}

func (e *BinaryOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// ============================================================================
// UnaryOperation
// ============================================================================

// UnaryOperation applies a unary operator to a subexpression.
type UnaryOperation struct {
	Op  UnaryOp
	Arg Expr
}

func (e *UnaryOperation) isExpr() {}

func (e *UnaryOperation) String() string {
	return fmt.Sprintf("(-%s)", e.Arg)
}

// ============================================================================
// FunctionCall
// ============================================================================

// FunctionCall applies a named function to zero or more arguments.
type FunctionCall struct {
	Name string
	Args []Expr
}

func (e *FunctionCall) isExpr() {}

func (e *FunctionCall) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, joinExprs(e.Args))
}

// ============================================================================
// Tuple
// ============================================================================

// Tuple groups zero or more expressions together.
type Tuple struct {
	Items []Expr
}

func (e *Tuple) isExpr() {}

func (e *Tuple) String() string {
	return fmt.Sprintf("(%s)", joinExprs(e.Items))
}

// ============================================================================
// Builders
// ============================================================================

// NewNumber constructs an integer literal.
func NewNumber(value int64) Expr {
	return &Number{value}
}

// DirectReference constructs a reference to the current-row value of the
// named column.
func DirectReference(name string) *PolynomialReference {
	return &PolynomialReference{
		Namespace: util.None[string](),
		Name:      name,
		Index:     util.None[uint](),
		Next:      false,
	}
}

// NextReference constructs a reference to the next-row value of the named
// column.
func NextReference(name string) *PolynomialReference {
	return &PolynomialReference{
		Namespace: util.None[string](),
		Name:      name,
		Index:     util.None[uint](),
		Next:      true,
	}
}

// BuildBinary constructs a binary operation over two expressions.
func BuildBinary(left Expr, op BinaryOp, right Expr) Expr {
	return &BinaryOperation{left, op, right}
}

// BuildAdd constructs the sum of two expressions.
func BuildAdd(left Expr, right Expr) Expr {
	return BuildBinary(left, ADD, right)
}

// BuildSub constructs the difference of two expressions.
func BuildSub(left Expr, right Expr) Expr {
	return BuildBinary(left, SUB, right)
}

// BuildMul constructs the product of two expressions.
func BuildMul(left Expr, right Expr) Expr {
	return BuildBinary(left, MUL, right)
}

// BuildUnary constructs a unary operation over an expression.
func BuildUnary(op UnaryOp, arg Expr) Expr {
	return &UnaryOperation{op, arg}
}

// ============================================================================
// Substitution
// ============================================================================

// Substitute returns a copy of the given expression in which the name of
// every polynomial reference found in the mapping is replaced accordingly.
// Namespaces, array indices and next-flags pass through unchanged, as do all
// non-reference leaves.  The input expression is never mutated.
func Substitute(expr Expr, mapping map[string]string) Expr {
	switch e := expr.(type) {
	case *PolynomialReference:
		name := e.Name
		//
		if to, ok := mapping[name]; ok {
			name = to
		}
		//
		return &PolynomialReference{e.Namespace, name, e.Index, e.Next}
	case *BinaryOperation:
		return BuildBinary(Substitute(e.Left, mapping), e.Op, Substitute(e.Right, mapping))
	case *UnaryOperation:
		return BuildUnary(e.Op, Substitute(e.Arg, mapping))
	case *FunctionCall:
		return &FunctionCall{e.Name, substituteAll(e.Args, mapping)}
	case *Tuple:
		return &Tuple{substituteAll(e.Items, mapping)}
	default:
		// Remaining leaves (numbers, strings, constants, publics and free
		// inputs) pass through untouched.
		return expr
	}
}

func substituteAll(exprs []Expr, mapping map[string]string) []Expr {
	nexprs := make([]Expr, len(exprs))
	//
	for i, e := range exprs {
		nexprs[i] = Substitute(e, mapping)
	}
	//
	return nexprs
}

func joinExprs(exprs []Expr) string {
	strs := make([]string, len(exprs))
	//
	for i, e := range exprs {
		strs[i] = e.String()
	}
	//
	return strings.Join(strs, ", ")
}
