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
package compiler

import (
	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

// Component identifies what a term of an assignment value ranges over: a
// register, the constant wire, or a prover-supplied free input.  Component is
// a closed sum.
type Component interface {
	isComponent()
}

// RegisterAccess routes the current value of a register onto the bus.
type RegisterAccess struct {
	Name string
}

func (p *RegisterAccess) isComponent() {}

// ConstantAccess routes a program constant onto the bus.
type ConstantAccess struct{}

func (p *ConstantAccess) isComponent() {}

// FreeInputAccess routes a prover-supplied value onto the bus.  The
// underlying query is part of witness generation and never reaches the ROM.
type FreeInputAccess struct {
	Arg pil.Expr
}

func (p *FreeInputAccess) isComponent() {}

// Term is a single (coefficient, component) pair of an assignment value.
type Term struct {
	Coeff     int64
	Component Component
}

// AssignmentValue is the reduced form of an expression carried by the
// assignment bus: an ordered list of terms denoting their sum.  Terms over
// the same component are deliberately not combined; they appear in source
// order.
type AssignmentValue []Term

// ReduceAssignmentValue reduces an expression in an assignment-bus position
// into its affine terms.  Only linear forms are supported: sums, differences
// and negations of registers, numbers and free inputs.  Anything else fails
// with ErrUnsupportedAssignmentExpression.
func ReduceAssignmentValue(expr pil.Expr, span source.Span) (AssignmentValue, *Error) {
	switch e := expr.(type) {
	case *pil.Number:
		return AssignmentValue{{e.Value, &ConstantAccess{}}}, nil
	case *pil.PolynomialReference:
		if e.Namespace.HasValue() || e.Index.HasValue() || e.Next {
			return nil, errorf(ErrUnsupportedAssignmentExpression, span,
				"only plain register references can be assigned")
		}
		//
		return AssignmentValue{{1, &RegisterAccess{e.Name}}}, nil
	case *pil.FreeInput:
		return AssignmentValue{{1, &FreeInputAccess{e.Arg}}}, nil
	case *pil.BinaryOperation:
		return reduceBinaryOperation(e, span)
	case *pil.UnaryOperation:
		if e.Op != pil.MINUS {
			return nil, errorf(ErrUnsupportedAssignmentExpression, span,
				"unsupported unary operator in assignment")
		}
		//
		value, err := ReduceAssignmentValue(e.Arg, span)
		//
		if err != nil {
			return nil, err
		}
		//
		return value.Negate(), nil
	default:
		// Strings, tuples, public references, constants and function calls
		// have no affine meaning on the bus.
		return nil, errorf(ErrUnsupportedAssignmentExpression, span,
			"expression cannot be carried by the assignment bus")
	}
}

func reduceBinaryOperation(e *pil.BinaryOperation, span source.Span) (AssignmentValue, *Error) {
	// The bus is linear, hence only addition and subtraction are permitted
	// here.  In particular multiplication is rejected.
	if e.Op != pil.ADD && e.Op != pil.SUB {
		return nil, errorf(ErrUnsupportedAssignmentExpression, span,
			"unsupported operator \"%s\" in assignment", e.Op)
	}
	//
	left, err := ReduceAssignmentValue(e.Left, span)
	//
	if err != nil {
		return nil, err
	}
	//
	right, err := ReduceAssignmentValue(e.Right, span)
	//
	if err != nil {
		return nil, err
	}
	//
	if e.Op == pil.SUB {
		right = right.Negate()
	}
	//
	return left.Add(right), nil
}

// Add concatenates two assignment values.  No terms are combined or dropped.
func (p AssignmentValue) Add(other AssignmentValue) AssignmentValue {
	return append(p, other...)
}

// Negate flips the sign of every coefficient.
func (p AssignmentValue) Negate() AssignmentValue {
	nvalue := make(AssignmentValue, len(p))
	//
	for i, term := range p {
		nvalue[i] = Term{-term.Coeff, term.Component}
	}
	//
	return nvalue
}
