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
	"testing"

	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util/assert"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

var span = source.NewSpan(0, 0)

func reduce(t *testing.T, expr pil.Expr) AssignmentValue {
	t.Helper()
	//
	value, err := ReduceAssignmentValue(expr, span)
	//
	if err != nil {
		t.Fatalf("unexpected reduction error: %v", err)
	}
	//
	return value
}

func TestReduceNumber(t *testing.T) {
	value := reduce(t, pil.NewNumber(42))
	//
	assert.Equal(t, AssignmentValue{{42, &ConstantAccess{}}}, value)
}

func TestReduceRegister(t *testing.T) {
	value := reduce(t, pil.DirectReference("A"))
	//
	assert.Equal(t, AssignmentValue{{1, &RegisterAccess{"A"}}}, value)
}

func TestReduceFreeInput(t *testing.T) {
	value := reduce(t, &pil.FreeInput{})
	//
	assert.Equal(t, AssignmentValue{{1, &FreeInputAccess{}}}, value)
}

func TestReduceSum(t *testing.T) {
	// A + 2 - B
	expr := pil.BuildSub(
		pil.BuildAdd(pil.DirectReference("A"), pil.NewNumber(2)),
		pil.DirectReference("B"))
	//
	assert.Equal(t, AssignmentValue{
		{1, &RegisterAccess{"A"}},
		{2, &ConstantAccess{}},
		{-1, &RegisterAccess{"B"}},
	}, reduce(t, expr))
}

func TestReduceNegation(t *testing.T) {
	// -(A - 2)
	expr := pil.BuildUnary(pil.MINUS,
		pil.BuildSub(pil.DirectReference("A"), pil.NewNumber(2)))
	//
	assert.Equal(t, AssignmentValue{
		{-1, &RegisterAccess{"A"}},
		{2, &ConstantAccess{}},
	}, reduce(t, expr))
}

// Reducing a double negation yields exactly the original value: same
// coefficients, same components, same order.
func TestReduceNegationInvolution(t *testing.T) {
	exprs := []pil.Expr{
		pil.NewNumber(7),
		pil.DirectReference("A"),
		pil.BuildSub(
			pil.BuildAdd(pil.DirectReference("A"), &pil.FreeInput{}),
			pil.NewNumber(3)),
	}
	//
	for _, expr := range exprs {
		doubleNegated := pil.BuildUnary(pil.MINUS, pil.BuildUnary(pil.MINUS, expr))
		//
		assert.Equal(t, reduce(t, expr), reduce(t, doubleNegated))
	}
}

// Terms over the same register are appended in source order, never combined.
func TestReduceDuplicateTermsPreserved(t *testing.T) {
	expr := pil.BuildAdd(pil.DirectReference("A"), pil.DirectReference("A"))
	//
	assert.Equal(t, AssignmentValue{
		{1, &RegisterAccess{"A"}},
		{1, &RegisterAccess{"A"}},
	}, reduce(t, expr))
}

func TestReduceUnsupported(t *testing.T) {
	exprs := []pil.Expr{
		pil.BuildMul(pil.DirectReference("A"), pil.DirectReference("B")),
		pil.BuildBinary(pil.DirectReference("A"), pil.DIV, pil.NewNumber(2)),
		pil.BuildBinary(pil.DirectReference("A"), pil.MOD, pil.NewNumber(2)),
		pil.BuildBinary(pil.DirectReference("A"), pil.POW, pil.NewNumber(2)),
		pil.BuildBinary(pil.DirectReference("A"), pil.BITAND, pil.NewNumber(1)),
		pil.BuildBinary(pil.DirectReference("A"), pil.BITOR, pil.NewNumber(1)),
		pil.BuildBinary(pil.DirectReference("A"), pil.SHL, pil.NewNumber(1)),
		pil.BuildBinary(pil.DirectReference("A"), pil.SHR, pil.NewNumber(1)),
		pil.NextReference("A"),
		&pil.PublicReference{Name: "root"},
		&pil.StringLiteral{Value: "hello"},
		&pil.Constant{Name: "N"},
		&pil.FunctionCall{Name: "f", Args: []pil.Expr{pil.NewNumber(1)}},
		&pil.Tuple{Items: []pil.Expr{pil.NewNumber(1)}},
	}
	//
	for _, expr := range exprs {
		_, err := ReduceAssignmentValue(expr, span)
		//
		if err == nil {
			t.Fatalf("expected reduction of %s to fail", expr)
		}
		//
		assert.Equal(t, ErrUnsupportedAssignmentExpression, err.Kind)
	}
}
