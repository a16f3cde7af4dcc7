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
	"testing"

	"github.com/zkasmlang/go-zkasm/pkg/util/assert"
)

func TestExprPrinting(t *testing.T) {
	assert.Equal(t, "-42", NewNumber(-42).String())
	assert.Equal(t, "pc", DirectReference("pc").String())
	assert.Equal(t, "pc'", NextReference("pc").String())
	assert.Equal(t, "(pc + 1)", BuildAdd(DirectReference("pc"), NewNumber(1)).String())
	assert.Equal(t, "(1 - (X * XInv))",
		BuildSub(NewNumber(1), BuildMul(DirectReference("X"), DirectReference("XInv"))).String())
	assert.Equal(t, "(-A)", BuildUnary(MINUS, DirectReference("A")).String())
	assert.Equal(t, "${ }", (&FreeInput{}).String())
	assert.Equal(t, "${ input(0) }",
		(&FreeInput{&FunctionCall{"input", []Expr{NewNumber(0)}}}).String())
	assert.Equal(t, "(A, B)",
		(&Tuple{[]Expr{DirectReference("A"), DirectReference("B")}}).String())
	assert.Equal(t, ":root", (&PublicReference{"root"}).String())
}

// Operand order and associativity are preserved exactly as built; no
// reordering or folding may ever occur.
func TestExprNoNormalisation(t *testing.T) {
	lhs := BuildAdd(BuildAdd(DirectReference("a"), DirectReference("b")), DirectReference("c"))
	rhs := BuildAdd(DirectReference("a"), BuildAdd(DirectReference("b"), DirectReference("c")))
	//
	assert.Equal(t, "((a + b) + c)", lhs.String())
	assert.Equal(t, "(a + (b + c))", rhs.String())
	assert.Equal(t, "(2 + 2)", BuildAdd(NewNumber(2), NewNumber(2)).String())
}

func TestSubstitute(t *testing.T) {
	mapping := map[string]string{"l": "instr_jmp_param_l"}
	expr := BuildSub(NextReference("pc"), DirectReference("l"))
	//
	assert.Equal(t, "(pc' - instr_jmp_param_l)", Substitute(expr, mapping).String())
	// Input is never mutated
	assert.Equal(t, "(pc' - l)", expr.String())
}

// Substituting the empty mapping is the structural identity.
func TestSubstituteEmptyMapping(t *testing.T) {
	exprs := []Expr{
		NewNumber(7),
		NextReference("pc"),
		BuildAdd(DirectReference("A"), BuildMul(DirectReference("B"), NewNumber(2))),
		BuildUnary(MINUS, DirectReference("A")),
		&FreeInput{DirectReference("A")},
		&FunctionCall{"input", []Expr{NewNumber(0)}},
		&Tuple{[]Expr{DirectReference("A"), NewNumber(1)}},
		&StringLiteral{"hello"},
		&Constant{"N"},
		&PublicReference{"root"},
	}
	//
	for _, expr := range exprs {
		assert.Equal(t, expr, Substitute(expr, map[string]string{}))
	}
}

// Substitution only rewrites reference names; namespaces, indices and
// next-flags pass through unchanged, as do non-reference leaves.
func TestSubstitutePassesThrough(t *testing.T) {
	mapping := map[string]string{"A": "B", "f": "g"}
	// Free input queries are opaque to substitution
	assert.Equal(t, "${ A }", Substitute(&FreeInput{DirectReference("A")}, mapping).String())
	// Constants are not references
	assert.Equal(t, "A", Substitute(&Constant{"A"}, mapping).String())
	// Next flag survives
	assert.Equal(t, "B'", Substitute(NextReference("A"), mapping).String())
	// Function names are not references
	assert.Equal(t, "f(B)",
		Substitute(&FunctionCall{"f", []Expr{DirectReference("A")}}, mapping).String())
}

func TestStatementPrinting(t *testing.T) {
	assert.Equal(t, "pol commit X;", NewCommitDeclaration(0, "X").String())
	assert.Equal(t, "pol commit A, B;", (&CommitDeclaration{0, []string{"A", "B"}}).String())
	//
	def := &Definition{0, "XIsZero",
		BuildSub(NewNumber(1), BuildMul(DirectReference("X"), DirectReference("XInv")))}
	assert.Equal(t, "pol XIsZero = (1 - (X * XInv));", def.String())
	// Identities over a subtraction render equationally
	identity := &Identity{0, BuildSub(NextReference("pc"), NewNumber(0))}
	assert.Equal(t, "pc' = 0;", identity.String())
	// All others render against zero
	identity = &Identity{0, BuildMul(DirectReference("XIsZero"), DirectReference("X"))}
	assert.Equal(t, "(XIsZero * X) = 0;", identity.String())
	//
	mapping := &ConstantDefinition{0, "line",
		&MappingDefinition{[]string{"i"}, DirectReference("i")}}
	assert.Equal(t, "pol constant line(i) { i };", mapping.String())
	//
	array := &ConstantDefinition{0, "p_reg_write_A",
		&ArrayDefinition{[]Expr{NewNumber(0), NewNumber(1), NewNumber(-1)}}}
	assert.Equal(t, "pol constant p_reg_write_A = [0, 1, -1];", array.String())
	//
	plookup := &PlookupIdentity{0,
		SelectedExpressions{Expressions: []Expr{DirectReference("pc")}},
		SelectedExpressions{Expressions: []Expr{DirectReference("line")}}}
	assert.Equal(t, "{ pc } in { line };", plookup.String())
}
