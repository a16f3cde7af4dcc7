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
	"testing"

	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util/assert"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

func parseString(t *testing.T, input string) *Program {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.asm", []byte(input))
	program, errs := Parse(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	//
	return program
}

func parseError(t *testing.T, input string) source.SyntaxError {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test.asm", []byte(input))
	_, errs := Parse(srcfile)
	//
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error")
	}
	//
	return errs[0]
}

func TestParseRegisterDeclarations(t *testing.T) {
	program := parseString(t, "reg X[<=]; reg A; reg pc[@pc];")
	//
	assert.Equal(t, 3, len(program.Statements))
	//
	bus := program.Statements[0].(*RegisterDeclaration)
	assert.Equal(t, "X", bus.Name)
	assert.Equal(t, ASSIGNMENT_FLAG, bus.Flag)
	//
	plain := program.Statements[1].(*RegisterDeclaration)
	assert.Equal(t, "A", plain.Name)
	assert.Equal(t, NO_FLAG, plain.Flag)
	//
	pc := program.Statements[2].(*RegisterDeclaration)
	assert.Equal(t, "pc", pc.Name)
	assert.Equal(t, PC_FLAG, pc.Flag)
}

func TestParseInstructionDeclaration(t *testing.T) {
	program := parseString(t,
		"instr jmpz v: in, l: label { pc' = XIsZero * l + (1 - XIsZero) * (pc + 1) }")
	//
	decl := program.Statements[0].(*InstructionDeclaration)
	assert.Equal(t, "jmpz", decl.Name)
	assert.Equal(t, []Param{{Name: "v", Input: true}, {Name: "l", Type: "label"}}, decl.Params)
	assert.Equal(t, 1, len(decl.Body))
	// Equations lower to subtractions
	assert.Equal(t, "(pc' - ((XIsZero * l) + ((1 - XIsZero) * (pc + 1))))",
		decl.Body[0].String())
}

func TestParseInstructionMultipleConstraints(t *testing.T) {
	program := parseString(t, "instr clr { A' = 0, B' = 0 }")
	//
	decl := program.Statements[0].(*InstructionDeclaration)
	assert.Equal(t, 2, len(decl.Body))
	assert.Equal(t, "(A' - 0)", decl.Body[0].String())
	assert.Equal(t, "(B' - 0)", decl.Body[1].String())
}

func TestParseAssignment(t *testing.T) {
	program := parseString(t, "A <=X= CNT - 1;")
	//
	stmt := program.Statements[0].(*Assignment)
	assert.Equal(t, []string{"A"}, stmt.WriteRegs)
	assert.Equal(t, true, stmt.AssignReg.HasValue())
	assert.Equal(t, "X", stmt.AssignReg.Unwrap())
	assert.Equal(t, "(CNT - 1)", stmt.Value.String())
}

func TestParseAssignmentWithoutAssignReg(t *testing.T) {
	program := parseString(t, "A <= 2;")
	//
	stmt := program.Statements[0].(*Assignment)
	assert.Equal(t, true, stmt.AssignReg.IsEmpty())
	assert.Equal(t, "2", stmt.Value.String())
}

func TestParseMultiWriteAssignment(t *testing.T) {
	program := parseString(t, "A, B <=X= 1;")
	//
	stmt := program.Statements[0].(*Assignment)
	assert.Equal(t, []string{"A", "B"}, stmt.WriteRegs)
}

func TestParseFreeInput(t *testing.T) {
	program := parseString(t, "A <=X= ${ }; B <=X= ${ input(0) };")
	//
	first := program.Statements[0].(*Assignment)
	assert.Equal(t, "${ }", first.Value.String())
	//
	second := program.Statements[1].(*Assignment)
	assert.Equal(t, "${ input(0) }", second.Value.String())
}

func TestParseInvocation(t *testing.T) {
	program := parseString(t, "dec_CNT; jmpz CNT, end;")
	//
	bare := program.Statements[0].(*Instruction)
	assert.Equal(t, "dec_CNT", bare.Name)
	assert.Equal(t, 0, len(bare.Args))
	//
	jmpz := program.Statements[1].(*Instruction)
	assert.Equal(t, "jmpz", jmpz.Name)
	assert.Equal(t, 2, len(jmpz.Args))
	assert.Equal(t, "CNT", jmpz.Args[0].String())
}

func TestParseLabel(t *testing.T) {
	program := parseString(t, "start: jmp start;")
	//
	label := program.Statements[0].(*Label)
	assert.Equal(t, "start", label.Name)
}

func TestParseDuplicateLabel(t *testing.T) {
	err := parseError(t, "start: start:")
	//
	assert.Equal(t, "label already declared", err.Message())
}

func TestParseInlinePil(t *testing.T) {
	program := parseString(t, `pil {
		pol commit XInv;
		pol XIsZero = 1 - X * XInv;
		XIsZero * X = 0;
		XIsZero = 1 - X * XInv;
	}`)
	//
	inline := program.Statements[0].(*InlinePil)
	assert.Equal(t, 4, len(inline.Statements))
	assert.Equal(t, "pol commit XInv;", inline.Statements[0].String())
	assert.Equal(t, "pol XIsZero = (1 - (X * XInv));", inline.Statements[1].String())
	// An identity against literal zero keeps its shape
	assert.Equal(t, "(XIsZero * X) = 0;", inline.Statements[2].String())
	// Other identities lower to subtractions, rendering equationally
	assert.Equal(t, "XIsZero = (1 - (X * XInv));", inline.Statements[3].String())
}

func TestParsePrecedence(t *testing.T) {
	program := parseString(t, "A <=X= 1 + 2 * 3;")
	//
	stmt := program.Statements[0].(*Assignment)
	assert.Equal(t, "(1 + (2 * 3))", stmt.Value.String())
	//
	program = parseString(t, "A <=X= -B + 1;")
	stmt = program.Statements[0].(*Assignment)
	assert.Equal(t, "((-B) + 1)", stmt.Value.String())
	//
	program = parseString(t, "A <=X= (1 + 2) * 3;")
	stmt = program.Statements[0].(*Assignment)
	assert.Equal(t, "((1 + 2) * 3)", stmt.Value.String())
}

func TestParseHexNumber(t *testing.T) {
	program := parseString(t, "A <=X= 0xff;")
	//
	stmt := program.Statements[0].(*Assignment)
	value := stmt.Value.(*pil.Number)
	assert.Equal(t, int64(255), value.Value)
}

func TestParseUnknownStatement(t *testing.T) {
	err := parseError(t, "42;")
	//
	assert.Equal(t, "unknown statement", err.Message())
}
