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
	"strings"
	"testing"

	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util/assert"
)

// Every witness column matched by the connecting plookup is declared exactly
// once, and every fixed column it matches is defined exactly once with one
// row per code line.
func Test_ColumnDeclarationCompleteness(t *testing.T) {
	var (
		file      = compileTestFile(t, "simple_sum")
		witnesses = witnessColumns(file)
		fixed     = fixedColumns(file)
		plookup   = findPlookup(t, file)
		codeLines = 9
	)
	//
	for _, expr := range plookup.Left.Expressions {
		name := expr.(*pil.PolynomialReference).Name
		assert.Equal(t, 1, witnesses[name], "witness column %s", name)
	}
	//
	for _, expr := range plookup.Right.Expressions {
		name := expr.(*pil.PolynomialReference).Name
		def, ok := fixed[name]
		//
		assert.Equal(t, true, ok, "fixed column %s", name)
		// Array-defined columns have one row per code line.
		if array, ok := def.(*pil.ArrayDefinition); ok {
			assert.Equal(t, codeLines, len(array.Values), "fixed column %s", name)
		}
	}
}

// Exactly one register-next identity constrains the program counter.
func Test_PcIdentityUniqueness(t *testing.T) {
	var (
		file  = compileTestFile(t, "simple_sum")
		count = 0
	)
	//
	for _, stmt := range file.Statements {
		if identity, ok := stmt.(*pil.Identity); ok {
			if name, ok := nextUpdateTarget(identity); ok && name == "pc" {
				count++
			}
		}
	}
	//
	assert.Equal(t, 1, count)
}

// The bus identity mentions every non-bus register exactly once (inside its
// read coefficient product) and no undeclared column.
func Test_AssignmentBusClosure(t *testing.T) {
	var (
		file      = compileTestFile(t, "simple_sum")
		witnesses = witnessColumns(file)
		registers = []string{"A", "CNT", "pc"}
		rhs       pil.Expr
	)
	// Find the bus identity
	for _, stmt := range file.Statements {
		if identity, ok := stmt.(*pil.Identity); ok {
			if name, ok := directUpdateTarget(identity); ok && name == "X" {
				rhs = identity.Expr.(*pil.BinaryOperation).Right
				break
			}
		}
	}
	//
	if rhs == nil {
		t.Fatal("missing bus identity")
	}
	//
	mentions := make(map[string]int)
	countReferences(rhs, mentions)
	//
	for _, register := range registers {
		assert.Equal(t, 1, mentions[register], "register %s", register)
		assert.Equal(t, 1, mentions["read_X_"+register], "read column for %s", register)
	}
	// Every mentioned column must be declared
	for name := range mentions {
		assert.Equal(t, 1, witnesses[name], "column %s", name)
	}
}

// At most one instruction fires per program line, and write flags are
// boolean.
func Test_RomRowSums(t *testing.T) {
	var (
		file  = compileTestFile(t, "simple_sum")
		fixed = fixedColumns(file)
		sums  = make(map[int]int64)
	)
	//
	for name, def := range fixed {
		array, ok := def.(*pil.ArrayDefinition)
		//
		if !ok {
			continue
		}
		//
		switch {
		case strings.HasPrefix(name, "p_instr_") && !strings.Contains(name, "_param_"):
			for i, value := range array.Values {
				sums[i] += value.(*pil.Number).Value
			}
		case strings.HasPrefix(name, "p_reg_write_"):
			for _, value := range array.Values {
				bit := value.(*pil.Number).Value
				assert.Equal(t, true, bit == 0 || bit == 1, "non-boolean write flag in %s", name)
			}
		}
	}
	//
	for i, sum := range sums {
		assert.Equal(t, true, sum == 0 || sum == 1, "row %d activates %d instructions", i, sum)
	}
}

// Label arguments resolve to the code-line index of the referenced label.
func Test_LabelSubstitution(t *testing.T) {
	var (
		file  = compileTestFile(t, "simple_sum")
		fixed = fixedColumns(file)
	)
	// Line 2 jumps to "end" (line 6); line 5 jumps to "start" (line 1).
	jmpz := fixed["p_instr_jmpz_param_l"].(*pil.ArrayDefinition)
	assert.Equal(t, int64(6), jmpz.Values[2].(*pil.Number).Value)
	//
	jmp := fixed["p_instr_jmp_param_l"].(*pil.ArrayDefinition)
	assert.Equal(t, int64(1), jmp.Values[5].(*pil.Number).Value)
}

// ===================================================================
// Test Helpers
// ===================================================================

func compileTestFile(t *testing.T, test string) *pil.File {
	t.Helper()
	//
	srcfile := readTestFile(t, test)
	file, errs := CompileSourceFile(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("error compiling %s.asm: %v\n", test, errs)
	}
	//
	return file
}

// WitnessColumns counts, for each name, how many witness declarations the
// file contains for it.
func witnessColumns(file *pil.File) map[string]int {
	counts := make(map[string]int)
	//
	for _, stmt := range file.Statements {
		if decl, ok := stmt.(*pil.CommitDeclaration); ok {
			for _, name := range decl.Names {
				counts[name]++
			}
		} else if def, ok := stmt.(*pil.Definition); ok {
			// Intermediate polynomials are declared columns too.
			counts[def.Name]++
		}
	}
	//
	return counts
}

// FixedColumns maps each fixed column to its definition.
func fixedColumns(file *pil.File) map[string]pil.FunctionDefinition {
	columns := make(map[string]pil.FunctionDefinition)
	//
	for _, stmt := range file.Statements {
		if def, ok := stmt.(*pil.ConstantDefinition); ok {
			columns[def.Name] = def.Def
		}
	}
	//
	return columns
}

func findPlookup(t *testing.T, file *pil.File) *pil.PlookupIdentity {
	t.Helper()
	//
	for _, stmt := range file.Statements {
		if plookup, ok := stmt.(*pil.PlookupIdentity); ok {
			return plookup
		}
	}
	//
	t.Fatal("missing plookup identity")
	//
	return nil
}

// NextUpdateTarget determines whether an identity has the form "r' - rhs",
// returning the register name if so.
func nextUpdateTarget(identity *pil.Identity) (string, bool) {
	if sub, ok := identity.Expr.(*pil.BinaryOperation); ok && sub.Op == pil.SUB {
		if ref, ok := sub.Left.(*pil.PolynomialReference); ok && ref.Next {
			return ref.Name, true
		}
	}
	//
	return "", false
}

// DirectUpdateTarget determines whether an identity has the form "r - rhs"
// over a current-row reference, returning the column name if so.
func directUpdateTarget(identity *pil.Identity) (string, bool) {
	if sub, ok := identity.Expr.(*pil.BinaryOperation); ok && sub.Op == pil.SUB {
		if ref, ok := sub.Left.(*pil.PolynomialReference); ok && !ref.Next {
			return ref.Name, true
		}
	}
	//
	return "", false
}

// CountReferences walks an expression, counting how often each column name is
// referenced.
func countReferences(expr pil.Expr, counts map[string]int) {
	switch e := expr.(type) {
	case *pil.PolynomialReference:
		counts[e.Name]++
	case *pil.BinaryOperation:
		countReferences(e.Left, counts)
		countReferences(e.Right, counts)
	case *pil.UnaryOperation:
		countReferences(e.Arg, counts)
	case *pil.FunctionCall:
		for _, arg := range e.Args {
			countReferences(arg, counts)
		}
	case *pil.Tuple:
		for _, item := range e.Items {
			countReferences(item, counts)
		}
	}
}
