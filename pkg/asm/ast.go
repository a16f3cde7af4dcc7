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
	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

// RegisterFlag classifies a register declaration.  Every register carries
// exactly one flag.
type RegisterFlag uint8

const (
	// NO_FLAG marks an ordinary register.
	NO_FLAG RegisterFlag = iota
	// PC_FLAG marks the program counter register.
	PC_FLAG
	// ASSIGNMENT_FLAG marks the default assignment register (the bus).
	ASSIGNMENT_FLAG
)

// Statement is a single statement of an assembly source file.  Statement is a
// closed sum: extending it requires updating every matcher.  Every statement
// retains the span of source text it was parsed from, which is used for error
// reporting and carried into emitted PIL positions.
type Statement interface {
	Span() source.Span
	isStatement()
}

// Program is a parsed assembly source file: an ordered sequence of
// statements, together with the file they came from.
type Program struct {
	Statements []Statement
	SourceFile *source.File
}

// ============================================================================
// RegisterDeclaration
// ============================================================================

// RegisterDeclaration introduces a new register, classified by its flag.
type RegisterDeclaration struct {
	Source source.Span
	Name   string
	Flag   RegisterFlag
}

// Span returns the source span this statement was parsed from.
func (p *RegisterDeclaration) Span() source.Span { return p.Source }

func (p *RegisterDeclaration) isStatement() {}

// ============================================================================
// InstructionDeclaration
// ============================================================================

// Param is a single declared instruction parameter.  A parameter either plays
// an assignment-register role (input and/or output on the bus) or carries a
// literal type tag (such as "label").
type Param struct {
	Name string
	// Input indicates this parameter reads its value from the bus.
	Input bool
	// Output indicates this parameter writes its value to the bus.
	Output bool
	// Type is the literal type tag, or empty when absent.
	Type string
}

// IsBusRole indicates whether this parameter travels over the assignment bus.
func (p *Param) IsBusRole() bool {
	return p.Input || p.Output
}

// InstructionDeclaration introduces a new instruction along with the
// constraints its body places on the registers whenever it executes.  Body
// equations "lhs = rhs" are represented as the expression "lhs - rhs".
type InstructionDeclaration struct {
	Source source.Span
	Name   string
	Params []Param
	Body   []pil.Expr
}

// Span returns the source span this statement was parsed from.
func (p *InstructionDeclaration) Span() source.Span { return p.Source }

func (p *InstructionDeclaration) isStatement() {}

// ============================================================================
// InlinePil
// ============================================================================

// InlinePil embeds a block of PIL statements verbatim into the compiled
// output, at its relative position amongst the other declarations.
type InlinePil struct {
	Source     source.Span
	Statements []pil.Statement
}

// Span returns the source span this statement was parsed from.
func (p *InlinePil) Span() source.Span { return p.Source }

func (p *InlinePil) isStatement() {}

// ============================================================================
// Assignment
// ============================================================================

// Assignment writes the value of an expression into zero or more registers,
// routed through an (optionally named) assignment register.
type Assignment struct {
	Source    source.Span
	WriteRegs []string
	AssignReg util.Option[string]
	Value     pil.Expr
}

// Span returns the source span this statement was parsed from.
func (p *Assignment) Span() source.Span { return p.Source }

func (p *Assignment) isStatement() {}

// ============================================================================
// Instruction
// ============================================================================

// Instruction invokes a previously declared instruction with a list of
// argument expressions aligned to its parameters.
type Instruction struct {
	Source source.Span
	Name   string
	Args   []pil.Expr
}

// Span returns the source span this statement was parsed from.
func (p *Instruction) Span() source.Span { return p.Source }

func (p *Instruction) isStatement() {}

// ============================================================================
// Label
// ============================================================================

// Label names a position in the program.  A label occupies a code line of its
// own, and references to it resolve to the index of that line.
type Label struct {
	Source source.Span
	Name   string
}

// Span returns the source span this statement was parsed from.
func (p *Label) Span() source.Span { return p.Source }

func (p *Label) isStatement() {}
