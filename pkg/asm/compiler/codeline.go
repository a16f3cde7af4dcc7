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
	"github.com/zkasmlang/go-zkasm/pkg/asm"
	"github.com/zkasmlang/go-zkasm/pkg/util"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

// Instruction records the parameter shape of a declared instruction.
type Instruction struct {
	Params []asm.Param
}

// CodeLine is one row of the program: a bare label, an assignment, or an
// instruction invocation.  All three carriers share this one struct with
// optional fields.
type CodeLine struct {
	// WriteReg names the register written by an assignment.
	WriteReg util.Option[string]
	// Value is the reduced assignment value carried by the bus on this
	// line (if any).
	Value AssignmentValue
	// Label names this position, if the line is a bare label.
	Label util.Option[string]
	// Instruction names the invoked instruction (if any).
	Instruction util.Option[string]
	// InstructionLiteralArgs aligns literal arguments with the declared
	// parameters; positions holding no literal are empty.  It is only
	// non-empty when Instruction is set.
	InstructionLiteralArgs []util.Option[string]
	// Span of the source construct this line was built from.
	Span source.Span
}
