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
	"fmt"

	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

// ErrorKind classifies the ways in which compilation can fail.  All kinds are
// fatal: no partial PIL is ever produced.
type ErrorKind uint8

const (
	// ErrDuplicateFlagRegister indicates two pc registers, or two default
	// assignment registers, were declared.
	ErrDuplicateFlagRegister ErrorKind = iota
	// ErrUnsupportedAssignmentExpression indicates an expression form which
	// cannot be carried by the assignment bus (e.g. a multiplication).
	ErrUnsupportedAssignmentExpression
	// ErrUnsupportedParamKind indicates an instruction parameter which plays
	// no bus role and whose type tag is not "label".
	ErrUnsupportedParamKind
	// ErrNonReferenceLabelArg indicates a label-typed argument which is not a
	// bare polynomial reference.
	ErrNonReferenceLabelArg
	// ErrArity indicates an argument count mismatch between an invocation
	// and the corresponding declaration.
	ErrArity
	// ErrUnknownLabel indicates a label-typed argument referencing a name
	// absent from the program.
	ErrUnknownLabel
	// ErrMultiWriteUnsupported indicates an assignment with more than one
	// write register.
	ErrMultiWriteUnsupported
	// ErrUnknownInstruction indicates an invocation of an undeclared
	// instruction.
	ErrUnknownInstruction
	// ErrUnknownRegister indicates a register name which was never declared
	// (or which cannot be written).
	ErrUnknownRegister
	// ErrMultiBusParam indicates an instruction declared with more than one
	// bus-role parameter.
	ErrMultiBusParam
	// ErrNoAssignmentRegister indicates the default assignment register was
	// needed before (or without) being declared.
	ErrNoAssignmentRegister
)

// String returns a short name for this error kind.
func (kind ErrorKind) String() string {
	switch kind {
	case ErrDuplicateFlagRegister:
		return "duplicate flag register"
	case ErrUnsupportedAssignmentExpression:
		return "unsupported assignment expression"
	case ErrUnsupportedParamKind:
		return "unsupported parameter kind"
	case ErrNonReferenceLabelArg:
		return "non-reference label argument"
	case ErrArity:
		return "arity mismatch"
	case ErrUnknownLabel:
		return "unknown label"
	case ErrMultiWriteUnsupported:
		return "multiple write registers unsupported"
	case ErrUnknownInstruction:
		return "unknown instruction"
	case ErrUnknownRegister:
		return "unknown register"
	case ErrMultiBusParam:
		return "multiple bus parameters unsupported"
	case ErrNoAssignmentRegister:
		return "no assignment register"
	default:
		panic("unknown error kind")
	}
}

// Error is a structured compilation error.  It retains the span of the
// offending source construct, such that callers can highlight it.
type Error struct {
	Kind ErrorKind
	Msg  string
	Span source.Span
}

// Error implements the error interface.
func (p *Error) Error() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Msg)
}

// SyntaxError converts this error into a syntax error against the given
// source file.
func (p *Error) SyntaxError(srcfile *source.File) *source.SyntaxError {
	return srcfile.SyntaxError(p.Span, p.Error())
}

func errorf(kind ErrorKind, span source.Span, format string, args ...any) *Error {
	return &Error{kind, fmt.Sprintf(format, args...), span}
}
