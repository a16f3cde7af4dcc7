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
	log "github.com/sirupsen/logrus"

	"github.com/zkasmlang/go-zkasm/pkg/asm"
	"github.com/zkasmlang/go-zkasm/pkg/pil"
	"github.com/zkasmlang/go-zkasm/pkg/util"
	"github.com/zkasmlang/go-zkasm/pkg/util/source"
)

// CompileSourceFile parses and compiles a given assembly source file into a
// PIL file, or produces one or more syntax errors.
func CompileSourceFile(srcfile *source.File) (*pil.File, []source.SyntaxError) {
	program, errs := asm.Parse(srcfile)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	file, err := Compile(program)
	//
	if err != nil {
		return nil, []source.SyntaxError{*err.SyntaxError(srcfile)}
	}
	//
	return file, nil
}

// Compile lowers a parsed assembly program into a PIL file: the committed and
// fixed column declarations, the algebraic identities binding one row to the
// next, and the plookup connecting the execution trace to the program ROM.
// Compilation either runs to completion or fails with a single error; no
// partial output is ever returned.
func Compile(program *asm.Program) (*pil.File, *Error) {
	converter := &converter{
		pcName:            util.None[string](),
		defaultAssignment: util.None[string](),
		registers:         make(map[string]*Register),
		instructions:      make(map[string]*Instruction),
	}
	//
	return converter.convert(program)
}

// Converter owns all intermediate state of a single compilation.  Nothing is
// shared across invocations.
type converter struct {
	// Accumulated output statements.
	pil []pil.Statement
	// Name of the program counter register (once declared).
	pcName util.Option[string]
	// Name of the default assignment register (once declared).
	defaultAssignment util.Option[string]
	// All declared registers, keyed by name.
	registers map[string]*Register
	// Register names in declaration order.
	registerOrder []string
	// All declared instructions, keyed by name.
	instructions map[string]*Instruction
	// The program being compiled, one entry per code line.
	codeLines []*CodeLine
	// Pairs of (witness, fixed) columns matched by the connecting plookup.
	lineLookup []util.Pair[string, string]
	// Names of fixed columns that make up the program ROM.
	programConstantNames []string
}

func (p *converter) convert(program *asm.Program) (*pil.File, *Error) {
	for _, stmt := range program.Statements {
		var err *Error
		//
		switch stmt := stmt.(type) {
		case *asm.RegisterDeclaration:
			err = p.handleRegisterDeclaration(stmt)
		case *asm.InstructionDeclaration:
			err = p.handleInstructionDef(stmt)
		case *asm.InlinePil:
			p.pil = append(p.pil, stmt.Statements...)
		case *asm.Assignment:
			err = p.handleAssignment(stmt)
		case *asm.Instruction:
			err = p.handleInstruction(stmt)
		case *asm.Label:
			p.codeLines = append(p.codeLines, &CodeLine{
				WriteReg:    util.None[string](),
				Label:       util.Some(stmt.Name),
				Instruction: util.None[string](),
				Span:        stmt.Source,
			})
		default:
			panic("unknown assembly statement")
		}
		//
		if err != nil {
			return nil, err
		}
	}
	// Fixup phase
	if err := p.createConstraintsForAssignmentReg(); err != nil {
		return nil, err
	}
	//
	p.createRegisterUpdateIdentities()
	//
	if err := p.createFixedColumnsForProgram(); err != nil {
		return nil, err
	}
	//
	p.createLineLookup()
	//
	log.Debugf("compiled %d code lines into %d columns (%d fixed)",
		len(p.codeLines), len(p.lineLookup)+len(p.programConstantNames),
		len(p.programConstantNames))
	//
	return &pil.File{Statements: p.pil}, nil
}

// ============================================================================
// Declarations
// ============================================================================

func (p *converter) handleRegisterDeclaration(decl *asm.RegisterDeclaration) *Error {
	var (
		start    = decl.Source.Start()
		register = &Register{DefaultUpdate: util.None[pil.Expr]()}
	)
	//
	switch decl.Flag {
	case asm.PC_FLAG:
		if p.pcName.HasValue() {
			return errorf(ErrDuplicateFlagRegister, decl.Source,
				"pc register already declared as \"%s\"", p.pcName.Unwrap())
		}
		//
		p.pcName = util.Some(decl.Name)
		// The pc implicitly contributes its own lookup pair against the
		// row-index column.
		p.lineLookup = append(p.lineLookup, util.NewPair(decl.Name, "line"))
		// By default, execution falls through to the next line.
		register.DefaultUpdate = util.Some(pil.BuildAdd(
			pil.DirectReference(decl.Name), pil.NewNumber(1)))
	case asm.ASSIGNMENT_FLAG:
		if p.defaultAssignment.HasValue() {
			return errorf(ErrDuplicateFlagRegister, decl.Source,
				"assignment register already declared as \"%s\"",
				p.defaultAssignment.Unwrap())
		}
		//
		p.defaultAssignment = util.Some(decl.Name)
	case asm.NO_FLAG:
		if p.defaultAssignment.IsEmpty() {
			return errorf(ErrNoAssignmentRegister, decl.Source,
				"register \"%s\" declared before any assignment register", decl.Name)
		}
		//
		writeFlag := "reg_write_" + decl.Name
		p.createWitnessFixedPair(start, writeFlag)
		// Ordinary registers take the bus value when written, and hold their
		// value otherwise.
		register.ConditionedUpdates = []ConditionedUpdate{{
			Condition: pil.DirectReference(writeFlag),
			Value:     pil.DirectReference(p.defaultAssignment.Unwrap()),
		}}
		register.DefaultUpdate = util.Some[pil.Expr](pil.DirectReference(decl.Name))
	default:
		panic("unknown register flag")
	}
	// Record the register, preserving declaration order.
	if _, ok := p.registers[decl.Name]; !ok {
		p.registerOrder = append(p.registerOrder, decl.Name)
	}
	//
	p.registers[decl.Name] = register
	p.pil = append(p.pil, pil.NewCommitDeclaration(start, decl.Name))
	//
	return nil
}

func (p *converter) handleInstructionDef(decl *asm.InstructionDeclaration) *Error {
	var (
		start   = decl.Source.Start()
		colName = "instr_" + decl.Name
	)
	// Reject multiple bus-role parameters outright: only one value can
	// travel over the bus per line.
	busParams := 0
	//
	for _, param := range decl.Params {
		if param.IsBusRole() {
			busParams++
		}
	}
	//
	if busParams > 1 {
		return errorf(ErrMultiBusParam, decl.Source,
			"instruction \"%s\" declares %d bus parameters", decl.Name, busParams)
	}
	//
	p.createWitnessFixedPair(start, colName)
	// Literal parameters each get their own column; occurrences within the
	// body are rewritten to refer to it.
	substitutions := make(map[string]string)
	//
	for _, param := range decl.Params {
		if !param.IsBusRole() {
			paramColName := colName + "_param_" + param.Name
			p.createWitnessFixedPair(start, paramColName)
			substitutions[param.Name] = paramColName
		}
	}
	//
	for _, expr := range decl.Body {
		expr = pil.Substitute(expr, substitutions)
		//
		if reg, rhs := extractUpdate(expr); reg.HasValue() {
			register, ok := p.registers[reg.Unwrap()]
			//
			if !ok {
				return errorf(ErrUnknownRegister, decl.Source,
					"instruction \"%s\" updates unknown register \"%s\"",
					decl.Name, reg.Unwrap())
			}
			//
			register.ConditionedUpdates = append(register.ConditionedUpdates,
				ConditionedUpdate{pil.DirectReference(colName), rhs})
		} else {
			// Not an update, hence the constraint holds directly whenever
			// the instruction fires.
			p.pil = append(p.pil, &pil.Identity{
				Start: start,
				Expr:  pil.BuildMul(pil.DirectReference(colName), expr),
			})
		}
	}
	//
	p.instructions[decl.Name] = &Instruction{decl.Params}
	//
	return nil
}

// ExtractUpdate determines whether a body constraint denotes a register
// update.  A constraint of the form "r' - rhs", where the left-hand side is a
// plain next-row reference, declares that r takes the value rhs whenever the
// enclosing instruction fires.
func extractUpdate(expr pil.Expr) (util.Option[string], pil.Expr) {
	if op, ok := expr.(*pil.BinaryOperation); ok && op.Op == pil.SUB {
		ref, ok := op.Left.(*pil.PolynomialReference)
		//
		if ok && ref.Next && ref.Namespace.IsEmpty() && ref.Index.IsEmpty() {
			return util.Some(ref.Name), op.Right
		}
	}
	//
	return util.None[string](), expr
}

// ============================================================================
// Code lines
// ============================================================================

func (p *converter) handleAssignment(stmt *asm.Assignment) *Error {
	if len(stmt.WriteRegs) > 1 {
		return errorf(ErrMultiWriteUnsupported, stmt.Source,
			"cannot write %d registers in one line", len(stmt.WriteRegs))
	}
	//
	value, err := ReduceAssignmentValue(stmt.Value, stmt.Source)
	//
	if err != nil {
		return err
	}
	//
	if err := p.checkRegistersDeclared(value, stmt.Source); err != nil {
		return err
	}
	//
	writeReg := util.None[string]()
	//
	if len(stmt.WriteRegs) == 1 {
		writeReg = util.Some(stmt.WriteRegs[0])
	}
	//
	p.codeLines = append(p.codeLines, &CodeLine{
		WriteReg:    writeReg,
		Value:       value,
		Label:       util.None[string](),
		Instruction: util.None[string](),
		Span:        stmt.Source,
	})
	//
	return nil
}

func (p *converter) handleInstruction(stmt *asm.Instruction) *Error {
	instr, ok := p.instructions[stmt.Name]
	//
	if !ok {
		return errorf(ErrUnknownInstruction, stmt.Source,
			"instruction \"%s\" has not been declared", stmt.Name)
	} else if len(instr.Params) != len(stmt.Args) {
		return errorf(ErrArity, stmt.Source,
			"instruction \"%s\" expects %d arguments, found %d",
			stmt.Name, len(instr.Params), len(stmt.Args))
	}
	//
	var (
		value       AssignmentValue
		literalArgs = make([]util.Option[string], len(instr.Params))
		err         *Error
	)
	//
	for i, param := range instr.Params {
		arg := stmt.Args[i]
		literalArgs[i] = util.None[string]()
		//
		switch {
		case param.IsBusRole():
			if value, err = ReduceAssignmentValue(arg, stmt.Source); err != nil {
				return err
			} else if err = p.checkRegistersDeclared(value, stmt.Source); err != nil {
				return err
			}
		case param.Type == "label":
			ref, ok := arg.(*pil.PolynomialReference)
			//
			if !ok || ref.Next || ref.Namespace.HasValue() || ref.Index.HasValue() {
				return errorf(ErrNonReferenceLabelArg, stmt.Source,
					"argument for \"%s\" must be a label name", param.Name)
			}
			//
			literalArgs[i] = util.Some(ref.Name)
		default:
			return errorf(ErrUnsupportedParamKind, stmt.Source,
				"parameter \"%s\" has unsupported type \"%s\"", param.Name, param.Type)
		}
	}
	//
	p.codeLines = append(p.codeLines, &CodeLine{
		WriteReg:               util.None[string](),
		Value:                  value,
		Label:                  util.None[string](),
		Instruction:            util.Some(stmt.Name),
		InstructionLiteralArgs: literalArgs,
		Span:                   stmt.Source,
	})
	//
	return nil
}

// CheckRegistersDeclared ensures every register term of an assignment value
// names a declared register.
func (p *converter) checkRegistersDeclared(value AssignmentValue, span source.Span) *Error {
	for _, term := range value {
		if access, ok := term.Component.(*RegisterAccess); ok {
			if _, ok := p.registers[access.Name]; !ok {
				return errorf(ErrUnknownRegister, span,
					"unknown register \"%s\"", access.Name)
			}
		}
	}
	//
	return nil
}

// ============================================================================
// Fixup phase
// ============================================================================

// CreateConstraintsForAssignmentReg synthesises the identity routing values
// over the assignment bus:
//
//	bus = sum_r read_bus_r * r  +  bus_const  +  bus_read_free * bus_free_value
//
// where r ranges over the non-bus registers in declaration order.
func (p *converter) createConstraintsForAssignmentReg() *Error {
	if p.defaultAssignment.IsEmpty() {
		return errorf(ErrNoAssignmentRegister, source.NewSpan(0, 0),
			"no assignment register was declared")
	}
	//
	bus := p.defaultAssignment.Unwrap()
	//
	assignConst := bus + "_const"
	p.createWitnessFixedPair(0, assignConst)
	//
	readFree := bus + "_read_free"
	p.createWitnessFixedPair(0, readFree)
	//
	freeValue := bus + "_free_value"
	p.pil = append(p.pil, pil.NewCommitDeclaration(0, freeValue))
	// Build up the right-hand side, one term per register, followed by the
	// constant and free-input terms in that exact order.
	var rhs pil.Expr
	//
	for _, name := range p.registerOrder {
		if name == bus {
			continue
		}
		//
		readCoefficient := "read_" + bus + "_" + name
		p.createWitnessFixedPair(0, readCoefficient)
		//
		term := pil.BuildMul(pil.DirectReference(readCoefficient),
			pil.DirectReference(name))
		//
		if rhs == nil {
			rhs = term
		} else {
			rhs = pil.BuildAdd(rhs, term)
		}
	}
	//
	for _, term := range []pil.Expr{
		pil.DirectReference(assignConst),
		pil.BuildMul(pil.DirectReference(readFree), pil.DirectReference(freeValue)),
	} {
		if rhs == nil {
			rhs = term
		} else {
			rhs = pil.BuildAdd(rhs, term)
		}
	}
	//
	p.pil = append(p.pil, &pil.Identity{
		Start: 0,
		Expr:  pil.BuildSub(pil.DirectReference(bus), rhs),
	})
	//
	return nil
}

// CreateRegisterUpdateIdentities emits one identity per register with a
// non-empty update expression, in sorted name order.
func (p *converter) createRegisterUpdateIdentities() {
	for _, name := range util.SortedKeys(p.registers) {
		update := p.registers[name].UpdateExpression()
		//
		if update.HasValue() {
			p.pil = append(p.pil, &pil.Identity{
				Start: 0,
				Expr:  pil.BuildSub(pil.NextReference(name), update.Unwrap()),
			})
		}
	}
}

// CreateLineLookup emits the plookup connecting the execution trace columns
// to the program ROM, both sides in insertion order.
func (p *converter) createLineLookup() {
	var (
		left  = make([]pil.Expr, len(p.lineLookup))
		right = make([]pil.Expr, len(p.lineLookup))
	)
	//
	for i, pair := range p.lineLookup {
		left[i] = pil.DirectReference(pair.Left)
		right[i] = pil.DirectReference(pair.Right)
	}
	//
	p.pil = append(p.pil, &pil.PlookupIdentity{
		Start: 0,
		Left:  pil.SelectedExpressions{Expressions: left},
		Right: pil.SelectedExpressions{Expressions: right},
	})
}

// CreateWitnessFixedPair creates a pair of witness and fixed columns and
// matches them in the connecting plookup.
func (p *converter) createWitnessFixedPair(start int, name string) {
	fixedName := "p_" + name
	//
	p.pil = append(p.pil, pil.NewCommitDeclaration(start, name))
	p.lineLookup = append(p.lineLookup, util.NewPair(name, fixedName))
	p.programConstantNames = append(p.programConstantNames, fixedName)
}

func (p *converter) defaultAssignmentReg() string {
	return p.defaultAssignment.Unwrap()
}
