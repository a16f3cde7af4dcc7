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
	"github.com/zkasmlang/go-zkasm/pkg/util"
)

// CreateFixedColumnsForProgram synthesises the program ROM: the row-index
// column "line" plus one fixed column per program constant, each of length
// equal to the number of code lines.  Rows follow code-line order; columns
// are emitted in sorted name order so the output is identical across runs.
func (p *converter) createFixedColumnsForProgram() *Error {
	p.pil = append(p.pil, &pil.ConstantDefinition{
		Start: 0,
		Name:  "line",
		Def: &pil.MappingDefinition{
			Params: []string{"i"},
			Body:   pil.DirectReference("i"),
		},
	})
	//
	var (
		bus            = p.defaultAssignmentReg()
		constants      = make(map[string][]int64)
		labelPositions = p.computeLabelPositions()
	)
	//
	for _, name := range p.programConstantNames {
		constants[name] = make([]int64, len(p.codeLines))
	}
	//
	for i, line := range p.codeLines {
		if line.WriteReg.HasValue() {
			reg := line.WriteReg.Unwrap()
			vec, ok := constants["p_reg_write_"+reg]
			//
			if !ok {
				return errorf(ErrUnknownRegister, line.Span,
					"register \"%s\" cannot be written", reg)
			}
			//
			vec[i] = 1
		}
		//
		for _, term := range line.Value {
			switch component := term.Component.(type) {
			case *RegisterAccess:
				vec, ok := constants["p_read_"+bus+"_"+component.Name]
				//
				if !ok {
					return errorf(ErrUnknownRegister, line.Span,
						"register \"%s\" cannot be read onto the bus", component.Name)
				}
				//
				vec[i] = term.Coeff
			case *ConstantAccess:
				constants["p_"+bus+"_const"][i] = term.Coeff
			case *FreeInputAccess:
				// The program just records that a free input is read; the
				// actual value is part of the execution trace that
				// generates the witness.
				constants["p_"+bus+"_read_free"][i] = 1
			default:
				panic("unknown assignment component")
			}
		}
		//
		if line.Instruction.HasValue() {
			instr := line.Instruction.Unwrap()
			constants["p_instr_"+instr][i] = 1
			//
			for j, arg := range line.InstructionLiteralArgs {
				if arg.IsEmpty() {
					continue
				}
				//
				position, ok := labelPositions[arg.Unwrap()]
				//
				if !ok {
					return errorf(ErrUnknownLabel, line.Span,
						"label \"%s\" is not declared anywhere", arg.Unwrap())
				}
				//
				param := p.instructions[instr].Params[j]
				constants["p_instr_"+instr+"_param_"+param.Name][i] = int64(position)
			}
		} else if len(line.InstructionLiteralArgs) != 0 {
			panic("literal arguments without an instruction")
		}
	}
	//
	for _, name := range util.SortedKeys(constants) {
		values := make([]pil.Expr, len(constants[name]))
		//
		for i, value := range constants[name] {
			values[i] = pil.NewNumber(value)
		}
		//
		p.pil = append(p.pil, &pil.ConstantDefinition{
			Start: 0,
			Name:  name,
			Def:   &pil.ArrayDefinition{Values: values},
		})
	}
	//
	return nil
}

// ComputeLabelPositions maps each declared label to the index of its code
// line.
func (p *converter) computeLabelPositions() map[string]int {
	positions := make(map[string]int)
	//
	for i, line := range p.codeLines {
		if line.Label.HasValue() {
			positions[line.Label.Unwrap()] = i
		}
	}
	//
	return positions
}
