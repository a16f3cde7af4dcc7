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

// ConditionedUpdate pairs a boolean condition column with the value a
// register takes in the next row whenever that condition holds.
type ConditionedUpdate struct {
	Condition pil.Expr
	Value     pil.Expr
}

// Register records a declared register together with its update rule.  The
// conditioned updates grow as instructions mentioning this register are
// declared; the default update applies on rows where no condition fires.
type Register struct {
	ConditionedUpdates []ConditionedUpdate
	// DefaultUpdate is empty for registers which have no default (such as
	// the assignment register).
	DefaultUpdate util.Option[pil.Expr]
}

// UpdateExpression returns the expression assigned to this register in the
// next row, or an empty option when the register is unconstrained.  With both
// conditioned updates and a default present, the result is
//
//	sum_i cond_i * value_i  +  (1 - sum_i cond_i) * default
//
// with all sums left-associated in the order updates were recorded.
func (p *Register) UpdateExpression() util.Option[pil.Expr] {
	if len(p.ConditionedUpdates) == 0 {
		return p.DefaultUpdate
	}
	// Combine conditioned updates
	var updates, conditions pil.Expr
	//
	for _, update := range p.ConditionedUpdates {
		term := pil.BuildMul(update.Condition, update.Value)
		//
		if updates == nil {
			updates, conditions = term, update.Condition
		} else {
			updates = pil.BuildAdd(updates, term)
			conditions = pil.BuildAdd(conditions, update.Condition)
		}
	}
	//
	if p.DefaultUpdate.IsEmpty() {
		return util.Some(updates)
	}
	// Apply default on rows where no condition fires
	defaultCondition := pil.BuildSub(pil.NewNumber(1), conditions)
	//
	return util.Some(pil.BuildAdd(updates,
		pil.BuildMul(defaultCondition, p.DefaultUpdate.Unwrap())))
}
