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
package util

import "sort"

// RemoveMatching removes all elements from an array matching the given
// predicate, returning a (possibly smaller) array.
func RemoveMatching[T any](items []T, predicate func(T) bool) []T {
	count := 0
	// Check how many matches we have
	for _, r := range items {
		if !predicate(r) {
			count++
		}
	}
	// Check for stuff to remove
	if count == len(items) {
		return items
	}
	//
	nitems := make([]T, 0, count)
	//
	for _, r := range items {
		if !predicate(r) {
			nitems = append(nitems, r)
		}
	}
	//
	return nitems
}

// SortedKeys returns the keys of a string-keyed map in ascending order.  This
// is the workhorse for deterministic iteration over name-keyed tables.
func SortedKeys[V any](mapping map[string]V) []string {
	keys := make([]string, 0, len(mapping))
	//
	for k := range mapping {
		keys = append(keys, k)
	}
	//
	sort.Strings(keys)
	//
	return keys
}
