/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gomarc

import (
	"fmt"
	"strings"
)

// Validation holds the problems found in a record that were reported rather than failed on.
// A nil *Validation is valid.
type Validation []error

// AddError records a problem.
func (v *Validation) AddError(err error) {
	*v = append(*v, err)
}

// Valid reports whether no problems were recorded.
func (v *Validation) Valid() bool {
	return v == nil || len(*v) == 0
}

// Err returns the recorded problems as one error matching each of them with errors.Is and
// errors.As, or nil when there are none.
func (v *Validation) Err() error {
	if v.Valid() {
		return nil
	}
	return multiErr(*v)
}

// String lists the problems one per line.
func (v *Validation) String() string {
	if v.Valid() {
		return ""
	}
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "gomarc: %d problem(s) in record:\n", len(*v))
	for i, e := range *v {
		fmt.Fprintf(&sb, "  %d: %v\n", i+1, e)
	}
	return sb.String()
}
