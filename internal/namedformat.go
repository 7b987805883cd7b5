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

package internal

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Sprintt is like fmt.Sprintf, but accepts named parameters from a map.
//
// Example:
//
//	params := map[string]any{
//	  "prefix": "batch-",
//	  "serial": 42,
//	}
//
//	result := internal.Sprintt("%{prefix}s%04{serial}d.marc", params)
//
// Result will then be: 'batch-0042.marc'
//
// Names are substituted in a fixed order, longest first.
func Sprintt(format string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})

	pos := 1
	var args []any
	for _, key := range keys {
		replaced := strings.ReplaceAll(format, "{"+key+"}", "["+strconv.Itoa(pos)+"]")
		if replaced != format {
			pos++
			args = append(args, params[key])
			format = replaced
		}
	}
	return fmt.Sprintf(format, args...)
}
