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
	"github.com/segmentio/encoding/json"
)

// MarshalJSON encodes the record's hash representation.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToHash())
}

// UnmarshalJSON decodes and validates a hash representation.
func (r *Record) UnmarshalJSON(b []byte) error {
	var h map[string]any
	if err := json.Unmarshal(b, &h); err != nil {
		return err
	}
	rec, err := RecordFromHash(h)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}
