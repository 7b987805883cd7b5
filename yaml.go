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

	"gopkg.in/yaml.v3"
)

// MarshalYAML returns the record's hash representation.
func (r *Record) MarshalYAML() (any, error) {
	return r.ToHash(), nil
}

// UnmarshalYAML decodes and validates a hash representation.
//
// Scalars are read as written, so unquoted tags like 010 keep their leading zeros.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	v, err := nodeValue(value)
	if err != nil {
		return err
	}
	h, ok := v.(map[string]any)
	if !ok {
		return newSchemaErrorf("", "record must be a map, was %T", v)
	}
	rec, err := RecordFromHash(h)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		l := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("gomarc: map key at line %d is not a scalar", k.Line)
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("gomarc: unexpected yaml node at line %d", n.Line)
}
