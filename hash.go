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
	"unicode/utf8"
)

// Keys of the hash representation.
const (
	hashLeader     = "leader"
	hashFields     = "fields"
	hashIndicators = "indicators"
	hashSubfields  = "subfields"
)

// ToHash returns the record as nested maps and slices:
//
//	{"leader": "...", "fields": [{"001": "value"}, {"245": {"indicators": ["1", "0"], "subfields": [{"a": "value"}]}}]}
//
// Field and subfield order is kept by the slices.
func (r *Record) ToHash() map[string]any {
	fields := make([]any, 0, len(r.fields))
	for _, f := range r.fields {
		switch f := f.(type) {
		case *ControlField:
			fields = append(fields, map[string]any{f.tag: f.Value})
		case *DataField:
			subfields := make([]any, 0, len(f.Subfields))
			for _, sf := range f.Subfields {
				subfields = append(subfields, map[string]any{sf.Code: sf.Value})
			}
			fields = append(fields, map[string]any{f.tag: map[string]any{
				hashIndicators: []any{string(f.ind1), string(f.ind2)},
				hashSubfields:  subfields,
			}})
		}
	}
	return map[string]any{
		hashLeader: r.leader,
		hashFields: fields,
	}
}

// RecordFromHash creates a record from its hash representation.
//
// The hash is validated: every field and subfield must be a map with a single entry, tags must be three
// characters, control field and subfield values must be strings and there must be two indicators.
// The keys "ind1" and "ind2" are accepted in place of "indicators". A missing leader gives the default leader.
func RecordFromHash(h map[string]any) (*Record, error) {
	r := &Record{leader: DefaultLeader}
	if v, ok := h[hashLeader]; ok {
		leader, ok := v.(string)
		if !ok {
			return nil, newSchemaErrorf(hashLeader, "leader must be a string, was %T", v)
		}
		r.leader = leader
	}

	v, ok := h[hashFields]
	if !ok || v == nil {
		return r, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, newSchemaErrorf(hashFields, "fields must be a list, was %T", v)
	}
	for i, item := range list {
		path := fmt.Sprintf("fields[%d]", i)
		tag, value, err := singleEntry(item, path)
		if err != nil {
			return nil, err
		}
		if len(tag) != 3 {
			return nil, newSchemaErrorf(path, "tag '%s' must be three characters", tag)
		}
		switch value := value.(type) {
		case nil:
			r.fields = append(r.fields, NewControlField(tag, ""))
		case string:
			r.fields = append(r.fields, NewControlField(tag, value))
		case map[string]any:
			f, err := dataFieldFromHash(tag, value, path+"."+tag)
			if err != nil {
				return nil, err
			}
			r.fields = append(r.fields, f)
		default:
			return nil, newSchemaErrorf(path, "field value must be a string or a map, was %T", value)
		}
	}
	return r, nil
}

func dataFieldFromHash(tag string, m map[string]any, path string) (*DataField, error) {
	var ind1, ind2 byte = blank, blank
	var err error
	if v, ok := m[hashIndicators]; ok {
		list, ok := toList(v)
		if !ok || len(list) != 2 {
			return nil, newSchemaErrorf(path, "indicators must be a list of two")
		}
		if ind1, err = indicatorFromHash(list[0], path+".indicators[0]"); err != nil {
			return nil, err
		}
		if ind2, err = indicatorFromHash(list[1], path+".indicators[1]"); err != nil {
			return nil, err
		}
	} else {
		if v, ok := m["ind1"]; ok {
			if ind1, err = indicatorFromHash(v, path+".ind1"); err != nil {
				return nil, err
			}
		}
		if v, ok := m["ind2"]; ok {
			if ind2, err = indicatorFromHash(v, path+".ind2"); err != nil {
				return nil, err
			}
		}
	}
	f := NewDataField(tag, ind1, ind2)

	v, ok := m[hashSubfields]
	if !ok || v == nil {
		return f, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, newSchemaErrorf(path, "subfields must be a list, was %T", v)
	}
	for i, item := range list {
		sfPath := fmt.Sprintf("%s.subfields[%d]", path, i)
		code, value, err := singleEntry(item, sfPath)
		if err != nil {
			return nil, err
		}
		switch {
		case code == "":
			return nil, newSchemaErrorf(sfPath, "empty subfield code")
		case utf8.RuneCountInString(code) != 1:
			return nil, newSchemaErrorf(sfPath, "subfield code '%s' must be one character", code)
		}
		s, ok := value.(string)
		if !ok && value != nil {
			return nil, newSchemaErrorf(sfPath, "subfield value must be a string, was %T", value)
		}
		f.Add(code, s)
	}
	return f, nil
}

func singleEntry(v any, path string) (string, any, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, newSchemaErrorf(path, "must be a map with a single entry")
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil
}

func toList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		l := make([]any, len(v))
		for i, s := range v {
			l[i] = s
		}
		return l, true
	}
	return nil, false
}

func indicatorFromHash(v any, path string) (byte, error) {
	s, ok := v.(string)
	if !ok && v != nil {
		return 0, newSchemaErrorf(path, "indicator must be a string, was %T", v)
	}
	switch len(s) {
	case 0:
		return blank, nil
	case 1:
		return s[0], nil
	}
	return 0, newSchemaErrorf(path, "indicator '%s' must be a single character", s)
}
