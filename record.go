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
	"iter"
	"slices"
	"strings"
)

const (
	ft    = 0x1E // Field terminator
	rt    = 0x1D // Record terminator
	sfd   = 0x1F // Subfield delimiter
	blank = ' '  // Blank indicator
)

// Field is a field in a MARC record. It is either a *ControlField or a *DataField.
type Field interface {
	Tag() string
	// IsControl reports whether the field is a control field.
	IsControl() bool
	// String returns the field in text notation, e.g. "=245  10$aTitle".
	String() string
	field()
}

// IsControlTag reports whether tag is in the control field range "000" to "009".
//
// The comparison is lexicographic.
func IsControlTag(tag string) bool {
	return tag >= "000" && tag <= "009"
}

// ControlField is a field with a tag and a single value.
type ControlField struct {
	tag   string
	Value string
}

// NewControlField creates a new control field.
func NewControlField(tag, value string) *ControlField {
	return &ControlField{tag: tag, Value: value}
}

func (f *ControlField) Tag() string { return f.tag }

func (f *ControlField) IsControl() bool { return true }

func (f *ControlField) String() string {
	sb := &strings.Builder{}
	writeTextField(sb, f)
	return sb.String()
}

func (*ControlField) field() {}

// Subfield is a coded value in a data field.
type Subfield struct {
	Code  string
	Value string
}

// DataField is a field with two indicators and an ordered list of subfields.
type DataField struct {
	tag       string
	ind1      byte
	ind2      byte
	Subfields []Subfield
}

// NewDataField creates a new data field without subfields.
//
// Indicators that are zero or not printable ASCII are stored as blank.
func NewDataField(tag string, ind1, ind2 byte) *DataField {
	return &DataField{tag: tag, ind1: indicator(ind1), ind2: indicator(ind2)}
}

func indicator(b byte) byte {
	if b < 0x20 || b > 0x7E {
		return blank
	}
	return b
}

// Add appends a subfield and returns the field to allow chaining.
func (f *DataField) Add(code, value string) *DataField {
	f.Subfields = append(f.Subfields, Subfield{Code: code, Value: value})
	return f
}

func (f *DataField) Tag() string { return f.tag }

func (f *DataField) IsControl() bool { return false }

func (f *DataField) Indicator1() byte { return f.ind1 }

func (f *DataField) Indicator2() byte { return f.ind2 }

// SetIndicators replaces both indicators.
func (f *DataField) SetIndicators(ind1, ind2 byte) {
	f.ind1 = indicator(ind1)
	f.ind2 = indicator(ind2)
}

// Subfield returns the value of the first subfield with code.
func (f *DataField) Subfield(code string) (string, bool) {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// SubfieldValues returns the values of all subfields with code in field order.
func (f *DataField) SubfieldValues(code string) []string {
	var values []string
	for _, sf := range f.Subfields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

func (f *DataField) String() string {
	sb := &strings.Builder{}
	writeTextField(sb, f)
	return sb.String()
}

func (*DataField) field() {}

// SubfieldValue returns the value of the first subfield with code in f.
// Control fields have no subfields.
func SubfieldValue(f Field, code string) (string, bool) {
	if df, ok := f.(*DataField); ok {
		return df.Subfield(code)
	}
	return "", false
}

// Record is a MARC record.
type Record struct {
	leader string
	fields []Field
}

// NewRecord creates an empty record with the default leader.
func NewRecord() *Record {
	return &Record{leader: DefaultLeader}
}

// Leader returns the leader as stored. It is not guaranteed to be 24 characters.
func (r *Record) Leader() string { return r.leader }

// SetLeader stores the leader. It is normalized to 24 characters when the record is marshaled.
func (r *Record) SetLeader(leader string) { r.leader = leader }

// Append adds fields to the end of the record.
func (r *Record) Append(fields ...Field) *Record {
	r.fields = append(r.fields, fields...)
	return r
}

// Insert inserts fields at index i. An index outside the record appends the fields.
func (r *Record) Insert(i int, fields ...Field) *Record {
	if i < 0 || i > len(r.fields) {
		i = len(r.fields)
	}
	r.fields = slices.Insert(r.fields, i, fields...)
	return r
}

// Fields returns the fields of the record in order.
func (r *Record) Fields() []Field { return r.fields }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Field returns the first field with tag.
func (r *Record) Field(tag string) (Field, bool) {
	for _, f := range r.fields {
		if f.Tag() == tag {
			return f, true
		}
	}
	return nil, false
}

// FieldsByTag returns all fields with tag in record order.
//
// The sequence reads the record each time it is iterated.
func (r *Record) FieldsByTag(tag string) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		for _, f := range r.fields {
			if f.Tag() == tag && !yield(f) {
				return
			}
		}
	}
}

// DataFields returns all data fields with tag in record order.
func (r *Record) DataFields(tag string) iter.Seq[*DataField] {
	return func(yield func(*DataField) bool) {
		for f := range r.FieldsByTag(tag) {
			if df, ok := f.(*DataField); ok && !yield(df) {
				return
			}
		}
	}
}

// DataField returns the first data field with tag.
func (r *Record) DataField(tag string) (*DataField, bool) {
	for df := range r.DataFields(tag) {
		return df, true
	}
	return nil, false
}

// ControlField returns the first control field with tag.
func (r *Record) ControlField(tag string) (*ControlField, bool) {
	for f := range r.FieldsByTag(tag) {
		if cf, ok := f.(*ControlField); ok {
			return cf, true
		}
	}
	return nil, false
}

// Subfield returns the first value of subfield code in the first data field with tag.
func (r *Record) Subfield(tag, code string) (string, bool) {
	df, ok := r.DataField(tag)
	if !ok {
		return "", false
	}
	return df.Subfield(code)
}

// Equal reports whether r and o have equal fields in the same order and equal leaders.
// The record length and base address of the leaders are not compared since they are
// recomputed on every marshal.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	l1, l2 := normalizeLeader(r.leader), normalizeLeader(o.leader)
	clearComputed(l1)
	clearComputed(l2)
	if string(l1) != string(l2) {
		return false
	}
	return slices.EqualFunc(r.fields, o.fields, equalField)
}

func equalField(a, b Field) bool {
	switch a := a.(type) {
	case *ControlField:
		b, ok := b.(*ControlField)
		return ok && a.tag == b.tag && a.Value == b.Value
	case *DataField:
		b, ok := b.(*DataField)
		return ok && a.tag == b.tag && a.ind1 == b.ind1 && a.ind2 == b.ind2 && slices.Equal(a.Subfields, b.Subfields)
	}
	return false
}

// String returns the record in text notation.
func (r *Record) String() string {
	sb := &strings.Builder{}
	_ = WriteText(sb, r)
	return sb.String()
}
