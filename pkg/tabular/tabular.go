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

// Package tabular builds MARC records from tables where each row holds one field.
//
// Catalog web pages show a record as a table: a tag cell, indicator cells and a cell with the
// subfields. Sites differ only in how these cells are found, so a site is described by a Profile
// of locator functions and the row walk in Extract is shared.
package tabular

import (
	"fmt"
	"iter"
	"strings"

	"github.com/nlnwa/gomarc"
	log "github.com/sirupsen/logrus"
)

// Tags that set the leader instead of adding a field.
const (
	leaderTag       = "LDR"
	leaderFieldTag  = "000"
	indicatorLength = 2
)

// Profile locates the parts of a MARC field in a row of type R.
//
// Each locator returns false when the cell it looks for is missing from the row.
type Profile[R any] struct {
	// Tag returns the text of the tag cell.
	Tag func(row R) (string, bool)
	// Value returns the value of a control field.
	Value func(row R) (string, bool)
	// Indicators returns the indicator text. The first character is indicator 1 and the second
	// indicator 2; missing characters are blank.
	Indicators func(row R) (string, bool)
	// Subfields returns the subfields of a data field in order.
	Subfields func(row R) ([]gomarc.Subfield, bool)

	// Blank holds placeholder characters shown for a blank indicator, like '.' or '#'. In the
	// indicator cell Blank wins over Junk.
	Blank string
	// Junk holds characters that are removed from subfield values and indicators. In control
	// field values they are replaced by space since character positions are significant there.
	Junk string
}

// MalformedRowError is reported for a row that could not be turned into a field.
type MalformedRowError struct {
	Row    int // one based row number
	Tag    string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("tabular: row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("tabular: row %d (%s): %s", e.Row, e.Tag, e.Reason)
}

// Extract walks the rows in order and appends one field per row to a new record.
//
// A row tagged 000 or LDR sets the leader. Malformed rows are skipped: they are logged and
// collected in the returned Validation, and extraction continues with the next row.
func Extract[R any](rows iter.Seq[R], p Profile[R]) (*gomarc.Record, *gomarc.Validation) {
	record := gomarc.NewRecord()
	validation := &gomarc.Validation{}

	n := 0
	for row := range rows {
		n++
		if err := p.appendRow(record, row, n); err != nil {
			log.WithField("row", n).Warn(err)
			validation.AddError(err)
		}
	}
	return record, validation
}

func (p *Profile[R]) appendRow(record *gomarc.Record, row R, n int) error {
	malformed := func(tag, format string, a ...any) error {
		return &MalformedRowError{Row: n, Tag: tag, Reason: fmt.Sprintf(format, a...)}
	}

	tag, ok := p.Tag(row)
	tag = strings.TrimSpace(tag)
	if !ok || tag == "" {
		return malformed("", "missing tag cell")
	}

	if tag == leaderTag || tag == leaderFieldTag {
		value, ok := p.Value(row)
		if !ok {
			return malformed(tag, "missing leader value")
		}
		record.SetLeader(p.controlValue(value))
		log.Debugf("leader: '%s'", record.Leader())
		return nil
	}
	if len(tag) != 3 {
		return malformed(tag, "tag must be three characters")
	}

	if gomarc.IsControlTag(tag) {
		value, ok := p.Value(row)
		if !ok {
			return malformed(tag, "missing value cell")
		}
		f := gomarc.NewControlField(tag, p.controlValue(value))
		log.Debugf("control field: %s", f)
		record.Append(f)
		return nil
	}

	inds, ok := p.Indicators(row)
	if !ok {
		return malformed(tag, "missing indicator cell")
	}
	ind1, ind2 := p.indicators(inds)
	subfields, ok := p.Subfields(row)
	if !ok {
		return malformed(tag, "missing subfield cell")
	}

	f := gomarc.NewDataField(tag, ind1, ind2)
	for _, sf := range subfields {
		if sf.Code == "" {
			return malformed(tag, "text before first subfield: '%s'", sf.Value)
		}
		f.Add(sf.Code, p.clean(sf.Value))
	}
	log.Debugf("data field: %s", f)
	record.Append(f)
	return nil
}

// controlValue trims surrounding whitespace and blanks out junk. Only ASCII whitespace is
// trimmed so that a trailing junk character still takes up its position.
func (p *Profile[R]) controlValue(s string) string {
	s = strings.Trim(s, " \t\r\n")
	if p.Junk == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(p.Junk, r) {
			return ' '
		}
		return r
	}, s)
}

func (p *Profile[R]) clean(s string) string {
	if p.Junk == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(p.Junk, r) {
			return -1
		}
		return r
	}, s)
}

func (p *Profile[R]) indicators(s string) (byte, byte) {
	s = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(p.Blank, r):
			return ' '
		case r == '\n' || r == '\r' || r == '\t' || strings.ContainsRune(p.Junk, r):
			return -1
		}
		return r
	}, s)
	if len([]rune(s)) > indicatorLength {
		s = strings.TrimSpace(s)
	}

	ind := [indicatorLength]byte{' ', ' '}
	i := 0
	for _, r := range s {
		if i == indicatorLength {
			break
		}
		if r < 0x80 {
			ind[i] = byte(r)
		}
		i++
	}
	return ind[0], ind[1]
}

// SplitMarked splits subfield text where each subfield starts with a marker followed by a one
// character code, like "$aMoby Dick /$cHerman Melville.".
//
// Text before the first marker is given defaultCode. When defaultCode is empty, such text is
// dropped if it is blank and otherwise returned with an empty code. Empty parts are skipped.
func SplitMarked(text, marker, defaultCode string) []gomarc.Subfield {
	parts := strings.Split(text, marker)
	var subfields []gomarc.Subfield
	if lead := parts[0]; lead != "" {
		if defaultCode != "" || strings.TrimSpace(lead) != "" {
			subfields = append(subfields, gomarc.Subfield{Code: defaultCode, Value: lead})
		}
	}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		code, value := splitCode(part)
		subfields = append(subfields, gomarc.Subfield{Code: code, Value: value})
	}
	return subfields
}

func splitCode(s string) (string, string) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
