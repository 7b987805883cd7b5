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
	"io"
	"strings"
	"unicode/utf8"
)

// Text notation
//
//	=LDR  00000nam\a2200000\\\4500
//	=001  ocm12345
//	=245  10$aMoby Dick /$cHerman Melville.
//
// A backslash is a blank in the leader, control fields and indicators. When reading, every backslash is
// a blank. A literal '$' is written as {dollar}, a backslash as {bsol} and '{' as {lcub}. Lines not
// starting with '=' continue the field above, joined with a newline; a continuation line that starts
// with '=' is written with {equals}. Spaces between the tag and the value are not part of the value.
const (
	textLeaderTag = "LDR"
	textDollar    = "{dollar}"
	textBsol      = "{bsol}"
	textLcub      = "{lcub}"
	textEquals    = "{equals}"
)

var (
	textEscaper   = strings.NewReplacer(`\`, textBsol, "$", textDollar, "{", textLcub, "\n=", "\n"+textEquals)
	textUnescaper = strings.NewReplacer(`\`, " ", textDollar, "$", textBsol, `\`, textLcub, "{", textEquals, "=")
)

// WriteText writes the record in text notation.
func WriteText(w io.Writer, r *Record) error {
	sb := &strings.Builder{}
	sb.WriteString("=" + textLeaderTag + "  ")
	sb.WriteString(textBlanks(r.leader))
	sb.WriteByte('\n')
	for _, f := range r.fields {
		writeTextField(sb, f)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTextField(sb *strings.Builder, f Field) {
	sb.WriteByte('=')
	sb.WriteString(f.Tag())
	sb.WriteString("  ")
	switch f := f.(type) {
	case *ControlField:
		sb.WriteString(textBlanks(f.Value))
	case *DataField:
		sb.WriteString(textBlanks(string([]byte{f.ind1, f.ind2})))
		for _, sf := range f.Subfields {
			sb.WriteByte('$')
			sb.WriteString(textEscaper.Replace(sf.Code))
			sb.WriteString(textEscaper.Replace(sf.Value))
		}
	}
}

func textBlanks(s string) string {
	return strings.ReplaceAll(textEscaper.Replace(s), " ", `\`)
}

// ParseText reads a single record in text notation.
//
// A record without a leader line gets the default leader. The tag LDR or 000 sets the leader.
func ParseText(s string) (*Record, error) {
	r := &Record{leader: DefaultLeader}
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	var current []string // Lines of the field being read
	var start int
	flush := func() error {
		if current == nil {
			return nil
		}
		err := r.appendText(strings.Join(current, "\n"))
		current = nil
		if err != nil {
			return fmt.Errorf("gomarc: line %d: %w", start, err)
		}
		return nil
	}

	for n, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "=") {
			if err := flush(); err != nil {
				return nil, err
			}
			current = []string{line}
			start = n + 1
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("gomarc: line %d: text before first field", n+1)
		}
		current = append(current, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return r, nil
}

// appendText parses one field in text notation, continuation lines included.
func (r *Record) appendText(s string) error {
	if len(s) < 4 {
		return fmt.Errorf("missing tag in '%s'", s)
	}
	tag := s[1:4]
	rest := strings.TrimLeft(s[4:], " ")

	if tag == textLeaderTag || tag == "000" {
		r.leader = textUnescaper.Replace(rest)
		return nil
	}
	if IsControlTag(tag) {
		r.fields = append(r.fields, NewControlField(tag, textUnescaper.Replace(rest)))
		return nil
	}

	// Indicators end early when a subfield starts within the first two characters
	n := min(2, len(rest))
	if i := strings.IndexByte(rest, '$'); i >= 0 && i < n {
		n = i
	}
	ind := [2]byte{blank, blank}
	for i := 0; i < n; i++ {
		if rest[i] != '\\' {
			ind[i] = rest[i]
		}
	}
	body := rest[n:]

	f := NewDataField(tag, ind[0], ind[1])
	parts := strings.Split(body, "$")
	if strings.TrimSpace(parts[0]) != "" {
		return fmt.Errorf("text before first subfield in field %s", tag)
	}
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(p)
		f.Add(p[:size], textUnescaper.Replace(p[size:]))
	}
	r.fields = append(r.fields, f)
	return nil
}
