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
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Encoding is the name of a character encoding for MARC field data.
//
// Besides the constants below any name known to the IANA character set registry,
// like "ISO-8859-1" or "IBM866", may be used.
type Encoding string

const (
	UTF8  Encoding = "UTF-8"
	MARC8 Encoding = "MARC-8"
	// Auto selects UTF8 when leader position 9 is 'a' and MARC8 otherwise.
	Auto Encoding = "auto"
)

func (e Encoding) String() string {
	return string(e)
}

// ParseEncoding checks that name is a supported encoding.
func ParseEncoding(name string) (Encoding, error) {
	e := Encoding(name)
	if _, err := e.charset(nil); err != nil {
		return "", err
	}
	return e, nil
}

// charset decodes field data to UTF-8.
type charset interface {
	name() string
	// decode returns b as UTF-8 and the offset of the first byte that could not be decoded, or -1.
	// If fix is false, undecodable bytes are copied when the charset allows it.
	decode(b []byte, repl string, fix bool) (string, int)
}

func (e Encoding) charset(leader []byte) (charset, error) {
	switch strings.ToLower(strings.ReplaceAll(string(e), "-", "")) {
	case "utf8", "unicode":
		return utf8Charset{}, nil
	case "marc8":
		return marc8Charset{}, nil
	case "auto", "":
		if len(leader) > leaderCodingPos && leader[leaderCodingPos] == 'a' {
			return utf8Charset{}, nil
		}
		return marc8Charset{}, nil
	}
	enc, err := ianaindex.IANA.Encoding(string(e))
	if err != nil || enc == nil {
		return nil, fmt.Errorf("gomarc: unsupported encoding '%s'", e)
	}
	return &ianaCharset{n: string(e), enc: enc}, nil
}

type utf8Charset struct{}

func (utf8Charset) name() string { return string(UTF8) }

func (utf8Charset) decode(b []byte, repl string, fix bool) (string, int) {
	if utf8.Valid(b) {
		return string(b), -1
	}
	bad := -1
	sb := strings.Builder{}
	sb.Grow(len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			if bad < 0 {
				bad = i
			}
			if fix {
				sb.WriteString(repl)
			} else {
				sb.WriteByte(b[i])
			}
		} else {
			sb.Write(b[i : i+size])
		}
		i += size
	}
	return sb.String(), bad
}

// ianaCharset wraps the character sets of golang.org/x/text.
type ianaCharset struct {
	n   string
	enc encoding.Encoding
}

func (c *ianaCharset) name() string { return c.n }

func (c *ianaCharset) decode(b []byte, repl string, _ bool) (string, int) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.Repeat(repl, utf8.RuneCount(b)), 0
	}
	s := string(out)
	bad := -1
	n := 0
	for _, r := range s {
		if r == utf8.RuneError {
			bad = n
			break
		}
		n++
	}
	if bad >= 0 && repl != string(utf8.RuneError) {
		s = strings.ReplaceAll(s, string(utf8.RuneError), repl)
	}
	return s, bad
}
