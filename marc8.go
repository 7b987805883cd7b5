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
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const esc = 0x1B

// marc8Charset transliterates MARC-8 to Unicode.
//
// Every field starts with basic Latin (ASCII) as G0 and ANSEL as G1. Combining diacritics
// precede their base character in MARC-8 and follow it in Unicode. The result is NFC normalized.
type marc8Charset struct{}

func (marc8Charset) name() string { return string(MARC8) }

func (marc8Charset) decode(b []byte, repl string, _ bool) (string, int) {
	d := &marc8Decoder{g0: setBasicLatin, g1: setANSEL, repl: repl, bad: -1}
	d.sb.Grow(len(b))
	d.run(b)
	return norm.NFC.String(d.sb.String()), d.bad
}

type marc8Decoder struct {
	g0, g1  byte
	wide    bool // G0 is a three byte set
	sb      strings.Builder
	pending []rune // Combining marks waiting for their base character
	repl    string
	bad     int
}

func (d *marc8Decoder) run(b []byte) {
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == esc:
			n, ok := d.escape(b[i:])
			if !ok {
				d.fail(i)
				n = 1
			}
			i += n
		case c < 0x20 || c == 0x7F:
			d.flush()
			d.sb.WriteByte(c)
			i++
		case c == 0x20:
			d.base(' ')
			i++
		case c < 0x7F:
			i += d.graphic(b, i, d.g0, d.wide)
		case c < 0xA0:
			if r, ok := marc8Specials[c]; ok {
				d.sb.WriteRune(r)
			} else {
				d.fail(i)
			}
			i++
		case c == 0xA0 || c == 0xFF:
			d.fail(i)
			i++
		default:
			i += d.graphic(b, i, d.g1, false)
		}
	}
	d.flush()
}

// graphic decodes the character at b[i] in set and returns the number of bytes consumed.
func (d *marc8Decoder) graphic(b []byte, i int, set byte, wide bool) int {
	if wide {
		n := min(3, len(b)-i)
		d.fail(i)
		return n
	}
	code := b[i] & 0x7F
	if set == setBasicLatin {
		d.base(rune(code))
		return 1
	}
	r, ok := marc8Sets[set][code]
	if !ok {
		d.fail(i)
		return 1
	}
	if unicode.Is(unicode.Mn, r) {
		d.pending = append(d.pending, r)
	} else {
		d.base(r)
	}
	return 1
}

// escape interprets the escape sequence at the start of b and returns its length.
func (d *marc8Decoder) escape(b []byte) (int, bool) {
	if len(b) < 2 {
		return 0, false
	}
	switch b[1] {
	case setGreekSymbols, setSubscript, setSuperscript:
		d.g0, d.wide = b[1], false
		return 2, true
	case 's':
		d.g0, d.wide = setBasicLatin, false
		return 2, true
	case '(', ',':
		return d.designate(b, 2, false)
	case ')', '-':
		return d.designate(b, 2, true)
	case '$':
		j := 2
		if j < len(b) && b[j] == ',' {
			j++
		}
		return d.designate(b, j, false)
	}
	return 0, false
}

func (d *marc8Decoder) designate(b []byte, j int, g1 bool) (int, bool) {
	if j < len(b) && b[j] == '!' {
		j++
	}
	if j >= len(b) {
		return 0, false
	}
	final := b[j]
	if _, known := marc8Sets[final]; !known && final != setBasicLatin {
		return 0, false
	}
	if g1 {
		d.g1 = final
	} else {
		d.g0, d.wide = final, final == setCJK
	}
	return j + 1, true
}

func (d *marc8Decoder) base(r rune) {
	d.sb.WriteRune(r)
	d.flush()
}

func (d *marc8Decoder) flush() {
	for _, r := range d.pending {
		d.sb.WriteRune(r)
	}
	d.pending = d.pending[:0]
}

func (d *marc8Decoder) fail(i int) {
	if d.bad < 0 {
		d.bad = i
	}
	d.sb.WriteString(d.repl)
	d.flush()
}
