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

// MARC-8 graphic character sets, identified by their final character in escape sequences.
const (
	setBasicLatin    = 'B'
	setANSEL         = 'E'
	setGreekSymbols  = 'g'
	setSubscript     = 'b'
	setSuperscript   = 'p'
	setBasicCyrillic = 'N'
	setExtCyrillic   = 'Q'
	setBasicGreek    = 'S'
	setHebrew        = '2'
	setBasicArabic   = '3'
	setExtArabic     = '4'
	setCJK           = '1'
)

// marc8Sets maps a character set to its characters keyed by 7 bit code.
// Sets without a table are recognized but not transliterated.
var marc8Sets = map[byte]map[byte]rune{
	setANSEL: {
		0x21: 'Ł', 0x22: 'Ø', 0x23: 'Đ', 0x24: 'Þ', 0x25: 'Æ', 0x26: 'Œ', 0x27: 'ʹ',
		0x28: '·', 0x29: '♭', 0x2A: '®', 0x2B: '±', 0x2C: 'Ơ', 0x2D: 'Ư', 0x2E: 'ʼ',
		0x30: 'ʻ', 0x31: 'ł', 0x32: 'ø', 0x33: 'đ', 0x34: 'þ', 0x35: 'æ', 0x36: 'œ',
		0x37: 'ʺ', 0x38: 'ı', 0x39: '£', 0x3A: 'ð', 0x3C: 'ơ', 0x3D: 'ư',
		0x40: '°', 0x41: 'ℓ', 0x42: '℗', 0x43: '©', 0x44: '♯', 0x45: '¿', 0x46: '¡',
		0x47: 'ß', 0x48: '€',
		// Combining diacritics
		0x60: '\u0309', 0x61: '\u0300', 0x62: '\u0301', 0x63: '\u0302', 0x64: '\u0303',
		0x65: '\u0304', 0x66: '\u0306', 0x67: '\u0307', 0x68: '\u0308', 0x69: '\u030C',
		0x6A: '\u030A', 0x6B: '\uFE20', 0x6C: '\uFE21', 0x6D: '\u0315', 0x6E: '\u030B',
		0x6F: '\u0310', 0x70: '\u0327', 0x71: '\u0328', 0x72: '\u0323', 0x73: '\u0324',
		0x74: '\u0325', 0x75: '\u0333', 0x76: '\u0332', 0x77: '\u0326', 0x78: '\u031C',
		0x79: '\u032E', 0x7A: '\uFE22', 0x7B: '\uFE23', 0x7E: '\u0313',
	},
	setGreekSymbols: {
		0x61: 'α', 0x62: 'β', 0x63: 'γ',
	},
	setSubscript: {
		0x28: '₍', 0x29: '₎', 0x2B: '₊', 0x2D: '₋',
		0x30: '₀', 0x31: '₁', 0x32: '₂', 0x33: '₃', 0x34: '₄',
		0x35: '₅', 0x36: '₆', 0x37: '₇', 0x38: '₈', 0x39: '₉',
	},
	setSuperscript: {
		0x28: '⁽', 0x29: '⁾', 0x2B: '⁺', 0x2D: '⁻',
		0x30: '⁰', 0x31: '¹', 0x32: '²', 0x33: '³', 0x34: '⁴',
		0x35: '⁵', 0x36: '⁶', 0x37: '⁷', 0x38: '⁸', 0x39: '⁹',
	},
	setBasicCyrillic: cyrillic(),
	setExtCyrillic:   nil,
	setBasicGreek:    nil,
	setHebrew:        nil,
	setBasicArabic:   nil,
	setExtArabic:     nil,
	setCJK:           nil,
}

// cyrillic builds the MARC-8 basic Cyrillic set. Codes below 0x40 are shared with ASCII.
func cyrillic() map[byte]rune {
	const lower = "юабцдефгхийклмнопярстужвьызшэщчъ"
	const upper = "ЮАБЦДЕФГХИЙКЛМНОПЯРСТУЖВЬЫЗШЭЩЧ"
	m := make(map[byte]rune, 0x5E)
	for c := byte(0x21); c < 0x40; c++ {
		m[c] = rune(c)
	}
	c := byte(0x40)
	for _, r := range lower {
		m[c] = r
		c++
	}
	c = 0x60
	for _, r := range upper {
		m[c] = r
		c++
	}
	return m
}

// marc8Specials are the code points in the C1 range used by MARC-8.
var marc8Specials = map[byte]rune{
	0x88: '\u0098', // Non-sort beginning
	0x89: '\u009C', // Non-sort end
	0x8D: '\u200D', // Joiner
	0x8E: '\u200C', // Non-joiner
}
