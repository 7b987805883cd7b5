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

import "strconv"

// DefaultLeader is the leader of records created with NewRecord.
const DefaultLeader = "00000nam a2200000   4500"

// Leader layout
const (
	LeaderLen = 24

	leaderLengthPos = 0  // Record length, five digits
	leaderCodingPos = 9  // Character coding scheme, 'a' is UCS/Unicode
	leaderBasePos   = 12 // Base address of data, five digits
	leaderDigits    = 5
)

// normalizeLeader returns a copy of leader padded with blanks or truncated to 24 bytes.
func normalizeLeader(leader string) []byte {
	l := make([]byte, LeaderLen)
	n := copy(l, leader)
	for ; n < LeaderLen; n++ {
		l[n] = blank
	}
	return l
}

func clearComputed(l []byte) {
	copy(l[leaderLengthPos:], "00000")
	copy(l[leaderBasePos:], "00000")
}

func setComputed(l []byte, length, base int) {
	copy(l[leaderLengthPos:], zeroPad(length, leaderDigits))
	copy(l[leaderBasePos:], zeroPad(base, leaderDigits))
}

func zeroPad(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// parseDigits parses an unsigned decimal number of ASCII digits.
func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}
