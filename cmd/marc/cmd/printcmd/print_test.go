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

package printcmd

import (
	"strings"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
)

func TestPrintRecord(t *testing.T) {
	r := gomarc.NewRecord().Append(
		gomarc.NewControlField("008", "990312s1999    nyu           000 1 eng d"),
		gomarc.NewDataField("020", ' ', ' ').Add("a", "0140390847"),
		gomarc.NewDataField("100", '1', ' ').Add("a", "Melville, Herman"),
		gomarc.NewDataField("245", '1', '0').Add("a", "Moby Dick").Add("b", "or, The whale"),
		gomarc.NewDataField("952", ' ', ' ').Add("a", "RCML").Add("p", "31000"),
	)

	var sb strings.Builder
	printRecord(&sb, r, 7)

	want := `------ Record 7 ------
title: 'Moby Dick'
subtitle: 'or, The whale'
author: 'Melville, Herman'
ISBN (020-a): '0140390847'
Date (008): 1999-03-12
Koha holding 1:
  home branch (952-a): 'RCML'
  holding branch (952-b): ''
  collection (952-8): 'undefined'
  call number (952-o): ''
  location (952-c): ''
  price (952-v): ''
  barcode (952-p): '31000'
  acq. date (952-d): 'undefined'
  item type (952-y): 'undefined'
`
	assert.Equal(t, want, sb.String())
}

func TestPrintRecordWithoutAuthor(t *testing.T) {
	r := gomarc.NewRecord().Append(
		gomarc.NewDataField("245", '0', '0').Add("a", "Beowulf").Add("h", "[sound recording]"),
		gomarc.NewDataField("852", ' ', ' ').Add("a", "Main"),
	)

	var sb strings.Builder
	printRecord(&sb, r, 1)

	assert.Contains(t, sb.String(), "media type (245-h): '[sound recording]'\n")
	assert.Contains(t, sb.String(), "author: UNDEFINED!\n")
	assert.Contains(t, sb.String(), "M3 holding 1:\n  branch (852-a): 'Main'\n")
	assert.Contains(t, sb.String(), "  barcode (852-p): ''\n")
}

func TestYymmdd(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"990312s1999", "1999-03-12", true},
		{"600101", "2060-01-01", true},
		{"610101", "1961-01-01", true},
		{"240229", "2024-02-29", true},
		{"2402", "", false},
		{"2402xx", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := yymmdd(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
