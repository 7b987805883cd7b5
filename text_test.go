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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantLeader string
		want       []Field
		wantErr    string
	}{
		{
			name: "record",
			text: "=LDR  00000cam\\a2200000\\a\\4500\n" +
				"=001  ocm12345\n" +
				"=008  200105s2019\\\\\\\\nyu\n" +
				"=245  10$aMoby Dick /$cHerman Melville.\n",
			wantLeader: "00000cam a2200000 a 4500",
			want: []Field{
				NewControlField("001", "ocm12345"),
				NewControlField("008", "200105s2019    nyu"),
				NewDataField("245", '1', '0').Add("a", "Moby Dick /").Add("c", "Herman Melville."),
			},
		},
		{
			name:       "no leader",
			text:       "=245  \\\\$aTitle",
			wantLeader: DefaultLeader,
			want:       []Field{NewDataField("245", ' ', ' ').Add("a", "Title")},
		},
		{
			name:       "000 sets the leader",
			text:       "=000  01234nam\\\\2200289\\\\\\4500\r\n=001  1\r\n",
			wantLeader: "01234nam  2200289   4500",
			want:       []Field{NewControlField("001", "1")},
		},
		{
			name:       "missing indicators",
			text:       "=500  $aNote",
			wantLeader: DefaultLeader,
			want:       []Field{NewDataField("500", ' ', ' ').Add("a", "Note")},
		},
		{
			name:       "one indicator",
			text:       "=650  0$aWhales",
			wantLeader: DefaultLeader,
			want:       []Field{NewDataField("650", '0', ' ').Add("a", "Whales")},
		},
		{
			name:       "escapes",
			text:       "=245  00$aPrice {dollar}5 {bsol} cheap$bA\\B",
			wantLeader: DefaultLeader,
			want:       []Field{NewDataField("245", '0', '0').Add("a", "Price $5 \\ cheap").Add("b", "A B")},
		},
		{
			name:       "continuation lines",
			text:       "=520  \\\\$aFirst line\nsecond line\n\n=650  \\0$aWhales\n",
			wantLeader: DefaultLeader,
			want: []Field{
				NewDataField("520", ' ', ' ').Add("a", "First line\nsecond line\n"),
				NewDataField("650", ' ', '0').Add("a", "Whales"),
			},
		},
		{
			name:       "repeated codes",
			text:       "=650  \\7$aWhales$aFiction$vNovels",
			wantLeader: DefaultLeader,
			want:       []Field{NewDataField("650", ' ', '7').Add("a", "Whales").Add("a", "Fiction").Add("v", "Novels")},
		},
		{
			name:    "text before first field",
			text:    "junk\n=001  1",
			wantErr: "gomarc: line 1: text before first field",
		},
		{
			name:    "text before first subfield",
			text:    "=001  1\n=245  00Title$aTitle",
			wantErr: "gomarc: line 2: text before first subfield in field 245",
		},
		{
			name:    "missing tag",
			text:    "=24",
			wantErr: "gomarc: line 1: missing tag in '=24'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseText(tt.text)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeader, got.Leader())
			assert.Equal(t, tt.want, got.Fields())
		})
	}
}

func TestWriteText_RoundTrip(t *testing.T) {
	records := []*Record{
		holdingsRecord(),
		NewRecord().Append(
			NewControlField("001", "  padded  "),
			NewDataField("245", ' ', '4').Add("a", "The {curly} $ and \\ /").Add("b", "two\nlines"),
			NewDataField("999", ' ', ' '),
		),
		NewRecord().Append(
			NewControlField("005", "\tstarts with a tab"),
			NewDataField("500", ' ', ' ').Add("a", "literal {dollar} and {bsol}"),
			NewDataField("245", '1', '0').Add("a", "first line\n=245  00$anot a field").Add("b", "\n=\n"),
			NewDataField("520", ' ', ' ').Add("a", "{lcub} {equals}"),
		),
	}
	for _, r := range records {
		sb := &strings.Builder{}
		require.NoError(t, WriteText(sb, r))
		got, err := ParseText(sb.String())
		require.NoError(t, err)
		assert.Equal(t, r.Leader(), got.Leader())
		assert.True(t, r.Equal(got), "got:\n%s", got)
	}
}
