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

package tabular

import (
	"slices"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row is a table row with optional cells. A nil cell is missing.
type row struct {
	tag, value, inds, subfields *string
}

func cell(s string) *string { return &s }

func get(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

var dollarProfile = Profile[row]{
	Tag:        func(r row) (string, bool) { return get(r.tag) },
	Value:      func(r row) (string, bool) { return get(r.value) },
	Indicators: func(r row) (string, bool) { return get(r.inds) },
	Subfields: func(r row) ([]gomarc.Subfield, bool) {
		s, ok := get(r.subfields)
		if !ok {
			return nil, false
		}
		return SplitMarked(s, "$", ""), true
	},
	Blank: ".#",
	Junk:  "\u00a0",
}

func TestExtract(t *testing.T) {
	rows := []row{
		{tag: cell(" 001 "), value: cell("ocm12345")},
		{tag: cell("245"), inds: cell("00"), subfields: cell("$aMoby Dick")},
	}
	r, v := Extract(slices.Values(rows), dollarProfile)
	assert.True(t, v.Valid())

	want := gomarc.NewRecord().Append(
		gomarc.NewControlField("001", "ocm12345"),
		gomarc.NewDataField("245", '0', '0').Add("a", "Moby Dick"),
	)
	assert.True(t, want.Equal(r), "got:\n%s", r)

	// Encoded and decoded again the fields are unchanged
	b, err := gomarc.Encode(r)
	require.NoError(t, err)
	got, _, err := gomarc.RawRecord(b).Decode()
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got:\n%s", got)
}

func TestExtract_Rows(t *testing.T) {
	tests := []struct {
		name       string
		row        row
		want       gomarc.Field
		wantLeader string
		wantErr    string
	}{
		{
			name: "control field keeps positions",
			row:  row{tag: cell("008"), value: cell("\n  200105s2019\u00a0\u00a0\u00a0\u00a0nyu\u00a0\n")},
			want: gomarc.NewControlField("008", "200105s2019    nyu "),
		},
		{
			name: "placeholder indicators",
			row:  row{tag: cell("650"), inds: cell(".0"), subfields: cell("$aWhales$vFiction.")},
			want: gomarc.NewDataField("650", ' ', '0').Add("a", "Whales").Add("v", "Fiction."),
		},
		{
			name: "single indicator",
			row:  row{tag: cell("100"), inds: cell("1"), subfields: cell("$aMelville, Herman.")},
			want: gomarc.NewDataField("100", '1', ' ').Add("a", "Melville, Herman."),
		},
		{
			name: "padded indicators",
			row:  row{tag: cell("245"), inds: cell("\n  10  \n"), subfields: cell("$aTitle")},
			want: gomarc.NewDataField("245", '1', '0').Add("a", "Title"),
		},
		{
			name: "junk in indicators and values",
			row:  row{tag: cell("651"), inds: cell("\u00a00"), subfields: cell("$aGeorgia\u00a0$xTravel.\u00a0")},
			want: gomarc.NewDataField("651", '0', ' ').Add("a", "Georgia").Add("x", "Travel."),
		},
		{
			name: "repeated codes",
			row:  row{tag: cell("500"), inds: cell("  "), subfields: cell("$aX$aY$bZ")},
			want: gomarc.NewDataField("500", ' ', ' ').Add("a", "X").Add("a", "Y").Add("b", "Z"),
		},
		{
			name:       "leader",
			row:        row{tag: cell("LDR"), value: cell("00000cam a2200000 a 4500")},
			wantLeader: "00000cam a2200000 a 4500",
		},
		{
			name:    "missing tag cell",
			row:     row{value: cell("x")},
			wantErr: "tabular: row 1: missing tag cell",
		},
		{
			name:    "empty tag",
			row:     row{tag: cell("  "), value: cell("x")},
			wantErr: "tabular: row 1: missing tag cell",
		},
		{
			name:    "short tag",
			row:     row{tag: cell("24"), inds: cell("00"), subfields: cell("$ax")},
			wantErr: "tabular: row 1 (24): tag must be three characters",
		},
		{
			name:    "missing value",
			row:     row{tag: cell("001")},
			wantErr: "tabular: row 1 (001): missing value cell",
		},
		{
			name:    "missing indicators",
			row:     row{tag: cell("245"), subfields: cell("$ax")},
			wantErr: "tabular: row 1 (245): missing indicator cell",
		},
		{
			name:    "missing subfields",
			row:     row{tag: cell("245"), inds: cell("00")},
			wantErr: "tabular: row 1 (245): missing subfield cell",
		},
		{
			name:    "text before first subfield",
			row:     row{tag: cell("245"), inds: cell("00"), subfields: cell("Title$bRest")},
			wantErr: "tabular: row 1 (245): text before first subfield: 'Title'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, v := Extract(slices.Values([]row{tt.row}), dollarProfile)
			if tt.wantErr != "" {
				require.Len(t, *v, 1)
				var rowErr *MalformedRowError
				require.ErrorAs(t, (*v)[0], &rowErr)
				assert.EqualError(t, rowErr, tt.wantErr)
				assert.Equal(t, 0, r.Len())
				return
			}
			assert.True(t, v.Valid(), v.String())
			if tt.wantLeader != "" {
				assert.Equal(t, tt.wantLeader, r.Leader())
				assert.Equal(t, 0, r.Len())
				return
			}
			require.Equal(t, 1, r.Len())
			assert.Equal(t, tt.want, r.Fields()[0])
		})
	}
}

func TestExtract_SkipsMalformedRows(t *testing.T) {
	rows := []row{
		{tag: cell("001"), value: cell("1")},
		{tag: cell("100"), inds: cell("1 "), subfields: cell("$aMelville")},
		{value: cell("lost tag")},
		{tag: cell("245"), inds: cell("10"), subfields: cell("$aMoby Dick")},
		{tag: cell("650"), subfields: cell("$aWhales")},
		{tag: cell("700"), inds: cell("1 "), subfields: cell("$aIshmael")},
	}
	r, v := Extract(slices.Values(rows), dollarProfile)

	var tags []string
	for _, f := range r.Fields() {
		tags = append(tags, f.Tag())
	}
	assert.Equal(t, []string{"001", "100", "245", "700"}, tags)

	require.Len(t, *v, 2)
	assert.EqualError(t, (*v)[0], "tabular: row 3: missing tag cell")
	assert.EqualError(t, (*v)[1], "tabular: row 5 (650): missing indicator cell")
}

func TestProfile_Indicators(t *testing.T) {
	junkOnly := &Profile[row]{Blank: ".", Junk: "\u00a0"}
	blankAndJunk := &Profile[row]{Blank: "\u00a0", Junk: "\u00a0"}

	tests := []struct {
		name    string
		profile *Profile[row]
		inds    string
		want    [2]byte
	}{
		{"junk removed", junkOnly, "\u00a00", [2]byte{'0', ' '}},
		{"blank placeholder first", blankAndJunk, "\u00a00", [2]byte{' ', '0'}},
		{"blank placeholder second", blankAndJunk, "1\u00a0", [2]byte{'1', ' '}},
		{"both blank", blankAndJunk, "\u00a0\u00a0", [2]byte{' ', ' '}},
		{"line breaks dropped", blankAndJunk, "\n\u00a04\n", [2]byte{' ', '4'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind1, ind2 := tt.profile.indicators(tt.inds)
			assert.Equal(t, tt.want, [2]byte{ind1, ind2})
		})
	}
}

func TestSplitMarked(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		marker      string
		defaultCode string
		want        []gomarc.Subfield
	}{
		{"empty", "", "$", "", nil},
		{"one", "$aTitle", "$", "", []gomarc.Subfield{{Code: "a", Value: "Title"}}},
		{"empty parts", "$$aX$", "$", "", []gomarc.Subfield{{Code: "a", Value: "X"}}},
		{"code only", "$a", "$", "", []gomarc.Subfield{{Code: "a", Value: ""}}},
		{"blank lead", "  $aX", "$", "", []gomarc.Subfield{{Code: "a", Value: "X"}}},
		{"lead without code", "Title$bRest", "$", "", []gomarc.Subfield{{Code: "", Value: "Title"}, {Code: "b", Value: "Rest"}}},
		{"lead with default code", "Georgia (Republic)\u00a0$x Description", "\u00a0$", "a",
			[]gomarc.Subfield{{Code: "a", Value: "Georgia (Republic)"}, {Code: "x", Value: " Description"}}},
		{"multibyte code", "‡aX‡ßY", "‡", "", []gomarc.Subfield{{Code: "a", Value: "X"}, {Code: "ß", Value: "Y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMarked(tt.text, tt.marker, tt.defaultCode))
		})
	}
}
