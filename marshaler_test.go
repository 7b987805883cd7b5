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
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_EndToEnd(t *testing.T) {
	r := NewRecord().Append(
		NewControlField("001", "ocm12345"),
		NewDataField("245", '0', '0').Add("a", "Moby Dick"),
	)

	b, err := Encode(r)
	require.NoError(t, err)
	want := "00073nam a2200049   4500" +
		"001000900000" +
		"245001400009" +
		"\x1e" +
		"ocm12345\x1e" +
		"00\x1faMoby Dick\x1e" +
		"\x1d"
	assert.Equal(t, want, string(b))

	got, validation, err := RawRecord(b).Decode()
	require.NoError(t, err)
	assert.True(t, validation.Valid(), validation.String())
	require.Equal(t, 2, got.Len())

	cf, ok := got.Fields()[0].(*ControlField)
	require.True(t, ok)
	assert.Equal(t, "001", cf.Tag())
	assert.Equal(t, "ocm12345", cf.Value)

	df, ok := got.Fields()[1].(*DataField)
	require.True(t, ok)
	assert.Equal(t, "245", df.Tag())
	assert.Equal(t, byte('0'), df.Indicator1())
	assert.Equal(t, byte('0'), df.Indicator2())
	assert.Equal(t, []Subfield{{"a", "Moby Dick"}}, df.Subfields)
}

func TestEncode_DirectoryConsistency(t *testing.T) {
	r := holdingsRecord()
	r.Append(NewDataField("500", ' ', ' ').Add("a", "Ærlig talt, så går det."))

	b, err := Encode(r)
	require.NoError(t, err)

	base, ok := parseDigits(b[leaderBasePos : leaderBasePos+leaderDigits])
	require.True(t, ok)
	dir := b[LeaderLen : base-1]
	require.Equal(t, r.Len()*dirEntryLen, len(dir))
	assert.Equal(t, byte(ft), b[base-1])

	expectedOffset := 0
	for i, f := range r.Fields() {
		entry := dir[i*dirEntryLen : (i+1)*dirEntryLen]
		assert.Equal(t, f.Tag(), string(entry[:3]))
		length, _ := parseDigits(entry[3:7])
		offset, _ := parseDigits(entry[7:12])
		assert.Equal(t, expectedOffset, offset, "offset of field %d", i)

		data := b[base+offset : base+offset+length]
		assert.Equal(t, byte(ft), data[len(data)-1], "field %d ends with terminator", i)
		assert.Equal(t, -1, bytes.IndexByte(data[:len(data)-1], ft), "field %d has a single terminator", i)
		expectedOffset += length
	}
	assert.Equal(t, len(b), base+expectedOffset+1)
	assert.Equal(t, byte(rt), b[len(b)-1])
}

func TestEncode_LeaderRecomputation(t *testing.T) {
	tests := []struct {
		name       string
		leader     string
		wantLeader string
	}{
		{"wrong values", "99999nam a2299999   4500", "00040nam a2200037   4500"},
		{"short", "nam", "00040       00037       "},
		{"empty", "", "00040       00037       "},
		{"long", "00000nam a2200000   4500EXTRA", "00040nam a2200037   4500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord()
			r.SetLeader(tt.leader)
			r.Append(NewControlField("001", "x"))

			b, err := Encode(r)
			require.NoError(t, err)
			assert.Len(t, b, 40)
			assert.Equal(t, tt.wantLeader, string(b[:LeaderLen]))
		})
	}
}

func TestEncode_UnicodeLeader(t *testing.T) {
	b, err := Encode(NewRecord().Append(NewControlField("001", "x")), WithUnicodeLeader(true))
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b[leaderCodingPos])

	r := NewRecord()
	r.SetLeader("00000nam  2200000   4500")
	b, err = Encode(r)
	require.NoError(t, err)
	assert.Equal(t, byte(' '), b[leaderCodingPos])
}

func TestEncode_Errors(t *testing.T) {
	bigField := strings.Repeat("x", 10000)
	var manyFields []Field
	for i := 0; i < 12; i++ {
		manyFields = append(manyFields, NewDataField(strconv.Itoa(500+i), ' ', ' ').Add("a", strings.Repeat("y", 8990)))
	}

	tests := []struct {
		name      string
		fields    []Field
		tooLarge  bool
		wantError string
	}{
		{"field too long", []Field{NewDataField("520", ' ', ' ').Add("a", bigField)}, true, "field length 10005 exceeds 9999 at field 520"},
		{"record too long", manyFields, true, "record length"},
		{"short tag", []Field{NewControlField("01", "x")}, false, "tag must be three characters"},
		{"empty code", []Field{NewDataField("245", '0', '0').Add("", "x")}, false, "empty subfield code"},
		{"long code", []Field{NewDataField("245", '0', '0').Add("ab", "x")}, false, "subfield code 'ab' must be one character"},
		{"multibyte code", []Field{NewDataField("245", '0', '0').Add("ßa", "x")}, false, "subfield code 'ßa' must be one character"},
		{"delimiter in value", []Field{NewDataField("245", '0', '0').Add("a", "x\x1ey")}, false, "value contains a delimiter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord().Append(tt.fields...)
			buf := &bytes.Buffer{}
			n, err := NewMarshaler().Marshal(buf, r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
			assert.Equal(t, tt.tooLarge, errors.Is(err, ErrRecordTooLarge))
			assert.Equal(t, int64(0), n)
			assert.Equal(t, 0, buf.Len(), "nothing is written")
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
	}{
		{"empty", NewRecord()},
		{"holdings", holdingsRecord()},
		{"duplicate subfield codes", NewRecord().Append(
			NewDataField("650", ' ', '0').Add("a", "X").Add("a", "Y").Add("b", "Z"))},
		{"control range edges", NewRecord().Append(
			NewControlField("009", "last control"),
			NewDataField("010", ' ', ' ').Add("a", "   85000002 "))},
		{"empty values", NewRecord().Append(
			NewControlField("007", ""),
			NewDataField("245", '0', '0').Add("a", ""),
			NewDataField("246", '3', ' '))},
		{"unicode", NewRecord().Append(
			NewDataField("245", '1', '0').Add("a", "Мир и война").Add("b", "東京 / ").Add("c", "Brontë"))},
		{"multibyte subfield code", NewRecord().Append(
			NewDataField("880", ' ', ' ').Add("ß", "X").Add("a", "Y"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.record)
			require.NoError(t, err)

			got, validation, err := RawRecord(b).Decode(WithEncodingPolicy(ErrFail), WithSyntaxErrorPolicy(ErrFail))
			require.NoError(t, err)
			assert.True(t, validation.Valid())
			assert.True(t, tt.record.Equal(got), "want:\n%s\ngot:\n%s", tt.record, got)
		})
	}
}
