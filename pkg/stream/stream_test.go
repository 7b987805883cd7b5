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

package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []*gomarc.Record {
	return []*gomarc.Record{
		gomarc.NewRecord().Append(
			gomarc.NewControlField("001", "ocm12345"),
			gomarc.NewDataField("245", '1', '0').Add("a", "Moby Dick /").Add("c", "Herman Melville."),
		),
		gomarc.NewRecord().Append(
			gomarc.NewControlField("001", "2"),
			gomarc.NewDataField("010", ' ', ' ').Add("a", "  2001012345"),
			gomarc.NewDataField("650", ' ', '0').Add("a", "Whales").Add("a", "Fiction").Add("x", "Price $5"),
		),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := NewWriter(buf, format)
			for _, r := range records() {
				require.NoError(t, w.Write(r))
			}
			assert.Equal(t, 2, w.Count())
			assert.True(t, strings.HasPrefix(buf.String(), "------ Record 1 ------\n"))
			assert.Contains(t, buf.String(), "\n------ Record 2 ------\n")

			var got []*gomarc.Record
			for r, err := range NewReader(buf, format).Records() {
				require.NoError(t, err)
				got = append(got, r)
			}
			require.Len(t, got, 2)
			for i, r := range records() {
				assert.True(t, r.Equal(got[i]), "record %d:\n%s", i+1, got[i])
			}
		})
	}
}

func TestWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewWriter(buf, JSON).Write(records()[0]))
	want := "------ Record 1 ------\n" +
		`{"fields":[` + "\n" +
		`{"001":"ocm12345"},` + "\n" +
		`{"245":{"indicators":["1","0"],"subfields":[{"a":"Moby Dick /"},{"c":"Herman Melville."}]}}],"leader":"00000nam a2200000   4500"}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_JSONDigitSubfieldCodes(t *testing.T) {
	r := gomarc.NewRecord().Append(
		gomarc.NewControlField("001", "1"),
		gomarc.NewDataField("952", ' ', ' ').Add("8", "A").Add("0", "x").Add("p", "31000"),
		gomarc.NewDataField("LOC", ' ', ' ').Add("a", `{"500":1}`),
	)
	r.SetLeader("00000nam a2200000   4500")

	buf := &bytes.Buffer{}
	require.NoError(t, NewWriter(buf, JSON).Write(r))
	want := "------ Record 1 ------\n" +
		`{"fields":[` + "\n" +
		`{"001":"1"},` + "\n" +
		`{"952":{"indicators":[" "," "],"subfields":[{"8":"A"},{"0":"x"},{"p":"31000"}]}},` + "\n" +
		`{"LOC":{"indicators":[" "," "],"subfields":[{"a":"{\"500\":1}"}]}}],"leader":"00000nam a2200000   4500"}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestReader(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		wantIDs []string
		wantErr []string
	}{
		{
			name:    "text without headers",
			format:  Text,
			input:   "=LDR  00000nam\\a2200000\\\\\\4500\n=001  1\n=245  00$aOne\n",
			wantIDs: []string{"1"},
		},
		{
			name:    "blank preamble",
			format:  Text,
			input:   "\n\n------ Record 1 ------\n=001  1\n------ Record 2 ------\r\n=001  2\n",
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "empty records are skipped",
			format:  JSON,
			input:   "------ Record 1 ------\n------ Record 2 ------\n{\"fields\":[{\"001\":\"2\"}]}",
			wantIDs: []string{"2"},
		},
		{
			name:    "bad record in the middle",
			format:  JSON,
			input:   "------ Record 1 ------\n{\"fields\":[{\"001\":\"1\"}]}\n------ Record 2 ------\n{\"fields\":\n------ Record 3 ------\n{\"fields\":[{\"001\":\"3\"}]}\n",
			wantIDs: []string{"1", "3"},
			wantErr: []string{"record 2: "},
		},
		{
			name:    "schema error",
			format:  YAML,
			input:   "------ Record 7 ------\nfields:\n  - 001: x\n    003: y\n",
			wantErr: []string{"record 7: gomarc: must be a map with a single entry at fields[0]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			var errs []string
			for r, err := range NewReader(strings.NewReader(tt.input), tt.format).Records() {
				if err != nil {
					var recordErr *RecordError
					require.True(t, errors.As(err, &recordErr))
					errs = append(errs, err.Error())
					continue
				}
				cf, ok := r.ControlField("001")
				require.True(t, ok)
				ids = append(ids, cf.Value)
			}
			assert.Equal(t, tt.wantIDs, ids)
			require.Len(t, errs, len(tt.wantErr))
			for i, e := range tt.wantErr {
				assert.True(t, strings.HasPrefix(errs[i], e), errs[i])
			}
		})
	}
}

func TestReader_Next(t *testing.T) {
	r := NewReader(strings.NewReader(""), YAML)
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("xml")
	assert.EqualError(t, err, "unknown format 'xml', supported formats are: json, yaml, text")
}
