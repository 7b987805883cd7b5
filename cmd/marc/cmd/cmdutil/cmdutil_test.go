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

package cmdutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, title string) *gomarc.Record {
	r := gomarc.NewRecord()
	if id != "" {
		r.Append(gomarc.NewControlField("001", id))
	}
	if title != "" {
		r.Append(gomarc.NewDataField("245", '1', '0').Add("a", title))
	}
	return r
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		title string
		want  string
	}{
		{"both", "ocm1", "Moby Dick", "ocm1 (Moby Dick)"},
		{"id", "ocm1", "", "ocm1"},
		{"title", "", "Moby Dick", "'Moby Dick'"},
		{"none", "", "", "without 001 and 245"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identify(record(tt.id, tt.title)))
		})
	}
}

func TestOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.marc")

	out, err := NewOutput(path)
	require.NoError(t, err)
	require.NoError(t, out.Write(record("1", "First")))
	require.NoError(t, out.Write(record("2", strings.Repeat("x", 10000))))
	require.NoError(t, out.Write(record("3", "Third")))
	require.NoError(t, out.Close())
	assert.Equal(t, 2, out.Count())

	var ids []string
	var offsets []int64
	err = ReadRecords(path, nil, func(r *gomarc.Record, offset int64) error {
		cf, _ := r.ControlField("001")
		ids = append(ids, cf.Value)
		offsets = append(offsets, offset)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids)
	assert.Equal(t, int64(0), offsets[0])
	assert.Greater(t, offsets[1], int64(0))
}

func TestCheckOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.marc")
	assert.NoError(t, CheckOutput(path))

	require.NoError(t, os.WriteFile(path, nil, 0666))
	err := CheckOutput(path)
	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	assert.EqualError(t, err, path+" exists; will not overwrite")

	viper.Set(KeyOverwrite, true)
	t.Cleanup(func() { viper.Set(KeyOverwrite, false) })
	assert.NoError(t, CheckOutput(path))
}

func TestReaderOptions(t *testing.T) {
	t.Cleanup(func() { viper.Set(KeyEncoding, "") })

	viper.Set(KeyEncoding, "MARC-8")
	opts, err := ReaderOptions()
	assert.NoError(t, err)
	assert.Len(t, opts, 1)

	viper.Set(KeyEncoding, "no-such-charset")
	_, err = ReaderOptions()
	assert.Error(t, err)
}
