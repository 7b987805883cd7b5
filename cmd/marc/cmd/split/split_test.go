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

package split

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir string, ids ...string) string {
	path := filepath.Join(dir, "in.marc")
	w := gomarc.NewMarcFileWriter(gomarc.WithFileNameGenerator(&gomarc.FixedNameGenerator{Path: path}))
	for _, id := range ids {
		r := gomarc.NewRecord().Append(
			gomarc.NewControlField("001", id),
			gomarc.NewDataField("245", '0', '0').Add("a", "Title "+id))
		require.NoError(t, w.Write(r)[0].Err)
	}
	require.NoError(t, w.Close())
	return path
}

func countRecords(t *testing.T, path string) int {
	n := 0
	err := cmdutil.ReadRecords(path, nil, func(*gomarc.Record, int64) error {
		n++
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestSplit(t *testing.T) {
	in := writeInput(t, t.TempDir(), "1", "2", "3")
	out := t.TempDir()

	require.NoError(t, runE(&conf{input: in, size: 2, dir: out}))
	assert.Equal(t, 2, countRecords(t, filepath.Join(out, "1.marc")))
	assert.Equal(t, 1, countRecords(t, filepath.Join(out, "2.marc")))
	assert.NoFileExists(t, filepath.Join(out, "3.marc"))
}

func TestSplit_KeepsExistingFiles(t *testing.T) {
	in := writeInput(t, t.TempDir(), "1", "2", "3")
	out := t.TempDir()
	existing := filepath.Join(out, "2.marc")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))

	err := runE(&conf{input: in, size: 1, dir: out})
	var precondition *cmdutil.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.EqualError(t, err, existing+" exists; will not overwrite")

	b, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(b))
	assert.Equal(t, 1, countRecords(t, filepath.Join(out, "1.marc")))
}

func TestSplit_Overwrite(t *testing.T) {
	in := writeInput(t, t.TempDir(), "1", "2")
	out := t.TempDir()
	existing := filepath.Join(out, "2.marc")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	viper.Set(cmdutil.KeyOverwrite, true)
	t.Cleanup(func() { viper.Set(cmdutil.KeyOverwrite, false) })

	require.NoError(t, runE(&conf{input: in, size: 1, dir: out}))
	assert.Equal(t, 1, countRecords(t, existing))
}
