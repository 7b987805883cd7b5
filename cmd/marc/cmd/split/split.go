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
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	input string
	size  int
	dir   string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "split INPUT SIZE",
		Short: "Split a MARC file into files of at most SIZE records",
		Long: `Split a MARC file into files named 1.marc, 2.marc and so on, each holding at most
SIZE records.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			size, err := strconv.Atoi(args[1])
			if err != nil || size < 1 {
				return cmdutil.Preconditionf("SIZE must be a positive number, was '%s'", args[1])
			}
			c.size = size
			return runE(c)
		},
	}

	cmd.Flags().StringVar(&c.dir, "dir", "", "directory to write files to, default is current directory")
	cmdutil.AddEncodingFlag(cmd)
	cmdutil.AddOutputFlags(cmd, false)

	return cmd
}

func runE(c *conf) error {
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	if err := cmdutil.CheckOutput(filepath.Join(c.dir, "1.marc")); err != nil {
		return err
	}

	w := gomarc.NewMarcFileWriter(
		gomarc.WithFileNameGenerator(&gomarc.PatternNameGenerator{Directory: c.dir}),
		gomarc.WithMaxRecords(c.size),
		gomarc.WithOverwrite(viper.GetBool(cmdutil.KeyOverwrite)))

	count := 0
	err = cmdutil.ReadRecords(c.input, opts, func(r *gomarc.Record, _ int64) error {
		res := w.Write(r)[0]
		var pathErr *fs.PathError
		if errors.As(res.Err, &pathErr) && errors.Is(res.Err, fs.ErrExist) {
			return cmdutil.Preconditionf("%s exists; will not overwrite", pathErr.Path)
		}
		if res.Err != nil {
			return fmt.Errorf("record %s: %w", cmdutil.Identify(r), res.Err)
		}
		count++
		return nil
	})
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	files := (count + c.size - 1) / c.size
	log.Infof("%d records written to %d files", count, files)
	return nil
}
