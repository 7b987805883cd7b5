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

package cat

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	offset      int64
	recordCount int
	fileNames   []string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "cat FILE...",
		Short: "Print the records of MARC files in text notation",
		Long: `Print the records of MARC files in text notation, one line per field:

  =LDR  00000nam\a2200000\\\4500
  =001  ocm12345
  =245  10$aMoby Dick /$cHerman Melville.

A backslash is a blank in the leader, control fields and indicators.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.fileNames = args
			if c.offset >= 0 && c.recordCount == 0 {
				c.recordCount = 1
			}
			if c.offset < 0 {
				c.offset = 0
			}
			return runE(c)
		},
	}

	cmd.Flags().Int64Var(&c.offset, "offset", -1, "record offset")
	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmdutil.AddEncodingFlag(cmd)

	return cmd
}

func runE(c *conf) error {
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	for _, fileName := range c.fileNames {
		if err := readFile(c, fileName, opts); err != nil {
			return err
		}
	}
	return nil
}

func readFile(c *conf, fileName string, opts []gomarc.Option) error {
	mr, err := gomarc.NewMarcFileReader(fileName, c.offset, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = mr.Close() }()
	log.Infof("Opening %s", fileName)

	heading := color.New(color.FgCyan)
	count := 0
	for {
		raw, offset, err := mr.NextRaw()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", fileName, count+1, err)
		}
		count++
		_, _ = heading.Printf("------ Record %d (offset %d) ------\n", count, offset)
		record, validation, err := mr.Decode(raw)
		if err != nil {
			log.Errorf("record %d: %v", count, err)
		} else {
			if !validation.Valid() {
				log.Warn(validation.String())
			}
			if err := gomarc.WriteText(os.Stdout, record); err != nil {
				return err
			}
		}

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	log.Infof("%d records handled", count)
	return nil
}
