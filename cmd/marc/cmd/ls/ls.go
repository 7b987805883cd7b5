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

package ls

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
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
		Use:   "ls FILE...",
		Short: "List the records of MARC files",
		Long: `List the records of MARC files with one line per record: the offset of the record
in the file, the control number (001) and the title (245 $a).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.fileNames = args
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

	if len(c.fileNames) > 1 {
		color.New(color.Bold).Println(fileName)
	}

	count := 0
	for {
		raw, offset, err := mr.NextRaw()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v, rec num: %v, Offset %v\n", err, count+1, offset)
			break
		}
		count++
		record, _, err := mr.Decode(raw)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v, rec num: %v, Offset %v\n", err, count, offset)
		} else {
			printRecord(os.Stdout, offset, record)
		}

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	fmt.Fprintln(os.Stderr, "Count: ", count)
	return nil
}

func printRecord(w io.Writer, offset int64, record *gomarc.Record) {
	var id string
	if cf, ok := record.ControlField("001"); ok {
		id = cf.Value
	}
	title, _ := record.Subfield("245", "a")
	_, _ = fmt.Fprintf(w, "%v\t%s\t%s\n", offset, id, title)
}
