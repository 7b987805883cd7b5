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

package export

import (
	"bufio"
	"os"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/nlnwa/gomarc/pkg/stream"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	format    string
	fileNames []string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "export --format json|yaml|text FILE...",
		Short: "Write the records of MARC files as JSON, YAML or text",
		Long: `Write the records of MARC files to standard output as JSON, YAML or text. Each
record is preceded by a '------ Record N ------' line, so the output can be read back
with the import command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.fileNames = args
			return runE(c)
		},
	}

	cmd.Flags().StringVarP(&c.format, "format", "f", string(stream.JSON), "output format: json, yaml or text")
	cmdutil.AddEncodingFlag(cmd)

	return cmd
}

func runE(c *conf) error {
	format, err := stream.ParseFormat(c.format)
	if err != nil {
		return cmdutil.Preconditionf("%v", err)
	}
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	w := stream.NewWriter(out, format)
	for _, fileName := range c.fileNames {
		err := cmdutil.ReadRecords(fileName, opts, func(r *gomarc.Record, _ int64) error {
			return w.Write(r)
		})
		if err != nil {
			_ = out.Flush()
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	log.Debugf("%d records exported", w.Count())
	return nil
}
