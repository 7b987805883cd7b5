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

package importcmd

import (
	"bufio"
	"errors"
	"os"

	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/nlnwa/gomarc/pkg/stream"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	format string
	input  string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "import --format json|yaml|text INPUT OUTPUT",
		Short: "Convert JSON, YAML or text records to a MARC file",
		Long: `Convert a document with one or more records in JSON, YAML or text notation to a
MARC file. Records are separated by '------ Record N ------' lines; a document
without such lines holds a single record. Records that cannot be read are skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			c.output = args[1]
			return runE(c)
		},
	}

	cmd.Flags().StringVarP(&c.format, "format", "f", string(stream.JSON), "input format: json, yaml or text")
	cmdutil.AddOutputFlags(cmd, false)

	return cmd
}

func runE(c *conf) (err error) {
	format, err := stream.ParseFormat(c.format)
	if err != nil {
		return cmdutil.Preconditionf("%v", err)
	}

	f, err := os.Open(c.input)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	out, err := cmdutil.NewOutput(c.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	r := stream.NewReader(bufio.NewReader(f), format)
	for record, err := range r.Records() {
		var recordErr *stream.RecordError
		if errors.As(err, &recordErr) {
			log.Warnf("skipping %v", recordErr)
			continue
		}
		if err != nil {
			return err
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	return nil
}
