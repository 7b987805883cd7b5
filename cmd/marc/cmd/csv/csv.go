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

package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/nlnwa/gomarc/pkg/catalog"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyBranch    = "branch"
	keyItemType  = "item-type"
	keyLocations = "csv.locations"
)

type conf struct {
	input  string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	m := catalog.DefaultMapping()
	var cmd = &cobra.Command{
		Use:   "csv INPUT OUTPUT",
		Short: "Convert a CSV book catalog to a MARC file with Koha holdings",
		Long: `Convert a CSV export from collectorz.com to a MARC file with one record per row.
Each record gets a Koha holding (952) with collection, branch, location, call number,
barcode and item type.

The location table can be extended in the config file:

  csv:
    locations:
      dvd: A`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			c.output = args[1]
			return runE(c)
		},
	}

	cmd.Flags().String(keyBranch, m.Branch, "home and holding branch of the items")
	cmd.Flags().String(keyItemType, m.ItemType, "Koha item type of the items")
	cmdutil.AddOutputFlags(cmd, true)

	return cmd
}

func mapping() catalog.Mapping {
	m := catalog.DefaultMapping()
	if b := viper.GetString(keyBranch); b != "" {
		m.Branch = b
	}
	if t := viper.GetString(keyItemType); t != "" {
		m.ItemType = t
	}
	if l := viper.GetStringMapString(keyLocations); len(l) > 0 {
		m = m.WithLocations(l)
	}
	return m
}

func runE(c *conf) (err error) {
	dryRun := viper.GetBool(cmdutil.KeyDryRun)

	f, err := os.Open(c.input)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	conv, err := catalog.NewConverter(bufio.NewReader(f), mapping())
	var missing *catalog.MissingColumnError
	if errors.As(err, &missing) {
		return cmdutil.Preconditionf("%s: %v", c.input, missing)
	}
	if err != nil {
		return err
	}

	var out *cmdutil.Output
	if !dryRun {
		if out, err = cmdutil.NewOutput(c.output); err != nil {
			return err
		}
		defer func() {
			if cerr := out.Close(); err == nil {
				err = cerr
			}
		}()
	}

	rows := 0
	for {
		record, row, err := conv.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", c.input, err)
		}
		rows++
		if dryRun {
			fmt.Printf("%d: %s\n", row.Line, row.Summary())
			continue
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	log.Infof("%d rows read from %s", rows, c.input)
	return nil
}
