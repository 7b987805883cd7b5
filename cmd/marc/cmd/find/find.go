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

package find

import (
	"errors"
	"fmt"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyTag  = "tag"
	keyCode = "code"
)

type conf struct {
	input   string
	barcode string
	output  string
}

var errFound = errors.New("found")

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "find INPUT BARCODE OUTPUT",
		Short: "Copy the record holding an item with the given barcode",
		Long: `Find the first record of INPUT with a holding whose barcode equals BARCODE and
write it to OUTPUT. Barcodes are read from 952 $p unless --tag and --code say otherwise.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			c.barcode = args[1]
			c.output = args[2]
			return runE(c)
		},
	}

	cmd.Flags().String(keyTag, "952", "tag of holding fields")
	cmd.Flags().String(keyCode, "p", "subfield code of barcodes")
	cmdutil.AddEncodingFlag(cmd)
	cmdutil.AddOutputFlags(cmd, true)

	return cmd
}

func runE(c *conf) error {
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	tag, code := viper.GetString(keyTag), viper.GetString(keyCode)

	var found *gomarc.Record
	err = cmdutil.ReadRecords(c.input, opts, func(r *gomarc.Record, offset int64) error {
		if !hasBarcode(r, tag, code, c.barcode) {
			return nil
		}
		log.Debugf("found %s at offset %d", cmdutil.Identify(r), offset)
		found = r
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return err
	}
	if found == nil {
		return cmdutil.Preconditionf("no record with barcode %s in %s", c.barcode, c.input)
	}

	if viper.GetBool(cmdutil.KeyDryRun) {
		fmt.Println(cmdutil.Identify(found))
		return nil
	}
	out, err := cmdutil.NewOutput(c.output)
	if err != nil {
		return err
	}
	if err := out.Write(found); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func hasBarcode(r *gomarc.Record, tag, code, barcode string) bool {
	for f := range r.DataFields(tag) {
		for _, v := range f.SubfieldValues(code) {
			if v == barcode {
				return true
			}
		}
	}
	return false
}
