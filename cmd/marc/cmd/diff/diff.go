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

package diff

import (
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
	old    string
	new    string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "diff OLD NEW OUTPUT",
		Short: "Write the records of NEW with holdings missing from OLD",
		Long: `Compare two MARC files by holding barcode, read from 852 $p unless --tag and --code
say otherwise. Records of NEW with a barcode that OLD does not have are written to OUTPUT.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.old = args[0]
			c.new = args[1]
			c.output = args[2]
			return runE(c)
		},
	}

	cmd.Flags().String(keyTag, "852", "tag of holding fields")
	cmd.Flags().String(keyCode, "p", "subfield code of barcodes")
	cmdutil.AddEncodingFlag(cmd)
	cmdutil.AddOutputFlags(cmd, true)

	return cmd
}

func runE(c *conf) (err error) {
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	tag, code := viper.GetString(keyTag), viper.GetString(keyCode)
	dryRun := viper.GetBool(cmdutil.KeyDryRun)

	seen := make(map[string]bool)
	err = cmdutil.ReadRecords(c.old, opts, func(r *gomarc.Record, _ int64) error {
		for _, b := range barcodes(r, tag, code) {
			seen[b] = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Debugf("%d barcodes in %s", len(seen), c.old)

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

	return cmdutil.ReadRecords(c.new, opts, func(r *gomarc.Record, _ int64) error {
		if !isNew(r, tag, code, seen) {
			return nil
		}
		if dryRun {
			fmt.Println(cmdutil.Identify(r))
			return nil
		}
		return out.Write(r)
	})
}

func barcodes(r *gomarc.Record, tag, code string) []string {
	var b []string
	for f := range r.DataFields(tag) {
		b = append(b, f.SubfieldValues(code)...)
	}
	return b
}

// isNew reports whether r has a barcode that is not in seen. Records without barcodes are
// never new.
func isNew(r *gomarc.Record, tag, code string, seen map[string]bool) bool {
	b := barcodes(r, tag, code)
	if len(b) == 0 {
		log.Warnf("record %s has no barcode", cmdutil.Identify(r))
		return false
	}
	for _, v := range b {
		if !seen[v] {
			return true
		}
	}
	return false
}
