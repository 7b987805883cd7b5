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

package recode

import (
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	input  string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "recode INPUT OUTPUT",
		Short: "Convert a MARC file to UTF-8",
		Long: `Convert a MARC file to UTF-8.

The input is read as MARC-8 unless another encoding is given. Leader position 9 of
the output records is set to 'a'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			c.output = args[1]
			return runE(c)
		},
	}

	cmd.Flags().StringP(cmdutil.KeyEncoding, "e", string(gomarc.MARC8),
		"encoding of MARC input: UTF-8, MARC-8, auto (from leader) or an IANA character set name")
	cmdutil.AddOutputFlags(cmd, false)

	return cmd
}

func runE(c *conf) error {
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	if e, _ := gomarc.ParseEncoding(viper.GetString(cmdutil.KeyEncoding)); e == gomarc.UTF8 {
		log.Warnf("input encoding is %s; records are copied without conversion", e)
	}

	out, err := cmdutil.NewOutput(c.output, gomarc.WithUnicodeLeader(true))
	if err != nil {
		return err
	}
	err = cmdutil.ReadRecords(c.input, opts, func(r *gomarc.Record, _ int64) error {
		return out.Write(r)
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
