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

package html

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/nlnwa/gomarc/pkg/scrape"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	site   string
	input  string
	output string
}

func NewCommand() *cobra.Command {
	c := &conf{}

	var names []string
	for _, s := range scrape.Sites() {
		names = append(names, "  "+s.Name+"\t"+s.Description)
	}

	var cmd = &cobra.Command{
		Use:   "html --site NAME INPUT OUTPUT",
		Short: "Convert the MARC view of a catalog web page to a MARC file",
		Long: `Convert the MARC view of a catalog web page to a MARC file. INPUT is a saved
HTML file or an http(s) URL.

Supported sites:
` + strings.Join(names, "\n"),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.input = args[0]
			c.output = args[1]
			return runE(cmd.Context(), c)
		},
	}

	cmd.Flags().StringVarP(&c.site, "site", "s", "", "the catalog product that rendered the page")
	cmd.Flags().Duration("timeout", 30*time.Second, "timeout for fetching a URL")
	cmd.Flags().Int("retries", 3, "number of attempts when fetching a URL")
	cmdutil.AddOutputFlags(cmd, true)
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func runE(ctx context.Context, c *conf) error {
	site, err := scrape.Lookup(c.site)
	if err != nil {
		return cmdutil.Preconditionf("%v", err)
	}
	dryRun := viper.GetBool(cmdutil.KeyDryRun)
	if !dryRun {
		if err := cmdutil.CheckOutput(c.output); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fetcher := scrape.NewFetcher(
		scrape.WithTimeout(viper.GetDuration("timeout")),
		scrape.WithRetries(viper.GetInt("retries")))
	doc, err := scrape.Load(ctx, c.input, fetcher)
	if err != nil {
		return err
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		if err := scrape.Dump(os.Stderr, doc); err != nil {
			return err
		}
	}

	record, validation := site.Extract(doc)
	if !validation.Valid() {
		log.Warnf("%s: %s", c.input, validation)
	}
	if record.Len() == 0 {
		return cmdutil.Preconditionf("no MARC fields found in %s for site %s", c.input, site)
	}
	log.Infof("%d fields found in %s", record.Len(), c.input)

	if dryRun {
		return gomarc.WriteText(os.Stdout, record)
	}
	out, err := cmdutil.NewOutput(c.output)
	if err != nil {
		return err
	}
	if err := out.Write(record); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
