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

package cmd

import (
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cat"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/cmdutil"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/csv"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/diff"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/export"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/find"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/html"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/importcmd"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/ls"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/printcmd"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/recode"
	"github.com/nlnwa/gomarc/cmd/marc/cmd/split"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	cfgFile string
}

// NewCommand returns a new cobra.Command implementing the root command for marc
func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "marc",
		Short: "Tools for converting library catalog data to and from MARC",
		Long: `marc reads, writes and converts MARC 21 records in ISO 2709 format.

Records can be printed, recoded from MARC-8 to UTF-8, split into smaller files,
exported to and imported from JSON, YAML and text notation, scraped from the
MARC view of online catalogs and created from CSV catalog exports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are checked at this point, so remaining errors are not usage errors
			cmd.SilenceUsage = true
			if viper.GetBool(cmdutil.KeyVerbose) {
				log.SetLevel(log.DebugLevel)
			}
			if f := viper.ConfigFileUsed(); f != "" {
				log.Debugf("Using config file: %s", f)
			}
			return cmdutil.BindFlags(cmd, args)
		},
	}

	cobra.OnInitialize(func() { c.initConfig() })

	// Flags
	cmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.marc.yaml)")
	cmd.PersistentFlags().BoolP(cmdutil.KeyVerbose, "v", false, "print diagnostics")
	if err := viper.BindPFlag(cmdutil.KeyVerbose, cmd.PersistentFlags().Lookup(cmdutil.KeyVerbose)); err != nil {
		log.Fatalf("Failed to bind root flags: %v", err)
	}

	// Subcommands
	cmd.AddCommand(ls.NewCommand())
	cmd.AddCommand(cat.NewCommand())
	cmd.AddCommand(printcmd.NewCommand())
	cmd.AddCommand(recode.NewCommand())
	cmd.AddCommand(split.NewCommand())
	cmd.AddCommand(export.NewCommand())
	cmd.AddCommand(importcmd.NewCommand())
	cmd.AddCommand(html.NewCommand())
	cmd.AddCommand(csv.NewCommand())
	cmd.AddCommand(find.NewCommand())
	cmd.AddCommand(diff.NewCommand())

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func (c *conf) initConfig() {
	if c.cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(c.cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.Fatal(err)
		}

		// Search config in home directory with name ".marc" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".marc")
	}

	viper.SetEnvPrefix("MARC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && c.cfgFile != "" {
			log.Fatalf("Failed to read config file: %v", err)
		}
	}
}
