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

package printcmd

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
	"github.com/spf13/viper"
)

type conf struct {
	marc8     bool
	fileNames []string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "print [-m] FILE...",
		Short: "Print a readable summary of the records of MARC files",
		Long: `Print title, author, identifiers and every holding (852 and 952) of each record.

A record that is not valid in the input encoding is decoded again as MARC-8 with
undecodable bytes replaced, and printed after a notice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.fileNames = args
			return runE(c)
		},
	}

	cmd.Flags().BoolVarP(&c.marc8, "marc8", "m", false, "use MARC-8 encoding instead of UTF-8")
	cmdutil.AddEncodingFlag(cmd)

	return cmd
}

func runE(c *conf) error {
	if c.marc8 {
		viper.Set(cmdutil.KeyEncoding, string(gomarc.MARC8))
	}
	opts, err := cmdutil.ReaderOptions()
	if err != nil {
		return err
	}
	opts = append(opts, gomarc.WithEncodingPolicy(gomarc.ErrFail))

	for _, fileName := range c.fileNames {
		if err := readFile(fileName, opts); err != nil {
			return err
		}
	}
	return nil
}

func readFile(fileName string, opts []gomarc.Option) error {
	_, _ = color.New(color.Bold).Printf("Opening %s\n", fileName)
	mr, err := gomarc.NewMarcFileReader(fileName, 0, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = mr.Close() }()

	recno := 0
	for raw, err := range mr.RawRecords() {
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", fileName, recno+1, err)
		}
		recno++
		record, err := decode(mr.MarcReader, raw, recno)
		if err != nil {
			log.Errorf("While decoding record %d: %v", recno, err)
			continue
		}
		printRecord(os.Stdout, record, recno)
	}
	fmt.Printf("%d records handled\n", recno)
	return nil
}

// decode decodes raw, falling back to MARC-8 with replacement when the encoding does not match.
func decode(mr *gomarc.MarcReader, raw gomarc.RawRecord, recno int) (*gomarc.Record, error) {
	record, _, err := mr.Decode(raw)
	if !errors.Is(err, gomarc.ErrEncodingMismatch) {
		return record, err
	}
	fallback, _, ferr := raw.Decode(gomarc.WithEncoding(gomarc.MARC8), gomarc.WithEncodingPolicy(gomarc.ErrFix))
	if ferr != nil {
		return nil, ferr
	}
	_, _ = color.New(color.FgYellow).Printf("While decoding record %d: %v\n", recno, err)
	return fallback, nil
}

func printRecord(w io.Writer, r *gomarc.Record, recno int) {
	p := func(format string, a ...any) {
		_, _ = fmt.Fprintf(w, format+"\n", a...)
	}
	sf := func(f *gomarc.DataField, code string) string {
		v, _ := f.Subfield(code)
		return v
	}
	orUndefined := func(f *gomarc.DataField, code string) string {
		if v, ok := f.Subfield(code); ok {
			return v
		}
		return "undefined"
	}

	p("------ Record %d ------", recno)
	if f, ok := r.DataField("245"); ok {
		p("title: '%s'", sf(f, "a"))
		p("subtitle: '%s'", sf(f, "b"))
		if media, ok := f.Subfield("h"); ok {
			p("media type (245-h): '%s'", media)
		}
	}
	if v, ok := r.Subfield("100", "a"); ok {
		p("author: '%s'", v)
	} else {
		p("author: UNDEFINED!")
	}
	if v, ok := r.Subfield("020", "a"); ok {
		p("ISBN (020-a): '%s'", v)
	}
	if v, ok := r.Subfield("082", "a"); ok {
		p("classification number (082-a): '%s'", v)
	}
	if v, ok := r.Subfield("347", "b"); ok {
		p("file encoding (347-b): '%s'", v)
	}

	n := 0
	for f := range r.DataFields("852") {
		n++
		p("M3 holding %d:", n)
		p("  branch (852-a): '%s'", sf(f, "a"))
		p("  ILL branch (852-b): '%s'", sf(f, "b"))
		p("  prefix (852-k): '%s'", sf(f, "k"))
		p("  collection (852-h): '%s'", sf(f, "h"))
		p("  author (852-i): '%s'", sf(f, "i"))
		p("  price (852-9): '%s'", sf(f, "9"))
		barcode, ok := f.Subfield("p")
		if !ok {
			log.Warnf("Title '%s' missing barcode", title(r))
		}
		p("  barcode (852-p): '%s'", barcode)
	}

	if v, ok := r.Subfield("856", "u"); ok {
		p("URL (856-u): '%s'", v)
	}
	if cf, ok := r.ControlField("008"); ok {
		if date, ok := yymmdd(cf.Value); ok {
			p("Date (008): %s", date)
		}
	}
	if v, ok := r.Subfield("908", "a"); ok {
		if date, ok := yymmdd(v); ok {
			p("Bib date (908): %s", date)
		}
	}
	if f, ok := r.DataField("942"); ok {
		p("Koha item type (942-c): '%s'", orUndefined(f, "c"))
	}

	n = 0
	for f := range r.DataFields("952") {
		n++
		p("Koha holding %d:", n)
		p("  home branch (952-a): '%s'", orUndefined(f, "a"))
		p("  holding branch (952-b): '%s'", sf(f, "b"))
		p("  collection (952-8): '%s'", orUndefined(f, "8"))
		p("  call number (952-o): '%s'", sf(f, "o"))
		p("  location (952-c): '%s'", sf(f, "c"))
		p("  price (952-v): '%s'", sf(f, "v"))
		p("  barcode (952-p): '%s'", orUndefined(f, "p"))
		p("  acq. date (952-d): '%s'", orUndefined(f, "d"))
		p("  item type (952-y): '%s'", orUndefined(f, "y"))
	}
}

func title(r *gomarc.Record) string {
	v, _ := r.Subfield("245", "a")
	return v
}

// yymmdd converts the date at the start of s, like 008/00-05, to yyyy-mm-dd. Years after 60
// are in the 1900s.
func yymmdd(s string) (string, bool) {
	if len(s) < 6 {
		return "", false
	}
	for _, c := range s[:6] {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	century := "20"
	if s[:2] > "60" {
		century = "19"
	}
	return fmt.Sprintf("%s%s-%s-%s", century, s[:2], s[2:4], s[4:6]), true
}
