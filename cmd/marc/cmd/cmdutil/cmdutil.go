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

// Package cmdutil holds what the marc subcommands share: input options from configuration,
// output file checks and writing of MARC files.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/nlnwa/gomarc"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyVerbose   = "verbose"
	KeyEncoding  = "encoding"
	KeyOverwrite = "overwrite"
	KeyDryRun    = "dry-run"
)

// PreconditionError is returned when a command can not start, like when the output file exists.
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string {
	return e.msg
}

// Preconditionf returns a PreconditionError.
func Preconditionf(format string, a ...any) error {
	return &PreconditionError{msg: fmt.Sprintf(format, a...)}
}

// BindFlags makes the flags of the command being run available through viper. It is called when
// the command runs, since subcommands share flag names.
func BindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// AddEncodingFlag adds the flag for the encoding of MARC input.
func AddEncodingFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(KeyEncoding, "e", string(gomarc.UTF8),
		"encoding of MARC input: UTF-8, MARC-8, auto (from leader) or an IANA character set name")
}

// AddOutputFlags adds the flags controlling how output files are written.
func AddOutputFlags(cmd *cobra.Command, dryRun bool) {
	cmd.Flags().BoolP(KeyOverwrite, "o", false, "overwrite existing output file")
	if dryRun {
		cmd.Flags().BoolP(KeyDryRun, "n", false, "don't write output file, just print what would be written")
	}
}

// ReaderOptions returns the options for decoding MARC input.
func ReaderOptions() ([]gomarc.Option, error) {
	e, err := gomarc.ParseEncoding(viper.GetString(KeyEncoding))
	if err != nil {
		return nil, err
	}
	return []gomarc.Option{gomarc.WithEncoding(e)}, nil
}

// ReadRecords calls fn for every record of the MARC file fileName. Records that fail to decode
// are logged and skipped. Iteration stops at the first read error or error from fn.
func ReadRecords(fileName string, opts []gomarc.Option, fn func(r *gomarc.Record, offset int64) error) error {
	mr, err := gomarc.NewMarcFileReader(fileName, 0, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = mr.Close() }()

	recno := 0
	for {
		raw, offset, err := mr.NextRaw()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: offset %d: %w", fileName, offset, err)
		}
		recno++
		record, validation, err := mr.Decode(raw)
		if err != nil {
			log.Errorf("%s: record %d at offset %d: %v", fileName, recno, offset, err)
			continue
		}
		if !validation.Valid() {
			log.Warnf("%s: record %d at offset %d: %s", fileName, recno, offset, validation)
		}
		if err := fn(record, offset); err != nil {
			return err
		}
	}
}

// CheckOutput returns a PreconditionError if path exists and overwrite is not enabled.
func CheckOutput(path string) error {
	if viper.GetBool(KeyOverwrite) {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return Preconditionf("%s exists; will not overwrite", path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Output writes records to a single MARC file. The file gets its name when closed, so an
// existing file is replaced only by a complete one.
type Output struct {
	path    string
	writer  *gomarc.MarcFileWriter
	count   int
	skipped int
}

// NewOutput checks that path can be written and prepares the output. No file is created until
// the first record is written.
func NewOutput(path string, opts ...gomarc.Option) (*Output, error) {
	if err := CheckOutput(path); err != nil {
		return nil, err
	}
	w := gomarc.NewMarcFileWriter(
		gomarc.WithFileNameGenerator(&gomarc.FixedNameGenerator{Path: path}),
		gomarc.WithMarshaler(gomarc.NewMarshaler(opts...)),
		gomarc.WithOverwrite(viper.GetBool(KeyOverwrite)))
	return &Output{path: path, writer: w}, nil
}

// Write writes a record. A record that can not be encoded is logged and skipped.
func (o *Output) Write(r *gomarc.Record) error {
	res := o.writer.Write(r)[0]
	var fieldErr *gomarc.FieldError
	if errors.Is(res.Err, gomarc.ErrRecordTooLarge) || errors.As(res.Err, &fieldErr) {
		o.skipped++
		log.Warnf("skipping record %s: %v", Identify(r), res.Err)
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	o.count++
	return nil
}

// Close closes the file. When nothing was written no file is created.
func (o *Output) Close() error {
	if err := o.writer.Close(); err != nil {
		return err
	}
	if o.skipped > 0 {
		log.Warnf("%d records skipped", o.skipped)
	}
	log.Infof("%d records written to %s", o.count, o.path)
	return nil
}

// Count returns the number of records written.
func (o *Output) Count() int {
	return o.count
}

// Identify returns a short description of a record for messages.
func Identify(r *gomarc.Record) string {
	var id, title string
	if cf, ok := r.ControlField("001"); ok {
		id = cf.Value
	}
	title, _ = r.Subfield("245", "a")
	switch {
	case id != "" && title != "":
		return fmt.Sprintf("%s (%s)", id, title)
	case id != "":
		return id
	case title != "":
		return fmt.Sprintf("'%s'", title)
	}
	return "without 001 and 245"
}
