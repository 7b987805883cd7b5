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

package gomarc

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nlnwa/gomarc/internal"
	"github.com/nlnwa/gomarc/internal/timestamp"
	"github.com/prometheus/tsdb/fileutil"
	log "github.com/sirupsen/logrus"
)

// FileNameGenerator is the interface that wraps the NewMarcFileName function.
type FileNameGenerator interface {
	// NewMarcFileName returns a directory (might be the empty string for current directory) and a file name
	NewMarcFileName() (string, string)
}

// PatternNameGenerator implements the FileNameGenerator.
type PatternNameGenerator struct {
	Directory string // Directory to store MARC files. Defaults to the empty string
	Prefix    string // Prefix available to be used in pattern. Defaults to the empty string
	Serial    int    // Serial number available for use in pattern. It is increased with every generated file name.
	Pattern   string // Pattern for generated file name. Defaults to: "%{prefix}s%{serial}d.marc"
}

const defaultPattern = "%{prefix}s%{serial}d.marc"

// Allow overriding of time.Now for tests
var now = time.Now

func (g *PatternNameGenerator) NewMarcFileName() (string, string) {
	if g.Pattern == "" {
		g.Pattern = defaultPattern
	}
	g.Serial++
	params := map[string]any{
		"prefix": g.Prefix,
		"ts":     timestamp.UTC14(now()),
		"serial": g.Serial,
	}

	name := internal.Sprintt(g.Pattern, params)
	return g.Directory, name
}

// FixedNameGenerator always returns the same file name. Used for single file output.
type FixedNameGenerator struct {
	Path string
}

func (g *FixedNameGenerator) NewMarcFileName() (string, string) {
	return filepath.Split(g.Path)
}

// MarcFileWriter writes records to files.
//
// Files are created with the open file suffix and renamed when closed, so a file without the suffix
// is always complete. With WithMaxRecords a new file is started when the current one is full; the
// previous file is closed before the next is created.
type MarcFileWriter struct {
	opts            *marcFileWriterOptions
	currentFileName string
	currentFile     *os.File
	currentFileSize int64
	currentCount    int
}

func (w *MarcFileWriter) String() string {
	return fmt.Sprintf("MarcFileWriter (%s)", w.opts)
}

// NewMarcFileWriter creates a new MarcFileWriter with the supplied options.
func NewMarcFileWriter(opts ...MarcFileWriterOption) *MarcFileWriter {
	o := defaultMarcFileWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &MarcFileWriter{opts: &o}
}

type WriteResponse struct {
	FileName     string // filename
	FileOffset   int64  // the offset in file
	BytesWritten int64  // number of bytes written
	Err          error  // eventual error
}

// Write marshals one or more records to file.
//
// Returns a slice with one WriteResponse for each record written. A record that cannot be
// marshaled is not written and does not count towards the file's record limit.
func (w *MarcFileWriter) Write(record ...*Record) []WriteResponse {
	res := make([]WriteResponse, len(record))
	for i, r := range record {
		res[i] = w.write(r)
	}
	return res
}

func (w *MarcFileWriter) write(record *Record) (response WriteResponse) {
	buf := &bytes.Buffer{}
	if _, response.Err = w.opts.marshaler.Marshal(buf, record); response.Err != nil {
		return
	}

	// Check if the current file has room for the record
	if w.currentFile != nil && w.opts.maxRecords > 0 && w.currentCount >= w.opts.maxRecords {
		if response.Err = w.close(); response.Err != nil {
			return
		}
	}

	// Create new file if necessary
	if w.currentFile == nil {
		if response.Err = w.createFile(); response.Err != nil {
			return
		}
	}

	response.FileOffset = w.currentFileSize
	response.FileName = w.currentFileName
	n, err := w.currentFile.Write(buf.Bytes())
	response.BytesWritten = int64(n)
	w.currentFileSize += int64(n)
	if err != nil {
		response.Err = err
		return
	}
	if w.opts.flush {
		// sync file to reduce possibility of half written records in case of crash
		if response.Err = w.currentFile.Sync(); response.Err != nil {
			return
		}
	}
	w.currentCount++
	return
}

func (w *MarcFileWriter) createFile() error {
	dir, fileName := w.opts.nameGenerator.NewMarcFileName()
	final := filepath.Join(dir, fileName)
	path := final + w.opts.openFileSuffix

	if !w.opts.overwrite {
		if _, err := os.Lstat(final); err == nil {
			return &fs.PathError{Op: "create", Path: final, Err: fs.ErrExist}
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	log.Debugf("created %s", path)
	w.currentFileName = fileName
	w.currentFile = file
	w.currentFileSize = 0
	w.currentCount = 0
	return nil
}

// Rotate closes the current file being written to.
// A call to Write after Rotate creates a new file.
func (w *MarcFileWriter) Rotate() error {
	return w.close()
}

// Close closes the current file being written to.
// It is legal to call Write after close, but then a new file will be opened.
func (w *MarcFileWriter) Close() error {
	return w.close()
}

func (w *MarcFileWriter) close() error {
	if w.currentFile == nil {
		return nil
	}
	f := w.currentFile
	w.currentFile = nil
	w.currentFileName = ""

	var errs multiErr
	if err := f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close file: %s: %w", f.Name(), err))
	}
	if err := fileutil.Rename(f.Name(), strings.TrimSuffix(f.Name(), w.opts.openFileSuffix)); err != nil {
		errs = append(errs, fmt.Errorf("failed to rename file: %s: %w", f.Name(), err))
	}
	if errs != nil {
		return errs
	}
	return nil
}

// Options for MARC file writer
type marcFileWriterOptions struct {
	maxRecords     int
	openFileSuffix string
	nameGenerator  FileNameGenerator
	marshaler      Marshaler
	flush          bool
	overwrite      bool
}

func (w *marcFileWriterOptions) String() string {
	return fmt.Sprintf("Max records: %d, Open suffix: %s", w.maxRecords, w.openFileSuffix)
}

// MarcFileWriterOption configures how to write MARC files.
type MarcFileWriterOption interface {
	apply(*marcFileWriterOptions)
}

// funcMarcFileWriterOption wraps a function that modifies marcFileWriterOptions into an
// implementation of the MarcFileWriterOption interface.
type funcMarcFileWriterOption struct {
	f func(*marcFileWriterOptions)
}

func (fo *funcMarcFileWriterOption) apply(po *marcFileWriterOptions) {
	fo.f(po)
}

func newFuncMarcFileOption(f func(*marcFileWriterOptions)) *funcMarcFileWriterOption {
	return &funcMarcFileWriterOption{
		f: f,
	}
}

func defaultMarcFileWriterOptions() marcFileWriterOptions {
	return marcFileWriterOptions{
		maxRecords:     0,
		openFileSuffix: ".open",
		nameGenerator:  &PatternNameGenerator{},
		marshaler:      NewMarshaler(),
		overwrite:      true,
	}
}

// WithMaxRecords sets the max number of records in a file before creating a new one.
// defaults to 0 (unlimited)
func WithMaxRecords(n int) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.maxRecords = n
	})
}

// WithFlush sets if writer should commit each record to stable storage.
// defaults to false
func WithFlush(flush bool) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.flush = flush
	})
}

// WithOpenFileSuffix sets a suffix to be added to the file name while the file is open for writing.
// The suffix is automatically removed when the file is closed.
// defaults to ".open"
func WithOpenFileSuffix(suffix string) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.openFileSuffix = suffix
	})
}

// WithFileNameGenerator sets the FileNameGenerator to use for generating new file names.
// defaults to a PatternNameGenerator writing 1.marc, 2.marc, ... in the current directory
func WithFileNameGenerator(generator FileNameGenerator) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.nameGenerator = generator
	})
}

// WithMarshaler sets the marshaler to use for encoding records.
// defaults to NewMarshaler()
func WithMarshaler(marshaler Marshaler) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.marshaler = marshaler
	})
}

// WithOverwrite sets if a finished file may replace an existing file with the same name. When
// false, a record that would start a file whose name is taken fails with fs.ErrExist.
// defaults to true
func WithOverwrite(overwrite bool) MarcFileWriterOption {
	return newFuncMarcFileOption(func(o *marcFileWriterOptions) {
		o.overwrite = overwrite
	})
}
