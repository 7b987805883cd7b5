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

package stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/nlnwa/gomarc"
	"gopkg.in/yaml.v3"
)

// Reader reads the records of a document in one of the formats.
type Reader struct {
	r      *bufio.Reader
	format Format
	number int // number of the current record, from its header
	next   int // number from the header ending the current record
	eof    bool
}

// RecordError is returned for a record that could not be decoded.
type RecordError struct {
	Number int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Number, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func NewReader(r io.Reader, format Format) *Reader {
	return &Reader{r: bufio.NewReader(r), format: format}
}

// Next returns the next record, or io.EOF when there are no more records.
//
// A record that cannot be decoded is returned as an error naming the record number. Reading
// continues with the following record on the next call.
func (r *Reader) Next() (*gomarc.Record, error) {
	for {
		if r.eof {
			return nil, io.EOF
		}
		body, err := r.chunk()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			continue
		}
		rec, err := r.decode(body)
		if err != nil {
			return nil, &RecordError{Number: r.number, Err: err}
		}
		return rec, nil
	}
}

// Records returns the records as an iterator. Errors for single records are yielded and
// iteration continues. A read error ends the iteration.
func (r *Reader) Records() iter.Seq2[*gomarc.Record, error] {
	return func(yield func(*gomarc.Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) {
				return
			}
			var recordErr *RecordError
			if err != nil && !errors.As(err, &recordErr) {
				return
			}
		}
	}
}

// chunk reads lines up to the next header or end of input.
func (r *Reader) chunk() ([]byte, error) {
	r.number = max(r.next, 1)
	var body []byte
	for {
		line, err := r.r.ReadBytes('\n')
		if m := headerRegexp.FindSubmatch(bytes.TrimRight(line, "\r\n")); m != nil {
			r.next, _ = strconv.Atoi(string(m[1]))
			return body, nil
		}
		body = append(body, line...)
		if errors.Is(err, io.EOF) {
			r.eof = true
			return body, nil
		}
		if err != nil {
			r.eof = true
			return nil, err
		}
	}
}

func (r *Reader) decode(body []byte) (*gomarc.Record, error) {
	rec := &gomarc.Record{}
	switch r.format {
	case JSON:
		if err := rec.UnmarshalJSON(body); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.Unmarshal(body, rec); err != nil {
			return nil, err
		}
	default:
		return gomarc.ParseText(string(body))
	}
	return rec, nil
}
