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
	"io"
	"regexp"

	"github.com/nlnwa/gomarc"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

// Writer writes records to a document in one of the formats.
type Writer struct {
	w      io.Writer
	format Format
	count  int
}

func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Put each field of a JSON record on its own line. Field entries are the only objects in a list
// keyed by a three character tag; subfield codes are one character.
var jsonFieldRegexp = regexp.MustCompile(`([\[,])\{("[^"\\]{3}":)`)

// Write writes the header and the body of the next record.
func (w *Writer) Write(r *gomarc.Record) error {
	w.count++
	if _, err := io.WriteString(w.w, header(w.count)); err != nil {
		return err
	}

	switch w.format {
	case JSON:
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		b = jsonFieldRegexp.ReplaceAll(b, []byte("$1\n{$2"))
		b = append(b, '\n')
		_, err = w.w.Write(b)
		return err
	case YAML:
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.w.Write(b)
		return err
	default:
		return gomarc.WriteText(w.w, r)
	}
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}
