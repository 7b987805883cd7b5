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

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/internal/timestamp"
	log "github.com/sirupsen/logrus"
)

// MissingColumnError is returned when headers of the mapping are absent from the first row.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("catalog: %s not seen in first row", strings.Join(e.Columns, ", "))
}

// Row is one line of the catalog.
type Row struct {
	Line   int
	values []string
	index  map[string]int
}

// Get returns the trimmed value of the column with key, or the empty string.
func (r Row) Get(key string) string {
	i, ok := r.index[key]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Summary returns the identifying values of the row.
func (r Row) Summary() string {
	return fmt.Sprintf("ISBN: %s Title: %s Subtitle: %s Author: %s",
		r.Get(ISBN), r.Get(Title), r.Get(Subtitle), r.Get(Author))
}

// Converter turns catalog rows into records.
type Converter struct {
	r       *csv.Reader
	mapping Mapping
	index   map[string]int
	line    int
}

// NewConverter reads the header row of r and checks that every column of the mapping is there.
func NewConverter(r io.Reader, m Mapping) (*Converter, error) {
	c := &Converter{r: csv.NewReader(r), mapping: m, index: make(map[string]int, len(m.Columns))}
	c.r.FieldsPerRecord = -1
	c.r.LazyQuotes = true

	header, err := c.r.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: could not read header: %w", err)
	}
	c.line++

	var missing []string
	for key, name := range m.Columns {
		i := slices.Index(header, name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		c.index[key] = i
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &MissingColumnError{Columns: missing}
	}
	return c, nil
}

// Next returns the record of the next row, and the row itself. It returns io.EOF after the
// last row.
func (c *Converter) Next() (*gomarc.Record, Row, error) {
	values, err := c.r.Read()
	if err != nil {
		return nil, Row{}, err
	}
	c.line++
	row := Row{Line: c.line, values: values, index: c.index}
	return c.convert(row), row, nil
}

var locationRegexp = regexp.MustCompile(`^(\w+) (.*)`)

func (c *Converter) convert(row Row) *gomarc.Record {
	logger := log.WithField("line", row.Line)
	title := row.Get(Title)
	if title == "" {
		logger.Warn("missing title")
	}
	if row.Get(Author) == "" {
		logger.Warnf("missing author for '%s'", title)
	}

	r := gomarc.NewRecord()
	appendField(r, gomarc.NewDataField("010", ' ', ' ').Add("a", row.Get(LCControl)))
	appendField(r, gomarc.NewDataField("020", ' ', ' ').Add("a", row.Get(ISBN)))
	classNo, cutters, _ := strings.Cut(row.Get(LCClass), " ")
	appendField(r, gomarc.NewDataField("050", '0', '0').Add("a", classNo).Add("b", cutters))
	appendField(r, gomarc.NewDataField("100", '0', ' ').Add("a", row.Get(Author)))
	appendField(r, gomarc.NewDataField("245", '0', '0').Add("a", title).Add("b", row.Get(Subtitle)))
	appendField(r, gomarc.NewDataField("260", ' ', ' ').Add("b", row.Get(Publisher)).Add("c", row.Get(PubDate)))
	pages := row.Get(Pages)
	if pages != "" {
		pages += " p."
	}
	appendField(r, gomarc.NewDataField("300", ' ', ' ').
		Add("a", pages).
		Add("b", row.Get(Format)).
		Add("c", row.Get(Dimensions)))

	// Koha holding
	var date string
	if added := row.Get(AddedDate); added != "" {
		var err error
		if date, err = timestamp.FromCatalogDate(added); err != nil {
			logger.Warnf("%v for '%s'", err, title)
		}
	}
	location, collection := c.location(row.Get(Location))
	if location == "" {
		logger.Warnf("invalid location '%s' for '%s'", row.Get(Location), title)
	} else if collection == "" {
		logger.Warnf("unrecognized location %s for '%s'", location, title)
	}
	appendField(r, gomarc.NewDataField("952", ' ', ' ').
		Add("8", collection).
		Add("a", c.mapping.Branch).
		Add("b", c.mapping.Branch).
		Add("c", location).
		Add("d", date).
		Add("o", row.Get(Dewey)).
		Add("p", row.Get(Barcode)).
		Add("y", c.mapping.ItemType))
	return r
}

// location returns the location code and collection of a location like "JF Juvenile Fiction".
// Picture books share the code P with poetry and are given the code PIC.
func (c *Converter) location(s string) (string, string) {
	m := locationRegexp.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	code, rest := m[1], m[2]
	if code == "P" && strings.Contains(rest, "Picture") {
		return "PIC", "J"
	}
	return code, c.mapping.Locations[code]
}

// appendField adds f without its empty subfields. A field without values is left out.
func appendField(r *gomarc.Record, f *gomarc.DataField) {
	f.Subfields = slices.DeleteFunc(f.Subfields, func(sf gomarc.Subfield) bool {
		return sf.Value == ""
	})
	if len(f.Subfields) > 0 {
		r.Append(f)
	}
}
