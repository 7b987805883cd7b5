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

// Package scrape converts the "MARC view" pages of online library catalogs to MARC records.
//
// A Site tells which table rows hold the fields of a record and how the cells of a row are
// read. The row walk itself is tabular.Extract.
package scrape

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/tabular"
)

// Site describes the MARC view page of one catalog product.
type Site struct {
	Name        string
	Description string
	// Rows selects one table row per field.
	Rows    string
	Profile tabular.Profile[*goquery.Selection]
	// Fixup, when set, completes the record after extraction.
	Fixup func(*gomarc.Record)
}

var sites = []*Site{bibliocommons, evergreen, connexion}

// Sites returns the supported sites sorted by name.
func Sites() []*Site {
	s := slices.Clone(sites)
	slices.SortFunc(s, func(a, b *Site) int { return strings.Compare(a.Name, b.Name) })
	return s
}

// Lookup returns the site with the given name.
func Lookup(name string) (*Site, error) {
	for _, s := range sites {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, 0, len(sites))
	for _, s := range Sites() {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("unknown site '%s', supported sites are: %s", name, strings.Join(names, ", "))
}

// Extract builds a record from the rows of doc. Skipped rows are returned in the Validation.
func (s *Site) Extract(doc *goquery.Document) (*gomarc.Record, *gomarc.Validation) {
	record, validation := tabular.Extract(each(doc.Find(s.Rows)), s.Profile)
	if s.Fixup != nil {
		s.Fixup(record)
	}
	return record, validation
}

func (s *Site) String() string {
	return s.Name
}

// each yields every element of the selection as its own selection.
func each(sel *goquery.Selection) iter.Seq[*goquery.Selection] {
	return func(yield func(*goquery.Selection) bool) {
		for i := range sel.Nodes {
			if !yield(sel.Eq(i)) {
				return
			}
		}
	}
}

// cell returns the text of the first element matching selector within row.
func cell(row *goquery.Selection, selector string) (string, bool) {
	c := row.Find(selector).First()
	if c.Length() == 0 {
		return "", false
	}
	return c.Text(), true
}
