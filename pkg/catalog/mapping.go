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

// Package catalog converts CSV exports of personal book catalogs (collectorz.com) to MARC
// records with Koha holdings.
package catalog

import (
	"maps"
	"strings"
)

// Column keys used by the converter. A Mapping maps each key to a CSV header.
const (
	Author        = "author"
	Title         = "title"
	Publisher     = "publisher"
	PubDate       = "pubdate"
	AddedDate     = "date"
	Dewey         = "dewey"
	Genre         = "genre"
	LCClass       = "lcclass"
	LCControl     = "lccontrol"
	Subject       = "subject"
	Dimensions    = "dimensions"
	Format        = "format"
	ISBN          = "isbn"
	Pages         = "pages"
	Language      = "language"
	Subtitle      = "subtitle"
	Location      = "location"
	PurchaseDate  = "purchdate"
	PurchasePrice = "price"
	Barcode       = "index"
)

// Mapping holds the tables used to convert a catalog.
type Mapping struct {
	// Columns maps column keys to CSV headers. Every header must be present in the input.
	Columns map[string]string
	// Locations maps the location code, the first word of the location column, to a collection.
	Locations map[string]string
	// Branch is the home and holding branch of the items.
	Branch string
	// ItemType is the Koha item type of the items.
	ItemType string
}

// DefaultMapping returns the mapping for collectorz.com book exports.
func DefaultMapping() Mapping {
	return Mapping{
		Columns: map[string]string{
			Author:        "Author",
			Title:         "Title",
			Publisher:     "Publisher",
			PubDate:       "Publication Date",
			AddedDate:     "Added Date",
			Dewey:         "Dewey",
			Genre:         "Genre",
			LCClass:       "LC Classification",
			LCControl:     "LC Control No.",
			Subject:       "Subject",
			Dimensions:    "Dimensions",
			Format:        "Format",
			ISBN:          "ISBN",
			Pages:         "Pages",
			Language:      "Language",
			Subtitle:      "Sub Title",
			Location:      "Location",
			PurchaseDate:  "Purchase Date",
			PurchasePrice: "Purchase Price",
			Barcode:       "Index",
		},
		// Collections are A (adult), YA (young adult) and J (children)
		Locations: map[string]string{
			"AB":  "A",  // Audio Books
			"BB":  "J",  // Board Book
			"B":   "A",  // Biography & Memoir
			"E":   "J",  // New Readers
			"F":   "A",  // Adult Fiction
			"JF":  "J",  // Juvenile Fiction
			"JNF": "J",  // Jr & YA Non Fiction
			"LP":  "A",  // Large Print
			"NF":  "A",  // Adult Non Fiction
			"P":   "A",  // Poetry, see pictureBooks
			"YA":  "YA", // Young Adult Fiction
		},
		Branch:   "RCML",
		ItemType: "BK",
	}
}

// WithLocations returns a copy of m where locations are added to, or replace, the location table.
func (m Mapping) WithLocations(locations map[string]string) Mapping {
	l := maps.Clone(m.Locations)
	if l == nil {
		l = make(map[string]string, len(locations))
	}
	for code, collection := range locations {
		l[strings.ToUpper(code)] = strings.ToUpper(collection)
	}
	m.Locations = l
	return m
}
