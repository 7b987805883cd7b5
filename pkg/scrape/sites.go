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

package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/internal/timestamp"
	"github.com/nlnwa/gomarc/pkg/tabular"
	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

// Allow overriding of time.Now for tests
var now = time.Now

// BiblioCommons public catalogs, like Boston or Chicago Public Library. Subfields are written
// inline as $a...$b....
var bibliocommons = &Site{
	Name:        "bibliocommons",
	Description: "BiblioCommons MARC display (Boston Public Library and others)",
	Rows:        "div#marc_details tr",
	Profile: tabular.Profile[*goquery.Selection]{
		Tag: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.marcTag")
		},
		Value: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.marcTagData")
		},
		Indicators: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.marcIndicator")
		},
		Subfields: func(row *goquery.Selection) ([]gomarc.Subfield, bool) {
			text, ok := cell(row, "td.marcTagData")
			if !ok {
				return nil, false
			}
			return tabular.SplitMarked(strings.TrimSpace(text), "$", ""), true
		},
		Blank: "_#",
		Junk:  nbsp,
	},
}

// Evergreen OPAC (C/W MARS and others). Each indicator has its own cell with '.' for blank and
// subfield codes are span elements followed by the value text.
var evergreen = &Site{
	Name:        "evergreen",
	Description: "Evergreen OPAC MARC record view (C/W MARS and others)",
	Rows:        "tr.marc_tag_row",
	Profile: tabular.Profile[*goquery.Selection]{
		Tag: func(row *goquery.Selection) (string, bool) {
			return cell(row, "th.marc_tag_col")
		},
		Value: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.marc_tag_data")
		},
		Indicators: func(row *goquery.Selection) (string, bool) {
			inds := row.Find("td.marc_tag_ind")
			if inds.Length() == 0 {
				return "", false
			}
			sb := strings.Builder{}
			inds.Each(func(_ int, ind *goquery.Selection) {
				text := strings.TrimSpace(ind.Text())
				if text == "" {
					text = " "
				}
				sb.WriteString(text)
			})
			return sb.String(), true
		},
		Subfields: func(row *goquery.Selection) ([]gomarc.Subfield, bool) {
			td := row.Find("td.marc_subfields").First()
			if td.Length() == 0 {
				return nil, false
			}
			return spanSubfields(td), true
		},
		Blank: ".",
		Junk:  nbsp,
	},
}

// spanSubfields reads subfields where the code is the last character of a span and the value
// is the text that follows it.
func spanSubfields(cell *goquery.Selection) []gomarc.Subfield {
	var subfields []gomarc.Subfield
	cell.Contents().Each(func(_ int, child *goquery.Selection) {
		n := child.Get(0)
		switch {
		case n.Type == html.ElementNode && n.Data == "span":
			code := []rune(strings.TrimSpace(child.Text()))
			if len(code) == 0 {
				return
			}
			subfields = append(subfields, gomarc.Subfield{Code: string(code[len(code)-1])})
		case n.Type == html.TextNode:
			if len(subfields) == 0 {
				if strings.TrimSpace(n.Data) != "" {
					subfields = append(subfields, gomarc.Subfield{Value: n.Data})
				}
				return
			}
			subfields[len(subfields)-1].Value += n.Data
		}
	})
	return subfields
}

// OCLC Connexion browser. Subfields are separated by a non-breaking space and '$', the first
// subfield has no code when it is $a. Connexion leaves out the fields that OCLC adds on export,
// so they are added by connexionFixup.
var connexion = &Site{
	Name:        "connexion",
	Description: "OCLC Connexion browser record display",
	Rows:        "tr:has(td.catexTag)",
	Profile: tabular.Profile[*goquery.Selection]{
		Tag: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.catexTag")
		},
		Value: func(row *goquery.Selection) (string, bool) {
			text, ok := cell(row, "td.catexData")
			return strings.ReplaceAll(strings.TrimSpace(text), "\n", ""), ok
		},
		Indicators: func(row *goquery.Selection) (string, bool) {
			return cell(row, "td.catexInds")
		},
		Subfields: func(row *goquery.Selection) ([]gomarc.Subfield, bool) {
			text, ok := cell(row, "td.catexData")
			if !ok {
				return nil, false
			}
			text = strings.ReplaceAll(strings.TrimSpace(text), "\n", "")
			if strings.HasPrefix(text, "$") {
				text = nbsp + text
			}
			subfields := tabular.SplitMarked(text, nbsp+"$", "a")
			for i := range subfields {
				if i > 0 || strings.HasPrefix(text, nbsp) {
					subfields[i].Value = strings.TrimPrefix(subfields[i].Value, " ")
				}
			}
			return subfields, true
		},
		Blank: nbsp,
		Junk:  nbsp,
	},
	Fixup: connexionFixup,
}

// connexionFixup adds 003 (OCoLC) and 005 in front of 008, and 035 with the OCLC control number
// in front of the first field from 043 and up.
func connexionFixup(r *gomarc.Record) {
	for i, f := range r.Fields() {
		if f.Tag() == "008" {
			r.Insert(i,
				gomarc.NewControlField("003", "OCoLC"),
				gomarc.NewControlField("005", timestamp.Transaction(now())))
			break
		}
	}

	cf, ok := r.ControlField("001")
	if !ok {
		return
	}
	for i, f := range r.Fields() {
		if !f.IsControl() && f.Tag() >= "043" {
			r.Insert(i, gomarc.NewDataField("035", ' ', ' ').Add("a", "(OCoLC)"+cf.Value))
			return
		}
	}
}
