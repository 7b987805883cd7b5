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
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Dump writes the node tree of doc with one line per node, indented by depth. It is used to
// find the selectors of a new site.
func Dump(w io.Writer, doc *goquery.Document) error {
	for _, n := range doc.Nodes {
		if err := dumpNode(w, n, 0); err != nil {
			return err
		}
	}
	return nil
}

func dumpNode(w io.Writer, n *html.Node, level int) error {
	prefix := strings.Repeat("  ", level)
	var err error
	switch n.Type {
	case html.TextNode:
		_, err = fmt.Fprintf(w, "%sLevel %d, Text = '%s'\n", prefix, level, n.Data)
	case html.ElementNode:
		_, err = fmt.Fprintf(w, "%sLevel %d, Element name = %s\n", prefix, level, n.Data)
		for _, a := range n.Attr {
			if err == nil {
				_, err = fmt.Fprintf(w, "%s    Attr %s = %s\n", prefix, a.Key, a.Val)
			}
		}
	case html.DocumentNode:
		_, err = fmt.Fprintf(w, "%sLevel %d, Document\n", prefix, level)
	default:
		// Comments and doctype carry nothing to select on
		return nil
	}
	if err != nil {
		return err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := dumpNode(w, c, level+1); err != nil {
			return err
		}
	}
	return nil
}
