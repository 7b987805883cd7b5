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

// Package stream reads and writes many records as one JSON, YAML or text document.
//
// Each record is preceded by a header line:
//
//	------ Record 1 ------
//	{"fields":[
//	{"001":"ocm12345"},
//	{"245":{"indicators":["1","0"],"subfields":[{"a":"Moby Dick"}]}}],"leader":"00000nam a2200000   4500"}
//	------ Record 2 ------
//	...
//
// A document without header lines holds a single record.
package stream

import (
	"fmt"
	"regexp"
	"strings"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, Text}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format '%s', supported formats are: json, yaml, text", name)
}

var headerRegexp = regexp.MustCompile(`^------ Record (\d+) ------\s*$`)

func header(n int) string {
	return fmt.Sprintf("------ Record %d ------\n", n)
}
