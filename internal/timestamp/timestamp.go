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

// Package timestamp formats and converts the dates found in MARC records and catalog exports.
package timestamp

import (
	"fmt"
	"time"
)

const (
	fourteen    = "20060102150405"
	transaction = "20060102150405.0" // Field 005
	catalogDate = "Jan 02, 2006"
	isoDate     = "2006-01-02"
)

// UTC converts t to UTC.
func UTC(t time.Time) time.Time {
	return t.In(time.UTC)
}

// UTC14 formats t in UTC as yyyyMMddHHmmss.
func UTC14(t time.Time) string {
	return UTC(t).Format(fourteen)
}

// Transaction formats t as the date and time of latest transaction (field 005), yyyyMMddHHmmss.f.
func Transaction(t time.Time) string {
	return t.Format(transaction)
}

// FromCatalogDate converts a date like "Mar 07, 2019" to "2019-03-07".
func FromCatalogDate(s string) (string, error) {
	t, err := time.Parse(catalogDate, s)
	if err != nil {
		return "", fmt.Errorf("invalid date '%s': %w", s, err)
	}
	return t.Format(isoDate), nil
}
