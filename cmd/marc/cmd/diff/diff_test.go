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

package diff

import (
	"testing"

	"github.com/nlnwa/gomarc"
	"github.com/stretchr/testify/assert"
)

func holding(barcodes ...string) *gomarc.Record {
	r := gomarc.NewRecord()
	for _, b := range barcodes {
		r.Append(gomarc.NewDataField("852", ' ', ' ').Add("p", b))
	}
	return r
}

func TestIsNew(t *testing.T) {
	seen := map[string]bool{"1": true, "2": true}

	tests := []struct {
		name   string
		record *gomarc.Record
		want   bool
	}{
		{"known", holding("1"), false},
		{"all known", holding("1", "2"), false},
		{"unknown", holding("3"), true},
		{"one unknown", holding("1", "3"), true},
		{"no barcode", holding(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNew(tt.record, "852", "p", seen))
		})
	}
}

func TestBarcodes(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, barcodes(holding("1", "3"), "852", "p"))
	assert.Nil(t, barcodes(holding("1"), "952", "p"))
}
