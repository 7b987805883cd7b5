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

package gomarc_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/nlnwa/gomarc"
)

func ExampleEncode() {
	record := gomarc.NewRecord().Append(
		gomarc.NewControlField("001", "ocm1"),
		gomarc.NewDataField("245", '1', '0').Add("a", "Moby Dick"),
	)
	record.SetLeader("00000nam a2200000   4500")

	b, err := gomarc.Encode(record)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q\n", b)

	// Output: "00069nam a2200049   4500001000500000245001400005\x1eocm1\x1e10\x1faMoby Dick\x1e\x1d"
}

func ExampleRawRecord_Decode() {
	raw := gomarc.RawRecord("00069nam a2200049   4500001000500000245001400005\x1eocm1\x1e10\x1faMoby Dick\x1e\x1d")

	record, validation, err := raw.Decode(gomarc.WithEncoding(gomarc.UTF8))
	if err != nil {
		panic(err)
	}
	for _, f := range record.Fields() {
		fmt.Println(f)
	}
	fmt.Println(validation.Valid())

	// Output: =001  ocm1
	// =245  10$aMoby Dick
	// true
}

func ExampleParseText() {
	record, err := gomarc.ParseText(`=001  ocm1
=245  10$aMoby Dick$bor, The whale`)
	if err != nil {
		panic(err)
	}
	title, _ := record.Subfield("245", "b")
	fmt.Println(title)

	// Output: or, The whale
}

func ExampleNewMarcFileReader() {
	reader, err := gomarc.NewMarcFileReader("catalog.marc", 0, gomarc.WithEncoding(gomarc.Auto))
	if err != nil {
		fmt.Println("Error creating MARC reader:", err)
		return
	}
	defer func() { _ = reader.Close() }()

	for {
		record, offset, validation, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Println("Error:", err)
			break
		}
		if !validation.Valid() {
			fmt.Println(validation)
		}
		title, _ := record.Subfield("245", "a")
		fmt.Println(offset, title)
	}
}

func ExampleNewMarcFileWriter() {
	nameGenerator := &gomarc.PatternNameGenerator{Directory: "directory-name", Prefix: "part-"}

	w := gomarc.NewMarcFileWriter(gomarc.WithFileNameGenerator(nameGenerator), gomarc.WithMaxRecords(1000))
	defer func() {
		_ = w.Close()
	}()

	record := gomarc.NewRecord().Append(gomarc.NewDataField("245", '1', '0').Add("a", "Moby Dick"))
	for _, res := range w.Write(record) {
		if res.Err != nil {
			fmt.Println("Error writing record:", res.Err)
		}
	}
}
