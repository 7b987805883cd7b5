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

/*
Package gomarc allows parsing, creating and converting MARC records.

# MARC

MARC (MAchine-Readable Cataloging) records carry bibliographic and holdings data for library catalogs.
A record is a 24 character leader followed by an ordered list of fields. Fields with tags 000 to 009
are control fields holding a single value. All other fields are data fields with two indicators and
an ordered list of coded subfields.

The binary form of a record is defined by ISO 2709: the leader, a directory of 12 byte entries and the
field data, separated by the field terminator 0x1E and closed by the record terminator 0x1D.

# Create MARC records

A [Record] is created with [NewRecord] and filled with [Record.Append]:

	rec := gomarc.NewRecord()
	rec.Append(
		gomarc.NewControlField("001", "ocm12345"),
		gomarc.NewDataField("245", '0', '0').Add("a", "Moby Dick"),
	)

The [Marshaler] writes records in ISO 2709. It is initialized with [NewMarshaler]. The record length and
base address in the leader are always recomputed.

The [MarcFileWriter] is used to write MARC files, optionally rotating to a new file after a number of records.
It is initialized with [NewMarcFileWriter].

# Parse MARC records

The [MarcReader] reads records from any [io.Reader]. Records can be read one at a time with [MarcReader.Next],
iterated with [MarcReader.Records], or read raw with [MarcReader.RawRecords] and decoded explicitly with
[RawRecord.Decode]. Raw access lets a caller retry a single record with another encoding without giving up
the rest of the stream.

The [MarcFileReader] is used to read MARC files. It is initialized with [NewMarcFileReader].

# Encodings

Field data is decoded from the declared encoding to UTF-8. Supported encodings are [UTF8], [MARC8],
[Auto] (decided by leader position 9) and the single byte character sets known by their IANA names.
Records are always written as UTF-8.

# Validation and repair

What happens when field data does not match the declared encoding is controlled with [WithEncodingPolicy].
With [ErrFail] an [EncodingMismatchError] is returned. With [ErrFix] invalid bytes are replaced. With [ErrWarn]
the problem is collected in the returned [Validation].

# Interchange formats

A record converts to and from a hash ([Record.ToHash], [RecordFromHash]), JSON, YAML and a line oriented text
notation ([ParseText], [WriteText]).
*/
package gomarc
