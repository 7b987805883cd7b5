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

package gomarc

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"os"

	"github.com/nlnwa/gomarc/internal/countingreader"
	log "github.com/sirupsen/logrus"
)

// Big enough to hold the largest possible record.
const readBufferSize = 128 * 1024

// MarcReader reads ISO 2709 records from a stream.
type MarcReader struct {
	src            io.Reader
	seekable       bool
	initialOffset  int64
	countingReader *countingreader.Reader
	bufferedReader *bufio.Reader
	unmarshaler    Unmarshaler
}

// NewMarcReader creates a new MarcReader. The options are used when decoding records.
func NewMarcReader(r io.Reader, opts ...Option) *MarcReader {
	mr := &MarcReader{
		src:         r,
		unmarshaler: NewUnmarshaler(opts...),
	}
	if s, ok := r.(io.Seeker); ok {
		if offset, err := s.Seek(0, io.SeekCurrent); err == nil {
			mr.seekable = true
			mr.initialOffset = offset
		}
	}
	mr.countingReader = countingreader.New(r, mr.initialOffset)
	mr.bufferedReader = bufio.NewReaderSize(mr.countingReader, readBufferSize)
	return mr
}

func (mr *MarcReader) offset() int64 {
	return mr.countingReader.Offset() - int64(mr.bufferedReader.Buffered())
}

func (mr *MarcReader) rewind() error {
	if !mr.seekable {
		return nil
	}
	if _, err := mr.src.(io.Seeker).Seek(mr.initialOffset, io.SeekStart); err != nil {
		return err
	}
	mr.countingReader.Reset(mr.initialOffset)
	mr.bufferedReader.Reset(mr.countingReader)
	return nil
}

// NextRaw reads the next record without decoding it.
//
// The record is located by the record length in the leader. If that does not match the record
// terminator, the record ends at the first record terminator instead.
// Line breaks between records are skipped.
//
// When at end of stream only io.EOF is returned.
func (mr *MarcReader) NextRaw() (RawRecord, int64, error) {
	for {
		c, err := mr.bufferedReader.ReadByte()
		if err != nil {
			return nil, mr.offset(), err
		}
		if c != '\r' && c != '\n' {
			_ = mr.bufferedReader.UnreadByte()
			break
		}
	}

	offset := mr.offset()
	prefix, err := mr.bufferedReader.Peek(leaderDigits)
	if err != nil {
		return nil, offset, newWrappedSyntaxError("truncated record", offset, io.ErrUnexpectedEOF)
	}

	length, ok := parseDigits(prefix)
	if !ok || length < LeaderLen+2 {
		log.Debugf("invalid record length '%s' at offset %d", prefix, offset)
		raw, err := mr.readToTerminator(offset)
		return raw, offset, err
	}

	b, err := mr.bufferedReader.Peek(length)
	if err == nil && b[length-1] == rt {
		raw := bytes.Clone(b)
		_, _ = mr.bufferedReader.Discard(length)
		return raw, offset, nil
	}
	if i := bytes.IndexByte(b, rt); i >= 0 {
		log.Debugf("record length %d does not match record terminator at offset %d", length, offset)
		raw := bytes.Clone(b[:i+1])
		_, _ = mr.bufferedReader.Discard(i + 1)
		return raw, offset, nil
	}
	raw, err := mr.readToTerminator(offset)
	return raw, offset, err
}

func (mr *MarcReader) readToTerminator(offset int64) (RawRecord, error) {
	raw, err := mr.bufferedReader.ReadBytes(rt)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, newWrappedSyntaxError("missing record terminator", offset, err)
	}
	return raw, nil
}

// Next reads and decodes the next record.
//
// The returned offset is the position of the record in the stream. A decoding error only
// concerns the returned record; reading may continue with the next one.
//
// When at end of stream only io.EOF is returned.
func (mr *MarcReader) Next() (*Record, int64, *Validation, error) {
	raw, offset, err := mr.NextRaw()
	if err != nil {
		return nil, offset, &Validation{}, err
	}
	record, validation, err := mr.unmarshaler.Unmarshal(raw)
	return record, offset, validation, err
}

// Decode decodes a raw record with the options of the reader.
func (mr *MarcReader) Decode(raw RawRecord) (*Record, *Validation, error) {
	return mr.unmarshaler.Unmarshal(raw)
}

// RawRecords returns the undecoded records of the stream.
//
// If the source is seekable, every iteration starts at the offset the reader was created at.
// Otherwise iteration continues from the current position. A read error ends the sequence.
func (mr *MarcReader) RawRecords() iter.Seq2[RawRecord, error] {
	return func(yield func(RawRecord, error) bool) {
		if err := mr.rewind(); err != nil {
			yield(nil, err)
			return
		}
		for {
			raw, _, err := mr.NextRaw()
			if err == io.EOF {
				return
			}
			if !yield(raw, err) || err != nil {
				return
			}
		}
	}
}

// Records returns the decoded records of the stream.
//
// A record that fails to decode is yielded with its error and iteration continues.
// A read error is yielded once and ends the sequence.
func (mr *MarcReader) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for raw, err := range mr.RawRecords() {
			if err != nil {
				yield(nil, err)
				return
			}
			record, _, err := mr.unmarshaler.Unmarshal(raw)
			if !yield(record, err) {
				return
			}
		}
	}
}

// MarcFileReader reads records from a file.
type MarcFileReader struct {
	*MarcReader
	file *os.File
}

// NewMarcFileReader opens filename and positions the reader at offset.
func NewMarcFileReader(filename string, offset int64, opts ...Option) (*MarcFileReader, error) {
	file, err := os.Open(filename) // For read access.
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &MarcFileReader{MarcReader: NewMarcReader(file, opts...), file: file}, nil
}

// Close closes the MarcFileReader.
func (r *MarcFileReader) Close() error {
	return r.file.Close()
}
