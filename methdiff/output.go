// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package methdiff

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Writer renders DifferentialCalls as BED-like text lines:
//   <chrom> <start> <end> <label> <probability>
// tab-separated, with 0-based half-open coordinates.
type Writer struct {
	tsvw      *tsv.Writer
	precision int
	probBuf   []byte
}

// NewWriter returns a Writer that formats probabilities with the given number
// of significant digits.
func NewWriter(w io.Writer, precision int) *Writer {
	return &Writer{
		tsvw:      tsv.NewWriter(w),
		precision: precision,
	}
}

// Write appends one line for d.
func (w *Writer) Write(d *DifferentialCall) error {
	w.tsvw.WriteString(d.Chrom)
	w.tsvw.WriteUint32(uint32(d.Start))
	w.tsvw.WriteUint32(uint32(d.End))
	w.tsvw.WriteString(d.Label)
	w.probBuf = strconv.AppendFloat(w.probBuf[:0], d.Prob, 'g', w.precision, 64)
	w.tsvw.WriteString(gunsafe.BytesToString(w.probBuf))
	return w.tsvw.EndLine()
}

// Flush writes any buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.tsvw.Flush()
}
