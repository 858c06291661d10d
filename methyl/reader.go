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
package methyl

import (
	"bufio"
	"io"
	"math"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// maxLineLen bounds the length of a single input line.
const maxLineLen = 1 << 20

// Reader is a Scanner over one of the text encodings.  It is not threadsafe.
type Reader struct {
	b       *bufio.Scanner
	name    string
	format  Format
	lineIdx int
	err     error
	// chrom is reused while consecutive lines share a chromosome, so that a
	// sorted file allocates one string per chromosome.
	chrom  string
	tokens [6][]byte
}

// NewReader returns a Reader over r.  name is only used in error messages.
// With FormatAuto, the encoding is detected from the first data line.
func NewReader(r io.Reader, format Format, name string) *Reader {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLen)
	return &Reader{b: b, name: name, format: format}
}

// Format returns the encoding being read.  It is FormatAuto until the first
// data line has been scanned.
func (r *Reader) Format() Format {
	return r.format
}

// Scan implements Scanner.
func (r *Reader) Scan(c *Call) bool {
	if r.err != nil {
		return false
	}
	for r.b.Scan() {
		r.lineIdx++
		line := r.b.Bytes()
		if len(line) == 0 || isHeaderLine(line) {
			continue
		}
		if r.format == FormatAuto {
			if r.format, r.err = DetectFormat(line); r.err != nil {
				r.err = errors.Wrapf(r.err, "%s:%d", r.name, r.lineIdx)
				return false
			}
		}
		if r.format == FormatBED {
			r.err = r.parseBED(line, c)
		} else {
			r.err = r.parseCounts(line, c)
		}
		if r.err != nil {
			r.err = errors.Wrapf(r.err, "%s:%d", r.name, r.lineIdx)
			return false
		}
		return true
	}
	if r.err = r.b.Err(); r.err != nil {
		r.err = errors.Wrapf(r.err, "%s", r.name)
	}
	return false
}

// Err implements Scanner.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) setChrom(tok []byte) {
	if gunsafe.BytesToString(tok) != r.chrom {
		r.chrom = string(tok)
	}
}

func parseStart(tok []byte) (int, error) {
	start, err := strconv.Atoi(gunsafe.BytesToString(tok))
	if err != nil {
		return 0, errors.Wrap(err, "bad start coordinate")
	}
	if start < 0 {
		return 0, errors.Errorf("negative start coordinate %d", start)
	}
	return start, nil
}

func parseFraction(tok []byte) (float64, error) {
	level, err := strconv.ParseFloat(gunsafe.BytesToString(tok), 64)
	if err != nil {
		return 0, errors.Wrap(err, "bad methylation level")
	}
	if level < 0 || level > 1 || math.IsNaN(level) {
		return 0, errors.Errorf("methylation level %v outside [0, 1]", level)
	}
	return level, nil
}

// embeddedReadCount extracts the total read count from a BED name such as
// "CpG:12".  Like atoi, it reads the leading digits after the first ':' and
// ignores whatever follows them.
func embeddedReadCount(name []byte) (int, error) {
	colonPos := -1
	for i, ch := range name {
		if ch == ':' {
			colonPos = i
			break
		}
	}
	if colonPos == -1 {
		return 0, errors.Errorf("no read count in name %q", name)
	}
	digits := name[colonPos+1:]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, errors.Errorf("no read count in name %q", name)
	}
	n, err := strconv.Atoi(gunsafe.BytesToString(digits[:end]))
	if err != nil {
		return 0, errors.Wrapf(err, "bad read count in name %q", name)
	}
	return n, nil
}

// parseBED handles "chrom start end name score [strand]".
func (r *Reader) parseBED(line []byte, c *Call) error {
	if n := getTokens(r.tokens[:], line); n < 5 {
		return errors.Errorf("expected at least 5 BED columns, got %d", n)
	}
	start, err := parseStart(r.tokens[1])
	if err != nil {
		return err
	}
	nReads, err := embeddedReadCount(r.tokens[3])
	if err != nil {
		return err
	}
	level, err := parseFraction(r.tokens[4])
	if err != nil {
		return err
	}
	r.setChrom(r.tokens[0])
	meth := int(level * float64(nReads))
	*c = Call{
		Chrom:  r.chrom,
		Start:  start,
		Meth:   meth,
		Unmeth: nReads - meth,
	}
	return nil
}

// parseCounts handles "chrom pos strand context level coverage".
func (r *Reader) parseCounts(line []byte, c *Call) error {
	if n := getTokens(r.tokens[:], line); n < 6 {
		return errors.Errorf("expected 6 columns, got %d", n)
	}
	start, err := parseStart(r.tokens[1])
	if err != nil {
		return err
	}
	level, err := parseFraction(r.tokens[4])
	if err != nil {
		return err
	}
	nReads, err := strconv.Atoi(gunsafe.BytesToString(r.tokens[5]))
	if err != nil {
		return errors.Wrap(err, "bad read count")
	}
	if nReads < 0 {
		return errors.Errorf("negative read count %d", nReads)
	}
	r.setChrom(r.tokens[0])
	meth := int(math.Round(level * float64(nReads)))
	*c = Call{
		Chrom:  r.chrom,
		Start:  start,
		Meth:   meth,
		Unmeth: nReads - meth,
	}
	return nil
}
