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
	"bytes"
	"fmt"
)

// Format identifies one of the supported text encodings.
type Format int

const (
	// FormatAuto means the encoding is detected from the first data line.
	FormatAuto Format = iota
	// FormatBED is the legacy BED6 encoding: the name column is
	// "<anything>:<total reads>" and the score column is the methylated
	// fraction.
	FormatBED
	// FormatCounts is the structured encoding: chrom, pos, strand, context,
	// methylated fraction, total reads.
	FormatCounts
)

var formatNames = map[string]Format{
	"auto":   FormatAuto,
	"bed":    FormatBED,
	"counts": FormatCounts,
}

// ParseFormat maps a -format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[s]
	if !ok {
		return FormatAuto, fmt.Errorf("methyl.ParseFormat: unrecognized format %q (want auto, bed, or counts)", s)
	}
	return f, nil
}

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatBED:
		return "bed"
	case FormatCounts:
		return "counts"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// isHeaderLine reports whether a line carries no data: comments, and the
// track/browser lines that BED files are allowed to start with.
func isHeaderLine(line []byte) bool {
	return line[0] == '#' || bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser"))
}

// DetectFormat guesses the encoding of a data line.  A strand symbol in the
// third column means the structured encoding; anything else with at least five
// columns is taken to be BED.
func DetectFormat(line []byte) (Format, error) {
	var tokens [6][]byte
	n := getTokens(tokens[:], line)
	if n >= 3 && len(tokens[2]) == 1 && (tokens[2][0] == '+' || tokens[2][0] == '-') {
		if n < 6 {
			return FormatAuto, fmt.Errorf("methyl.DetectFormat: strand in column 3 but only %d columns", n)
		}
		return FormatCounts, nil
	}
	if n >= 5 {
		return FormatBED, nil
	}
	return FormatAuto, fmt.Errorf("methyl.DetectFormat: cannot determine format of line with %d columns", n)
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}
