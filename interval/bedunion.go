package interval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// PosType is BEDUnion's coordinate type.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

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

// searchPosType returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).
func searchPosType(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// fwdsearchPosType checks a[idx], then a[idx + 1], then a[idx + 3], then
// a[idx + 7], etc., and then uses binary search to finish the job.  It's
// usually a better choice than searchPosType when iterating.
func fwdsearchPosType(a []PosType, x PosType, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(a)
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if a[midIdx] >= x {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// BEDUnion is a set of disjoint intervals per chromosome.  Each chromosome's
// set is a length-2N sequence of endpoints: interval #k (numbering from zero)
// starts at element [2k] and ends at element [2k+1], and the intervals are in
// increasing order.  A position is contained iff an odd number of endpoints
// are <= it.
//
// Queries in nondecreasing position order within a chromosome are answered
// with a forward search from the previous answer.  A BEDUnion is therefore not
// safe for concurrent queries; use Clone to get independent search state.
type BEDUnion struct {
	// nameMap is a chromosome-keyed map with disjoint-interval-set values.
	// Always initialized.
	nameMap map[string][]PosType
	// lastChrIntervals points to the disjoint-interval-set for the most recently
	// queried chromosome.
	lastChrIntervals []PosType
	// lastChrName is the name of the last queried chromosome.
	lastChrName string
	// lastPosPlus1 is 1 plus the last queried position.
	lastPosPlus1 PosType
	// lastIdx is searchPosType(lastChrIntervals, lastPosPlus1).
	lastIdx int
	// isSequential is true if all queries since the last chromosome change have
	// been in order of nondecreasing position.
	isSequential bool
	// nBases is the number of positions covered.
	nBases int
}

// ContainsByName checks whether the (0-based) interval [pos, pos+1) is
// contained within the BEDUnion.
func (u *BEDUnion) ContainsByName(chrName string, pos PosType) bool {
	posPlus1 := pos + 1
	if chrName != u.lastChrName {
		u.lastChrName = chrName
		u.lastChrIntervals = u.nameMap[chrName]
		if u.lastChrIntervals == nil {
			return false
		}
		u.lastIdx = searchPosType(u.lastChrIntervals, posPlus1)
		u.lastPosPlus1 = posPlus1
		u.isSequential = true
		return u.lastIdx&1 == 1
	}
	if u.lastChrIntervals == nil {
		return false
	}
	if u.isSequential {
		if posPlus1 >= u.lastPosPlus1 {
			u.lastIdx = fwdsearchPosType(u.lastChrIntervals, posPlus1, u.lastIdx)
			u.lastPosPlus1 = posPlus1
			return u.lastIdx&1 == 1
		}
		u.isSequential = false
	}
	return searchPosType(u.lastChrIntervals, posPlus1)&1 == 1
}

// NBases returns the number of positions in the union.
func (u *BEDUnion) NBases() int {
	return u.nBases
}

// Clone returns a new BEDUnion which shares the interval set, but has its own
// search state.
func (u *BEDUnion) Clone() BEDUnion {
	return BEDUnion{nameMap: u.nameMap, nBases: u.nBases}
}

// unionBuilder accumulates sorted intervals into a BEDUnion, merging
// overlapping and touching ones and dropping empty ones.
type unionBuilder struct {
	u            BEDUnion
	curChr       string
	chrIntervals []PosType
	// prevStart/prevEnd is the pending interval; prevEnd == -1 means none.
	prevStart, prevEnd PosType
}

func newUnionBuilder() *unionBuilder {
	return &unionBuilder{
		u:         BEDUnion{nameMap: make(map[string][]PosType)},
		prevStart: -1,
		prevEnd:   -1,
	}
}

func (b *unionBuilder) flushChr() {
	if b.curChr == "" {
		return
	}
	if b.prevEnd != -1 {
		b.chrIntervals = append(b.chrIntervals, b.prevStart, b.prevEnd)
		b.u.nBases += int(b.prevEnd - b.prevStart)
	}
	b.u.nameMap[b.curChr] = b.chrIntervals
}

// add appends [start, end) on chr.  chr must not alias a buffer that will be
// overwritten, since it may become a map key.
func (b *unionBuilder) add(chr string, start, end PosType) error {
	if start < 0 {
		return fmt.Errorf("negative start coordinate %d", start)
	}
	if end < start || end >= PosTypeMax {
		return fmt.Errorf("invalid coordinate pair [%d, %d)", start, end)
	}
	if chr != b.curChr {
		b.flushChr()
		if _, found := b.u.nameMap[chr]; found {
			return fmt.Errorf("unsorted input (split chromosome %v)", chr)
		}
		b.curChr = chr
		b.chrIntervals = []PosType{}
		b.prevStart, b.prevEnd = -1, -1
	}
	if end == start {
		return nil
	}
	if b.prevEnd == -1 {
		b.prevStart, b.prevEnd = start, end
		return nil
	}
	if start > b.prevEnd {
		b.chrIntervals = append(b.chrIntervals, b.prevStart, b.prevEnd)
		b.u.nBases += int(b.prevEnd - b.prevStart)
		b.prevStart, b.prevEnd = start, end
		return nil
	}
	if start < b.prevStart {
		return fmt.Errorf("unsorted input")
	}
	if end > b.prevEnd {
		b.prevEnd = end
	}
	return nil
}

func (b *unionBuilder) finish() BEDUnion {
	b.flushChr()
	return b.u
}

// NewBEDUnion loads just the intervals from a sorted (by first coordinate)
// interval-BED, merging touching/overlapping intervals and eliminating empty
// ones in the process.
func NewBEDUnion(reader io.Reader) (bedUnion BEDUnion, err error) {
	scanner := bufio.NewScanner(reader)
	builder := newUnionBuilder()
	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || tokens[0][0] == '#' || string(tokens[0]) == "track" || string(tokens[0]) == "browser" {
			continue
		}
		if nToken != 3 {
			err = fmt.Errorf("interval.NewBEDUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}
		var start, end int
		if start, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		if end, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if end >= PosTypeMax {
			err = fmt.Errorf("interval.NewBEDUnion: coordinate out of range on line %d", lineIdx)
			return
		}
		chr := builder.curChr
		if gunsafe.BytesToString(tokens[0]) != chr {
			// Must copy, since tokens[0] refers to bytes on curLine that will be
			// overwritten soon.
			chr = string(tokens[0])
		}
		if err = builder.add(chr, PosType(start), PosType(end)); err != nil {
			err = fmt.Errorf("interval.NewBEDUnion: line %d: %v", lineIdx, err)
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	bedUnion = builder.finish()
	log.Printf("BED loaded, %d base(s) covered.", bedUnion.nBases)
	return
}

// NewBEDUnionFromPath is a wrapper for NewBEDUnion that takes a path instead
// of an io.Reader.  Gzipped files are recognized by extension.
func NewBEDUnionFromPath(path string) (bedUnion BEDUnion, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return NewBEDUnion(reader)
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, PosTypeMax - 1) is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.End = PosTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		result.Start0 = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	var start1, end int
	if start1, err = strconv.Atoi(rangeStr[:dashPos]); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr[:dashPos])
		return
	}
	if end, err = strconv.Atoi(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if end < start1 || end >= PosTypeMax {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end)
	return
}

// NewBEDUnionFromEntries initializes a BEDUnion from a sorted []Entry.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	builder := newUnionBuilder()
	for _, entry := range entries {
		if err = builder.add(entry.ChrName, entry.Start0, entry.End); err != nil {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: %v", err)
			return
		}
	}
	return builder.finish(), nil
}
