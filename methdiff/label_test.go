package methdiff

import (
	"testing"

	"github.com/grailbio/methdiff/methyl"
	"github.com/grailbio/testutil/expect"
)

func TestParseLabelFormat(t *testing.T) {
	for _, f := range []LabelFormat{LabelTotals, LabelCounts} {
		got, err := ParseLabelFormat(f.String())
		expect.NoError(t, err)
		expect.EQ(t, got, f)
	}
	_, err := ParseLabelFormat("four")
	expect.True(t, err != nil)
}

func TestAppendLabel(t *testing.T) {
	a := methyl.Call{Chrom: "chr1", Start: 3, Meth: 12, Unmeth: 0}
	b := methyl.Call{Chrom: "chr1", Start: 3, Meth: 1, Unmeth: 2}
	expect.EQ(t, string(appendLabel(nil, LabelTotals, &a, &b)), "CpG:12:3")
	expect.EQ(t, string(appendLabel(nil, LabelCounts, &a, &b)), "CpG:12:0:1:2")

	// dst is appended to, not overwritten.
	buf := appendLabel([]byte("x"), LabelTotals, &b, &a)
	expect.EQ(t, string(buf), "xCpG:3:12")
}
