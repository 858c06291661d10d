package methdiff_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/methdiff/methdiff"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := methdiff.NewWriter(&buf, 6)
	for _, d := range []methdiff.DifferentialCall{
		{Chrom: "chr1", Start: 100, End: 101, Label: "CpG:10:10", Prob: 0.9955389038206376},
		{Chrom: "chr1", Start: 200, End: 201, Label: "CpG:4:4", Prob: 0.5},
		{Chrom: "chr2", Start: 0, End: 1, Label: "CpG:11:11", Prob: 5.412544112234515e-06},
		{Chrom: "chr2", Start: 7, End: 8, Label: "CpG:0:0", Prob: 0},
	} {
		assert.NoError(t, w.Write(&d))
	}
	assert.NoError(t, w.Flush())
	expect.EQ(t, buf.String(), "chr1\t100\t101\tCpG:10:10\t0.995539\n"+
		"chr1\t200\t201\tCpG:4:4\t0.5\n"+
		"chr2\t0\t1\tCpG:11:11\t5.41254e-06\n"+
		"chr2\t7\t8\tCpG:0:0\t0\n")
}

func TestWriterPrecision(t *testing.T) {
	var buf bytes.Buffer
	w := methdiff.NewWriter(&buf, 3)
	assert.NoError(t, w.Write(&methdiff.DifferentialCall{Chrom: "chrM", Start: 5, End: 6, Label: "CpG:1:1", Prob: 0.9955389038206376}))
	assert.NoError(t, w.Flush())
	expect.EQ(t, buf.String(), "chrM\t5\t6\tCpG:1:1\t0.996\n")
}
