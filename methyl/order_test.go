package methyl_test

import (
	"path/filepath"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/methdiff/methyl"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestLexOrder(t *testing.T) {
	expect.True(t, methyl.LexOrder.CompareChrom("chr1", "chr10") < 0)
	expect.True(t, methyl.LexOrder.CompareChrom("chr10", "chr2") < 0)
	expect.EQ(t, methyl.LexOrder.CompareChrom("chrX", "chrX"), 0)

	a := methyl.Call{Chrom: "chr1", Start: 5}
	b := methyl.Call{Chrom: "chr1", Start: 7}
	c := methyl.Call{Chrom: "chr2", Start: 0}
	expect.True(t, methyl.Compare(methyl.LexOrder, &a, &b) < 0)
	expect.True(t, methyl.Compare(methyl.LexOrder, &b, &a) > 0)
	expect.True(t, methyl.Compare(methyl.LexOrder, &b, &c) < 0)
	expect.EQ(t, methyl.Compare(methyl.LexOrder, &a, &a), 0)
}

func TestDictOrder(t *testing.T) {
	o := methyl.NewDictOrder([]string{"chr1", "chr2", "chr10", "chr2"})
	expect.True(t, o.CompareChrom("chr2", "chr10") < 0)
	expect.True(t, o.CompareChrom("chr10", "chr1") > 0)
	expect.EQ(t, o.CompareChrom("chr10", "chr10"), 0)
	// Unlisted names follow every listed one, by name.
	expect.True(t, o.CompareChrom("chr10", "chrUn") < 0)
	expect.True(t, o.CompareChrom("chrUn", "chr1") > 0)
	expect.True(t, o.CompareChrom("chrA", "chrB") < 0)
}

func TestDictOrderFromHeader(t *testing.T) {
	var refs []*sam.Reference
	for _, name := range []string{"chrM", "chr1", "chr2"} {
		ref, err := sam.NewReference(name, "", "", 1000, nil, nil)
		assert.NoError(t, err)
		refs = append(refs, ref)
	}
	header, err := sam.NewHeader(nil, refs)
	assert.NoError(t, err)
	o := methyl.NewDictOrderFromHeader(header)
	expect.True(t, o.CompareChrom("chrM", "chr1") < 0)
	expect.True(t, o.CompareChrom("chr2", "chr1") > 0)
}

func TestLoadRefDict(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	write := func(name, data string) string {
		path := filepath.Join(tmpdir, name)
		out, err := file.Create(ctx, path)
		assert.NoError(t, err)
		_, err = out.Writer(ctx).Write([]byte(data))
		assert.NoError(t, err)
		assert.NoError(t, out.Close(ctx))
		return path
	}

	path := write("ref.dict", "@HD\tVN:1.5\n@SQ\tSN:chr2\tLN:100\n@SQ\tSN:chr1\tLN:200\n")
	o, err := methyl.LoadRefDict(ctx, path)
	assert.NoError(t, err)
	expect.True(t, o.CompareChrom("chr2", "chr1") < 0)

	path = write("empty.dict", "@HD\tVN:1.5\n")
	_, err = methyl.LoadRefDict(ctx, path)
	expect.True(t, err != nil)

	_, err = methyl.LoadRefDict(ctx, filepath.Join(tmpdir, "missing.dict"))
	expect.True(t, err != nil)
}
