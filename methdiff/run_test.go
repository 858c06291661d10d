package methdiff_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/methdiff/methdiff"
	"github.com/grailbio/methdiff/methyl"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const (
	countsA = "# methcounts\n" +
		"chr1\t100\t+\tCpG\t0.8\t10\n" +
		"chr1\t200\t-\tCpG\t0.5\t4\n" +
		"chr2\t50\t+\tCpG\t1\t3\n"
	bedB = "track name=b\n" +
		"chr1\t100\t101\tCpG:10\t0.25\t+\n" +
		"chr1\t200\t201\tCpG:4\t0.5\t-\n" +
		"chr3\t50\t51\tCpG:2\t0.5\t+\n"
	unsortedA = "chr1\t200\t+\tCpG\t0.5\t4\n" +
		"chr1\t100\t+\tCpG\t0.8\t10\n"
)

func writeFile(t *testing.T, dir, name, data string) string {
	path := filepath.Join(dir, name)
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
	return path
}

func TestRun(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	pathA := writeFile(t, tmpdir, "a.meth", countsA)
	pathB := writeFile(t, tmpdir, "b.bed", bedB)

	tests := []struct {
		name   string
		modify func(opts *methdiff.Opts)
		want   string
	}{
		{
			name:   "defaults",
			modify: func(opts *methdiff.Opts) {},
			// B's score of 0.25 over 10 reads floors to 2 methylated.
			want: "chr1\t100\t101\tCpG:10:10\t0.995539\n" +
				"chr1\t200\t201\tCpG:4:4\t0.5\n",
		},
		{
			name: "all_loci_counts",
			modify: func(opts *methdiff.Opts) {
				opts.AllLoci = true
				opts.Label = "counts"
			},
			want: "chr1\t100\t101\tCpG:8:2:2:8\t0.995539\n" +
				"chr1\t200\t201\tCpG:2:2:2:2\t0.5\n" +
				"chr2\t50\t51\tCpG:3:0:0:0\t0.8\n",
		},
		{
			name: "region",
			modify: func(opts *methdiff.Opts) {
				opts.Region = "chr1:150-250"
			},
			want: "chr1\t200\t201\tCpG:4:4\t0.5\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := methdiff.DefaultOpts
			opts.OutPath = filepath.Join(tmpdir, tt.name+".bed")
			tt.modify(&opts)
			assert.NoError(t, methdiff.Run(ctx, pathA, pathB, &opts))
			got, err := ioutil.ReadFile(opts.OutPath)
			assert.NoError(t, err)
			expect.EQ(t, string(got), tt.want)
		})
	}
}

func TestRunUnsorted(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	pathA := writeFile(t, tmpdir, "a.meth", unsortedA)
	pathB := writeFile(t, tmpdir, "b.bed", bedB)
	opts := methdiff.DefaultOpts
	opts.OutPath = filepath.Join(tmpdir, "out.bed")
	err := methdiff.Run(ctx, pathA, pathB, &opts)
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.True(t, strings.Contains(err.Error(), pathA))
	_, statErr := os.Stat(opts.OutPath)
	expect.True(t, os.IsNotExist(statErr))

	// Same inputs, roles swapped: the unsorted file is still detected.
	err = methdiff.Run(ctx, pathB, pathA, &opts)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestRunMetricsAndGzip(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	pathA := writeFile(t, tmpdir, "a.meth", countsA)
	pathB := writeFile(t, tmpdir, "b.bed", bedB)
	opts := methdiff.DefaultOpts
	opts.OutPath = filepath.Join(tmpdir, "out.bed.gz")
	opts.MetricsPath = filepath.Join(tmpdir, "metrics.tsv")
	assert.NoError(t, methdiff.Run(ctx, pathA, pathB, &opts))

	f, err := os.Open(opts.OutPath)
	assert.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	assert.NoError(t, err)
	got, err := ioutil.ReadAll(gz)
	assert.NoError(t, err)
	expect.EQ(t, string(got), "chr1\t100\t101\tCpG:10:10\t0.995539\nchr1\t200\t201\tCpG:4:4\t0.5\n")

	metrics, err := ioutil.ReadFile(opts.MetricsPath)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(metrics), "\n"), "\n")
	expect.EQ(t, lines[1], "# positions in second input: 3")
	expect.EQ(t, lines[len(lines)-1], "all\t3\t0\t2\t0\t1\t2\t66.666667")
}

func TestRunRefDict(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	// chr2 before chr1: both inputs are sorted only under the dictionary.
	a := "chr2\t5\t+\tCpG\t1\t2\nchr1\t5\t+\tCpG\t0\t2\n"
	b := "chr2\t5\t+\tCpG\t0\t2\nchr1\t5\t+\tCpG\t1\t2\n"
	pathA := writeFile(t, tmpdir, "a.meth", a)
	pathB := writeFile(t, tmpdir, "b.meth", b)
	dict := writeFile(t, tmpdir, "ref.dict", "@HD\tVN:1.5\tSO:unsorted\n@SQ\tSN:chr2\tLN:1000\n@SQ\tSN:chr1\tLN:2000\n")

	opts := methdiff.DefaultOpts
	opts.OutPath = filepath.Join(tmpdir, "out.bed")
	expect.True(t, errors.Is(errors.Invalid, methdiff.Run(ctx, pathA, pathB, &opts)))

	opts.RefDict = dict
	assert.NoError(t, methdiff.Run(ctx, pathA, pathB, &opts))
	got, err := ioutil.ReadFile(opts.OutPath)
	assert.NoError(t, err)
	expect.EQ(t, string(got), "chr2\t5\t6\tCpG:2:2\t0.95\nchr1\t5\t6\tCpG:2:2\t0.05\n")
}

func TestRunBadOpts(t *testing.T) {
	ctx := vcontext.Background()
	for _, modify := range []func(opts *methdiff.Opts){
		func(opts *methdiff.Opts) { opts.Pseudocount = -1 },
		func(opts *methdiff.Opts) { opts.Pseudocount = 0; opts.AllLoci = true },
		func(opts *methdiff.Opts) { opts.Label = "both" },
		func(opts *methdiff.Opts) { opts.Format = "vcf" },
		func(opts *methdiff.Opts) { opts.Precision = 0 },
		func(opts *methdiff.Opts) { opts.Region = "chr1"; opts.BedPath = "x.bed" },
		func(opts *methdiff.Opts) { opts.Region = ":5" },
	} {
		opts := methdiff.DefaultOpts
		modify(&opts)
		// Option errors are reported before either input is opened.
		expect.True(t, methdiff.Run(ctx, "/nonexistent/a", "/nonexistent/b", &opts) != nil)
	}
}

func TestCheck(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	pathA := writeFile(t, tmpdir, "a.meth", countsA)
	pathB := writeFile(t, tmpdir, "b.bed", bedB)
	pathU := writeFile(t, tmpdir, "u.meth", unsortedA)

	opts := methdiff.DefaultOpts
	results, err := methdiff.Check(ctx, []string{pathA, pathB}, &opts)
	assert.NoError(t, err)
	expect.EQ(t, len(results), 2)
	expect.EQ(t, results[0].Format, methyl.FormatCounts)
	expect.EQ(t, results[0].NCalls, 3)
	expect.EQ(t, results[1].Format, methyl.FormatBED)
	expect.EQ(t, results[1].NCalls, 3)

	results, err = methdiff.Check(ctx, []string{pathU, pathA}, &opts)
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.EQ(t, len(results), 2)
	expect.True(t, results[0].Err != nil)
	expect.NoError(t, results[1].Err)
}
