package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/scttfrdmn/bwamismatch-go/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:chr1\tLN:1000\n"

// single-end reads of length 4
const singleSAM = header +
	"r1\t0\tchr1\t1\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXM:i:0\tXO:i:0\tMD:Z:4\n" +
	"r2\t0\tchr1\t5\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXM:i:0\tXO:i:0\tMD:Z:4\n" +
	"r3\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\t*\n"

const pairedSAM = header +
	"p1\t65\tchr1\t1\t37\t3M\t*\t0\t0\tACG\t*\tX0:i:1\tXM:i:1\tXO:i:0\tMD:Z:1A1\n" +
	"p1\t129\tchr1\t20\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXM:i:1\tXO:i:0\tMD:Z:3C\n" +
	"p2\t65\tchr1\t40\t37\t3M\t*\t0\t0\tACG\t*\tX0:i:2\tXM:i:0\tXO:i:0\tMD:Z:3\n" +
	"p2\t129\tchr1\t60\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXM:i:0\tXO:i:0\tMD:Z:4\n"

const pairedReport = "mmfraction mmcount\n" +
	"0.0000 0\n" +
	"0.3333 1\n" +
	"0.0000 0\n" +
	"0.0000 0\n" +
	"0.0000 0\n" +
	"0.0000 0\n" +
	"0.3333 1\n"

func writeInput(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func writeBAM(t *testing.T, dir, name, data string) string {
	t.Helper()
	sr, err := sam.NewReader(strings.NewReader(data))
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	bw, err := bam.NewWriter(f, sr.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, bw.Write(rec))
	}
	require.NoError(t, bw.Close())
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCmd(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	orig := storage.Stdout
	storage.Stdout = &stdout
	defer func() { storage.Stdout = orig }()

	code := run(context.Background(), args, &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSingleNoMismatches(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", singleSAM)
	out := filepath.Join(dir, "out.txt")

	res := runCmd(t, "-S", "-o", out, in)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "mmfraction mmcount\n0.0000 0\n0.0000 0\n0.0000 0\n0.0000 0\n", readOutput(t, out))
	assert.Empty(t, res.stdout)
}

func TestSingleMismatchToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", header+
		"r1\t0\tchr1\t1\t37\t3M\t*\t0\t0\tACG\t*\tX0:i:1\tXM:i:1\tXO:i:0\tMD:Z:1A1\n")

	res := runCmd(t, "--sam_in", in)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "mmfraction mmcount\n0.0000 0\n1.0000 1\n0.0000 0\n", res.stdout)
}

func TestPairedSAMAndBAMAgree(t *testing.T) {
	dir := t.TempDir()
	samPath := writeInput(t, dir, "in.sam", pairedSAM)
	bamPath := writeBAM(t, dir, "in.bam", pairedSAM)

	samOut := filepath.Join(dir, "sam.txt")
	bamOut := filepath.Join(dir, "bam.txt")
	require.Equal(t, 0, runCmd(t, "-S", "-o", samOut, samPath).code)
	require.Equal(t, 0, runCmd(t, "-o", bamOut, bamPath).code)

	assert.Equal(t, pairedReport, readOutput(t, samOut))
	assert.Equal(t, pairedReport, readOutput(t, bamOut))
}

func TestIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := writeBAM(t, dir, "in.bam", pairedSAM)

	a := runCmd(t, in)
	b := runCmd(t, in)
	require.Equal(t, 0, a.code)
	assert.Equal(t, a.stdout, b.stdout)
}

func TestMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.sam", header+
		"r1\t0\tchr1\t1\t37\t2M\t*\t0\t0\tAC\t*\tX0:i:1\tXO:i:0\tMD:Z:A1\n")
	b := writeInput(t, dir, "b.sam", header+
		"r2\t0\tchr1\t1\t37\t2M\t*\t0\t0\tAC\t*\tX0:i:1\tXO:i:0\tMD:Z:2\n")

	res := runCmd(t, "-S", a, b)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "mmfraction mmcount\n0.5000 1\n0.0000 0\n", res.stdout)

	// mode is fixed across files
	c := writeInput(t, dir, "c.sam", header+
		"p1\t65\tchr1\t1\t37\t2M\t*\t0\t0\tAC\t*\tX0:i:1\tXO:i:0\tMD:Z:2\n")
	res = runCmd(t, "-S", a, c)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "found both paired and single reads")
}

func TestModeConflict(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", singleSAM+
		"p1\t65\tchr1\t1\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXO:i:0\tMD:Z:4\n")

	res := runCmd(t, "-S", "-o", filepath.Join(dir, "out.txt"), in)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "bwa-mismatches: ")
	assert.Contains(t, res.stderr, "found both paired and single reads")
}

func TestFatalDataErrors(t *testing.T) {
	tests := map[string]struct {
		line string
		want string
	}{
		"missing mate": {
			"p1\t1\tchr1\t1\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXO:i:0\tMD:Z:4\n",
			"found paired-end read without read number",
		},
		"length": {
			"r9\t0\tchr1\t1\t37\t5M\t*\t0\t0\tACGTA\t*\tX0:i:1\tXO:i:0\tMD:Z:5\n",
			"reads have different lengths",
		},
		"symbol": {
			"r9\t0\tchr1\t1\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXO:i:0\tMD:Z:2^A2\n",
			"unexpected character '^' in MD cigar",
		},
		"cycle": {
			"r9\t0\tchr1\t1\t37\t4M\t*\t0\t0\tACGT\t*\tX0:i:1\tXO:i:0\tMD:Z:4A\n",
			"beyond read length 4",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			body := singleSAM
			if name == "missing mate" {
				body = header
			}
			in := writeInput(t, dir, "in.sam", body+tc.line)
			res := runCmd(t, "-S", in)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tc.want)
		})
	}
}

func TestReadLengthFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", pairedSAM)

	res := runCmd(t, "-S", "-l", "4", in)
	require.Equal(t, 0, res.code, res.stderr)
	// read 1 is padded to four cycles
	assert.Equal(t, "mmfraction mmcount\n"+
		"0.0000 0\n0.3333 1\n0.0000 0\n0.0000 0\n"+
		"0.0000 0\n0.0000 0\n0.0000 0\n0.3333 1\n", res.stdout)

	uniform := writeInput(t, dir, "uniform.sam", singleSAM)
	with := runCmd(t, "-S", "-l", "4", uniform)
	without := runCmd(t, "-S", uniform)
	require.Equal(t, 0, with.code)
	assert.Equal(t, without.stdout, with.stdout)

	res = runCmd(t, "-S", "-l", "3", uniform)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "reads have different lengths")

	res = runCmd(t, "-S", "-l", "-1", uniform)
	assert.Equal(t, 1, res.code)
}

func TestVerbose(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", singleSAM)
	out := filepath.Join(dir, "out.txt")

	res := runCmd(t, "-S", "-v", "-o", out, in)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Scanning "+in)
	assert.Contains(t, res.stdout, "Processed 2 out of 3 reads.")
	assert.Contains(t, res.stdout, "Single reads, 4 bases")
	assert.NotContains(t, res.stdout, "mmfraction")

	quiet := filepath.Join(dir, "quiet.txt")
	require.Equal(t, 0, runCmd(t, "-S", "-o", quiet, in).code)
	assert.Equal(t, readOutput(t, quiet), readOutput(t, out))
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", pairedSAM)
	png := filepath.Join(dir, "profile.png")

	res := runCmd(t, "-S", "--plot", png, "-o", filepath.Join(dir, "out.txt"), in)
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(readOutput(t, png), "\x89PNG"))

	res = runCmd(t, "-S", "--plot", filepath.Join(dir, "profile.gif"), in)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unsupported plot format")
}

func TestOpenFailures(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "in.sam", singleSAM)

	res := runCmd(t, "-S", filepath.Join(dir, "missing.sam"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot open input file")

	res = runCmd(t, "-S", "-o", filepath.Join(dir, "no", "such", "dir.txt"), in)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot open output file")

	// SAM text read as BAM
	res = runCmd(t, in)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot open input file")
}

func TestUsage(t *testing.T) {
	res := runCmd(t)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "bwa-mismatches [options] file ...")

	res = runCmd(t, "-S")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no input files")

	res = runCmd(t, "--bogus", "x.bam")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown flag")

	res = runCmd(t, "--version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, version)
}
