package mismatch

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

const testHeader = "@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:chr1\tLN:1000\n"

// samLine formats a SAM record with a read of length n. Unmapped reads
// (flag 0x4) get no reference.
func samLine(name string, flag sam.Flags, n int, tags ...string) string {
	ref, pos, cigar := "chr1", "1", fmt.Sprintf("%dM", n)
	if flag&sam.Unmapped != 0 {
		ref, pos, cigar = "*", "0", "*"
	}
	fields := []string{
		name, fmt.Sprint(int(flag)), ref, pos, "37", cigar, "*", "0", "0",
		strings.Repeat("A", n), "*",
	}
	return strings.Join(append(fields, tags...), "\t")
}

// uniq returns the tags of a unique, gap-free BWA alignment
func uniq(md string) []string {
	xm := 0
	for i := 0; i < len(md); i++ {
		if isMismatchBase(md[i]) {
			xm++
		}
	}
	return []string{"X0:i:1", fmt.Sprintf("XM:i:%d", xm), "XO:i:0", "MD:Z:" + md}
}

func parseRecords(t *testing.T, lines ...string) []*sam.Record {
	t.Helper()
	r, err := sam.NewReader(strings.NewReader(testHeader + strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	var recs []*sam.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}

func parseRecord(t *testing.T, line string) *sam.Record {
	t.Helper()
	recs := parseRecords(t, line)
	require.Len(t, recs, 1)
	return recs[0]
}

// sliceReader serves records from memory
type sliceReader struct {
	recs []*sam.Record
	err  error
}

func (s *sliceReader) Read() (*sam.Record, error) {
	if len(s.recs) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	r := s.recs[0]
	s.recs = s.recs[1:]
	return r, nil
}
