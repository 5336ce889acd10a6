package mismatch

import (
	"bufio"
	"fmt"
	"io"
)

// ReportHeader is the first line of every report
const ReportHeader = "mmfraction mmcount"

// WriteReport writes the per-cycle mismatch table for s: a header line,
// then one "fraction count" line per cycle of lane 1 and, for paired
// runs, lane 2. Fractions of both lanes share the run-wide analyzed count.
func WriteReport(w io.Writer, s *Session) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ReportHeader); err != nil {
		return err
	}
	for _, lane := range s.Lanes() {
		for _, count := range lane.Counts {
			if _, err := fmt.Fprintf(bw, "%.4f %d\n", Fraction(count, s.analyzed), count); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
