package mismatch

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LaneSummary describes the mismatch profile of one lane
type LaneSummary struct {
	Lane       LaneID
	Length     int
	Mismatches uint64 // decoded from MD
	Reported   uint64 // sum of XM

	MeanFraction float64
	PeakCycle    int // zero-based, -1 for an empty lane
	PeakFraction float64
}

// Fractions returns the per-cycle mismatch fractions of lane
func (s *Session) Fractions(lane *Lane) []float64 {
	fracs := make([]float64, len(lane.Counts))
	for i, c := range lane.Counts {
		fracs[i] = Fraction(c, s.analyzed)
	}
	return fracs
}

// Summarize computes a LaneSummary for every reported lane
func (s *Session) Summarize() []LaneSummary {
	var out []LaneSummary
	for _, lane := range s.Lanes() {
		sum := LaneSummary{
			Lane:       lane.ID,
			Length:     lane.Length,
			Mismatches: lane.Counts.Total(),
			Reported:   lane.Reported,
			PeakCycle:  -1,
		}
		if fracs := s.Fractions(lane); len(fracs) > 0 {
			sum.MeanFraction = stat.Mean(fracs, nil)
			sum.PeakCycle = floats.MaxIdx(fracs)
			sum.PeakFraction = fracs[sum.PeakCycle]
		}
		out = append(out, sum)
	}
	return out
}

// LogSummary writes the end-of-run counts to log at info level
func (s *Session) LogSummary(log logrus.FieldLogger) {
	log.Infof("Processed %d out of %d reads.", s.analyzed, s.total)
	for _, v := range []Verdict{Unaligned, MultiMapped, Gapped} {
		if n := s.exclusions[v]; n > 0 {
			log.Infof("  Excluded %d %s reads", n, v)
		}
	}

	switch s.mode {
	case ModePaired:
		log.Infof("Paired reads, %d bases + %d bases", laneLength(s.lanes[0]), laneLength(s.lanes[1]))
	default:
		log.Infof("Single reads, %d bases", laneLength(s.lanes[0]))
	}

	for _, sum := range s.Summarize() {
		fields := logrus.Fields{
			"lane":       int(sum.Lane),
			"mismatches": sum.Mismatches,
			"reported":   sum.Reported,
			"mean":       fmt.Sprintf("%.4f", sum.MeanFraction),
		}
		if sum.PeakCycle >= 0 {
			fields["peak_cycle"] = sum.PeakCycle + 1
			fields["peak"] = fmt.Sprintf("%.4f", sum.PeakFraction)
		}
		log.WithFields(fields).Info("Lane summary")
	}
}

func laneLength(l *Lane) int {
	if l == nil {
		return 0
	}
	return l.Length
}
