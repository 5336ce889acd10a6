package mismatch

import "fmt"

// Counter holds per-cycle mismatch counts for one lane
type Counter []uint64

// NewCounter returns a zeroed counter for reads of the given length
func NewCounter(length int) Counter {
	return make(Counter, length)
}

// Add records one mismatch at cycle
func (c Counter) Add(cycle int) error {
	if cycle < 0 || cycle >= len(c) {
		return &Error{
			Kind: CycleOutOfRange,
			Msg:  fmt.Sprintf("mismatch at cycle %d beyond read length %d", cycle, len(c)),
		}
	}
	c[cycle]++
	return nil
}

// Total returns the sum of all cycle counts
func (c Counter) Total() uint64 {
	var n uint64
	for _, v := range c {
		n += v
	}
	return n
}

// Fraction returns count as a fraction of analyzed reads, or zero if no
// reads were analyzed
func Fraction(count, analyzed uint64) float64 {
	if analyzed == 0 {
		return 0
	}
	return float64(count) / float64(analyzed)
}
