package uniq

import "fmt"

// Stats contains counters describing the work a Processor has done.
type Stats struct {
	// Lines is the number of input lines read
	Lines uint64

	// Runs is the number of runs closed, emitted or not
	Runs uint64

	// Emitted is the number of runs that matched the Mode and were returned
	Emitted uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("lines: %d\truns: %d\temitted: %d", s.Lines, s.Runs, s.Emitted)
}
