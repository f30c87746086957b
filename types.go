package uniq

import "fmt"

// Mode selects which runs are eligible for output.
// The zero value is All.
type Mode int

const (
	// All emits every run.
	All Mode = iota
	// Repeated emits only runs of two or more lines.
	Repeated
	// Unique emits only runs of exactly one line.
	Unique
)

func (m Mode) String() string {
	switch m {
	case All:
		return "all"
	case Repeated:
		return "repeated"
	case Unique:
		return "unique"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the Mode named by s, as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "all", "":
		return All, nil
	case "repeated":
		return Repeated, nil
	case "unique":
		return Unique, nil
	}
	return All, &ConfigError{Field: "Mode", Value: s, Reason: "unknown mode"}
}

// Keep reports whether a run of count lines is emitted under m.
func (m Mode) Keep(count uint64) bool {
	return m.predicate()(count)
}

// predicate returns the eligibility test for m, or nil for an unknown mode.
func (m Mode) predicate() func(uint64) bool {
	switch m {
	case All:
		return func(uint64) bool { return true }
	case Repeated:
		return func(count uint64) bool { return count > 1 }
	case Unique:
		return func(count uint64) bool { return count == 1 }
	default:
		return func(uint64) bool { return false }
	}
}

func (m Mode) valid() bool {
	return m == All || m == Repeated || m == Unique
}

// Run is a maximal group of adjacent equal lines.
// Line is the first line of the group, including its delimiter if it had one.
type Run struct {
	Line  string
	Count uint64
}

// Format renders the run as an output record.
func (r Run) Format(withCount bool) string {
	return Format(r.Line, r.Count, withCount)
}

// LineSource yields input lines one at a time.
// ReadLine returns io.EOF once the input is exhausted. Lines keep their
// delimiter so that comparison and output are byte-exact.
type LineSource interface {
	ReadLine() (string, error)
}
