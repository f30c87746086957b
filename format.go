package uniq

import "strconv"

// Format renders one output record: the line alone, or "<count> <line>" when withCount is set.
// The line is written verbatim, delimiter included.
func Format(line string, count uint64, withCount bool) string {
	if !withCount {
		return line
	}
	return string(AppendFormat(make([]byte, 0, len(line)+21), line, count, true))
}

// AppendFormat appends the record produced by Format to dst and returns the extended buffer.
func AppendFormat(dst []byte, line string, count uint64, withCount bool) []byte {
	if withCount {
		dst = strconv.AppendUint(dst, count, 10)
		dst = append(dst, ' ')
	}
	return append(dst, line...)
}
