package uniq

import (
	"context"
	"io"
)

// Copy writes every remaining record of p to w, then terminates the output.
//
// Records are written as they are produced. After the last one a single line
// delimiter is written unless the output already ends with one, so empty input
// produces exactly one delimiter and terminated input is reproduced unchanged.
//
// Copy stops at the first read or write failure, or when ctx is done. Write
// failures are returned as a *WriteError. The returned Stats reflect the work
// done up to that point.
func Copy(ctx context.Context, w io.Writer, p *Processor) (Stats, error) {
	var (
		written    uint64
		terminated bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return p.Stats(), err
		}
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.Stats(), err
		}
		written++
		if _, err := io.WriteString(w, rec); err != nil {
			return p.Stats(), &WriteError{Record: written, Err: err}
		}
		terminated = len(rec) > 0 && rec[len(rec)-1] == p.delim
	}
	if !terminated {
		if _, err := w.Write([]byte{p.delim}); err != nil {
			return p.Stats(), &WriteError{Err: err}
		}
	}
	return p.Stats(), nil
}
