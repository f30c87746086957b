// Package uniq collapses adjacent runs of identical lines, the way the classic uniq filter does.
//
// A Processor pulls lines from a LineSource and yields one record per maximal run of
// equal adjacent lines, optionally filtered by Mode and prefixed with the run length.
// Only the run in progress is held in memory, so input of any length is processed in
// constant space.
package uniq

import (
	"io"
	"iter"

	"go.uber.org/zap"
)

// Processor detects runs of adjacent equal lines in a LineSource.
// It is not safe for concurrent use.
type Processor struct {
	src    LineSource
	keep   func(uint64) bool
	count  bool
	delim  byte
	logger *zap.Logger

	// run in progress; n == 0 means none
	line string
	n    uint64

	done  bool
	err   error
	stats Stats
}

// New returns a Processor reading from src. A nil config uses DefaultConfig.
// It returns a *ConfigError if the config or source is unusable.
func New(src LineSource, config *Config) (*Processor, error) {
	config = mergeConfig(config)
	if err := config.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &ConfigError{Field: "source", Value: nil, Reason: "must not be nil"}
	}
	return &Processor{
		src:    src,
		keep:   config.Mode.predicate(),
		count:  config.Count,
		delim:  config.Delimiter(),
		logger: config.Logger,
	}, nil
}

// NextRun returns the next run eligible under the configured Mode.
// It returns io.EOF once the source is exhausted and the last run has been closed.
// A read failure is returned as a *ReadError; it is sticky and every later call returns it.
func (p *Processor) NextRun() (Run, error) {
	if p.err != nil {
		return Run{}, p.err
	}
	for !p.done {
		line, err := p.src.ReadLine()
		if err == io.EOF {
			p.done = true
			run, ok := p.finish()
			p.logger.Debug("input exhausted",
				zap.Uint64("lines", p.stats.Lines),
				zap.Uint64("runs", p.stats.Runs),
				zap.Uint64("emitted", p.stats.Emitted))
			if ok {
				return run, nil
			}
			break
		}
		if err != nil {
			p.err = &ReadError{Line: p.stats.Lines + 1, Err: err}
			p.logger.Debug("read failed", zap.Uint64("line", p.stats.Lines+1), zap.Error(err))
			return Run{}, p.err
		}
		p.stats.Lines++

		if p.n == 0 {
			p.start(line)
			continue
		}
		if line == p.line {
			p.n++
			continue
		}
		run := p.close()
		p.start(line)
		if p.emit(run) {
			return run, nil
		}
	}
	return Run{}, io.EOF
}

// Next returns the next output record, formatted with the configured count flag.
// Errors are as for NextRun.
func (p *Processor) Next() (string, error) {
	run, err := p.NextRun()
	if err != nil {
		return "", err
	}
	return run.Format(p.count), nil
}

// All returns an iterator over the remaining output records.
// Iteration ends at end of input, or after yielding the first error.
func (p *Processor) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			rec, err := p.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Runs returns an iterator over the remaining eligible runs.
// Iteration ends at end of input, or after yielding the first error.
func (p *Processor) Runs() iter.Seq2[Run, error] {
	return func(yield func(Run, error) bool) {
		for {
			run, err := p.NextRun()
			if err == io.EOF {
				return
			}
			if !yield(run, err) || err != nil {
				return
			}
		}
	}
}

// Stats returns the counters accumulated so far.
func (p *Processor) Stats() Stats {
	return p.stats
}

func (p *Processor) start(line string) {
	p.line = line
	p.n = 1
}

// close ends the run in progress and returns it.
func (p *Processor) close() Run {
	if p.n == 0 {
		panic("uniq: close called with no run in progress")
	}
	run := Run{Line: p.line, Count: p.n}
	p.line = ""
	p.n = 0
	p.stats.Runs++
	return run
}

// finish closes the last run at end of input, reporting whether it is emitted.
func (p *Processor) finish() (Run, bool) {
	if p.n == 0 {
		return Run{}, false
	}
	run := p.close()
	return run, p.emit(run)
}

func (p *Processor) emit(run Run) bool {
	if !p.keep(run.Count) {
		return false
	}
	p.stats.Emitted++
	return true
}
