package uniq

import "go.uber.org/zap"

// Config holds configuration settings for a Processor and the channel pipelines
type Config struct {
	Mode           Mode        // which runs to emit
	Count          bool        // prefix each record with its run length
	ZeroTerminated bool        // lines end in NUL instead of newline
	ReadBufferSize int         // input buffer size for reader sources
	ChanBuffSize   int         // buffer size for lines passed between pipeline stages
	Logger         *zap.Logger // debug events; nil for none
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		Mode:           All,
		ReadBufferSize: 1 << 16, // 64k
		ChanBuffSize:   64,
		Logger:         zap.NewNop(),
	}
}

// mergeConfig takes a provided config and returns a copy with any values not set replaced by the defaults
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	merged := *c
	if merged.ReadBufferSize <= 0 {
		merged.ReadBufferSize = d.ReadBufferSize
	}
	if merged.ChanBuffSize < 0 {
		merged.ChanBuffSize = d.ChanBuffSize
	}
	if merged.Logger == nil {
		merged.Logger = d.Logger
	}
	return &merged
}

// Delimiter returns the byte that terminates a line.
func (c *Config) Delimiter() byte {
	if c != nil && c.ZeroTerminated {
		return 0
	}
	return '\n'
}

// validate checks the settings that have no sensible default.
func (c *Config) validate() error {
	if !c.Mode.valid() {
		return &ConfigError{Field: "Mode", Value: c.Mode, Reason: "must be All, Repeated or Unique"}
	}
	return nil
}
