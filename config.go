package charnfa

import (
	"github.com/coregx/charnfa/nfa"
	"github.com/coregx/charnfa/prefilter"
)

// Config controls automaton limits and the scanning strategy of a Normalizer.
//
// Example:
//
//	config := charnfa.DefaultConfig()
//	config.EnablePrefilter = false // run the matcher at every position
//	n, err := charnfa.Compile(ruleSet, config)
type Config struct {
	// LoopLimit bounds the epsilon steps taken below one consumed character.
	// Default: 100
	LoopLimit int

	// MaxDepth bounds the recursion depth of a match.
	// Default: 10000
	MaxDepth int

	// EnablePrefilter lets NormalizeString and the Transformer copy runs of
	// text that no rule can start on without invoking the matcher.
	// Default: true
	EnablePrefilter bool

	// MaxPrefilterRunes is the largest start alphabet expanded into an
	// Aho-Corasick literal set. Larger alphabets use a range prefilter.
	// Default: 256
	MaxPrefilterRunes int

	// InitialBuffer is the starting size, in runes, of the output scratch
	// buffer. It doubles whenever a rule's output does not fit.
	// Default: 64
	InitialBuffer int
}

// DefaultConfig returns a configuration with the default limits.
func DefaultConfig() Config {
	return Config{
		LoopLimit:         nfa.DefaultLoopLimit,
		MaxDepth:          nfa.DefaultMaxDepth,
		EnablePrefilter:   true,
		MaxPrefilterRunes: prefilter.DefaultMaxRunes,
		InitialBuffer:     64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - LoopLimit: 1 to 100,000
//   - MaxDepth: 1 to 1,000,000
//   - MaxPrefilterRunes: 1 to 65,536 (when EnablePrefilter)
//   - InitialBuffer: 1 to 1,048,576
func (c Config) Validate() error {
	if c.LoopLimit < 1 || c.LoopLimit > 100_000 {
		return &ConfigError{
			Field:   "LoopLimit",
			Message: "must be between 1 and 100,000",
		}
	}
	if c.MaxDepth < 1 || c.MaxDepth > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 1 and 1,000,000",
		}
	}
	if c.EnablePrefilter {
		if c.MaxPrefilterRunes < 1 || c.MaxPrefilterRunes > 65_536 {
			return &ConfigError{
				Field:   "MaxPrefilterRunes",
				Message: "must be between 1 and 65,536",
			}
		}
	}
	if c.InitialBuffer < 1 || c.InitialBuffer > 1<<20 {
		return &ConfigError{
			Field:   "InitialBuffer",
			Message: "must be between 1 and 1,048,576",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "charnfa: invalid config: " + e.Field + ": " + e.Message
}
