package mismatch

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Config holds settings for a mismatch scan
type Config struct {
	// ReadLength fixes the length of every lane. Reads may be shorter
	// but never longer. Zero means each lane takes the length of the
	// first read assigned to it and all later reads must match.
	ReadLength int

	// ProgressInterval is the number of records between progress log
	// messages (0 disables them)
	ProgressInterval int

	Logger logrus.FieldLogger
}

// NewConfig creates a Config with defaults
func NewConfig() *Config {
	return &Config{
		ProgressInterval: 1000000,
		Logger:           logrus.StandardLogger(),
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.ReadLength < 0 {
		return fmt.Errorf("read length must be >= 0, got %d", c.ReadLength)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must be >= 0, got %d", c.ProgressInterval)
	}
	return nil
}
