// Package config holds the settings of a pagesim run and loads them from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/pagesim/logging"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/trace"
)

// EnvPrefix starts the name of every environment variable read by
// LoadFromEnv.
const EnvPrefix = "PAGESIM_"

// DefaultEnvFile is loaded by LoadFromEnv when no file is given.
const DefaultEnvFile = ".env"

// Config holds the settings of a simulation run.
type Config struct {
	TracePath string
	Policies  []string

	// Capacity is the frame count of the non write-tracking policies and
	// EnhancedCapacity the one of the enhanced second-chance policy. Zero
	// selects the policy default.
	Capacity         int
	EnhancedCapacity int

	MaxReferences int
	LogLevel      string
	LogEvents     bool

	Record       bool
	RecordPath   string
	RecordEvents bool

	Monitor     bool
	MonitorPort int
	OpenBrowser bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Policies:      replacement.Names(),
		MaxReferences: trace.DefaultMaxReferences,
		LogLevel:      "info",
	}
}

// LoadFromEnv returns the default configuration overridden by PAGESIM_*
// variables. The given .env files are loaded first, without replacing
// variables that are already set. With no file, .env is loaded if present.
func LoadFromEnv(files ...string) (*Config, error) {
	if err := loadEnvFiles(files); err != nil {
		return nil, err
	}

	c := DefaultConfig()

	var errs []error
	setString := func(name string, dst *string) {
		if val, ok := lookup(name); ok {
			*dst = val
		}
	}
	setInt := func(name string, dst *int) {
		if val, ok := lookup(name); ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}

			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if val, ok := lookup(name); ok {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}

			*dst = b
		}
	}

	setString("TRACE", &c.TracePath)
	if val, ok := lookup("POLICIES"); ok {
		c.Policies = SplitList(val)
	}
	setInt("CAPACITY", &c.Capacity)
	setInt("ENHANCED_CAPACITY", &c.EnhancedCapacity)
	setInt("MAX_REFERENCES", &c.MaxReferences)
	setString("LOG_LEVEL", &c.LogLevel)
	setBool("LOG_EVENTS", &c.LogEvents)
	setBool("RECORD", &c.Record)
	setString("RECORD_PATH", &c.RecordPath)
	setBool("RECORD_EVENTS", &c.RecordEvents)
	setBool("MONITOR", &c.Monitor)
	setInt("MONITOR_PORT", &c.MonitorPort)
	setBool("OPEN_BROWSER", &c.OpenBrowser)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return c, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}

		files = []string{DefaultEnvFile}
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}

	return nil
}

func lookup(name string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}

	val = strings.TrimSpace(val)

	return val, val != ""
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var items []string

	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Policies) == 0 {
		return fmt.Errorf("at least one policy must be selected")
	}

	for _, p := range c.Policies {
		if _, err := replacement.Canonical(p); err != nil {
			return err
		}
	}

	if c.Capacity < 0 || c.EnhancedCapacity < 0 {
		return fmt.Errorf("%w: capacities cannot be negative",
			replacement.ErrInvalidCapacity)
	}

	if c.MaxReferences <= 0 {
		return fmt.Errorf("max references must be greater than 0")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)",
			c.LogLevel)
	}

	if c.RecordEvents && !c.Record {
		return fmt.Errorf("event recording requires recording to be enabled")
	}

	if c.MonitorPort != 0 &&
		(c.MonitorPort < monitoring.MinPortNumber || c.MonitorPort > 65535) {
		return fmt.Errorf("monitor port must be between %d and 65535, got %d",
			monitoring.MinPortNumber, c.MonitorPort)
	}

	if c.OpenBrowser && !c.Monitor {
		return fmt.Errorf("opening a browser requires the monitor")
	}

	return nil
}

// CapacityFor returns the frame count policy runs with.
func (c *Config) CapacityFor(policy string) int {
	canonical, err := replacement.Canonical(policy)
	if err != nil {
		return 0
	}

	configured := c.Capacity
	if canonical == replacement.NameEnhancedSecondChance {
		configured = c.EnhancedCapacity
	}

	if configured > 0 {
		return configured
	}

	return replacement.DefaultCapacity(canonical)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Policies = append([]string(nil), c.Policies...)

	return &clone
}
