package replacement

import (
	"errors"
	"fmt"
	"strings"
)

// Registry names of the policies.
const (
	NameFIFO                 = "fifo"
	NameLRU                  = "lru"
	NameSecondChance         = "second-chance"
	NameEnhancedSecondChance = "enhanced-second-chance"
)

// Default frame counts.
const (
	DefaultFrames         = 20
	DefaultEnhancedFrames = 200
)

var (
	// ErrUnknownPolicy is returned for names the registry does not know.
	ErrUnknownPolicy = errors.New("unknown replacement policy")

	// ErrInvalidCapacity is returned, or panicked with, for capacities below 1.
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

var aliases = map[string]string{
	NameFIFO:                 NameFIFO,
	NameLRU:                  NameLRU,
	NameSecondChance:         NameSecondChance,
	"clock":                  NameSecondChance,
	NameEnhancedSecondChance: NameEnhancedSecondChance,
	"enhanced-clock":         NameEnhancedSecondChance,
	"esc":                    NameEnhancedSecondChance,
}

var displayNames = map[string]string{
	NameFIFO:                 "FIFO",
	NameLRU:                  "LRU",
	NameSecondChance:         "Second Chance",
	NameEnhancedSecondChance: "Enhanced Second Chance",
}

// Names returns the registry names in their canonical order.
func Names() []string {
	return []string{
		NameFIFO,
		NameLRU,
		NameSecondChance,
		NameEnhancedSecondChance,
	}
}

// Canonical resolves a policy name or alias.
func Canonical(name string) (string, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}

	return canonical, nil
}

// DisplayName returns the human readable name of a policy.
func DisplayName(name string) string {
	canonical, err := Canonical(name)
	if err != nil {
		return name
	}

	return displayNames[canonical]
}

// DefaultCapacity returns the frame count a policy runs with unless
// configured otherwise.
func DefaultCapacity(name string) int {
	canonical, _ := Canonical(name)
	if canonical == NameEnhancedSecondChance {
		return DefaultEnhancedFrames
	}

	return DefaultFrames
}

// New creates the named policy over capacity empty frames.
func New(name string, capacity int) (Policy, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}

	if capacity <= 0 {
		return nil, fmt.Errorf("%s: %w, got %d", canonical, ErrInvalidCapacity, capacity)
	}

	switch canonical {
	case NameFIFO:
		return NewFIFO(capacity), nil
	case NameLRU:
		return NewLRU(capacity), nil
	case NameSecondChance:
		return NewSecondChance(capacity), nil
	default:
		return NewEnhancedSecondChance(capacity), nil
	}
}
