package types

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Resource formatting helpers shared by the generators and the CLI.
// Validation always works on unrounded values; only display output is rounded.

// FormatMemoryGB formats a memory limit in GB as a container-runtime memory
// string. Whole gigabytes render as "4g"; fractional values fall back to
// megabytes ("512m") so the runtime never sees a float.
func FormatMemoryGB(gb float64) string {
	if gb <= 0 {
		return "0"
	}
	if gb == math.Trunc(gb) {
		return strconv.FormatInt(int64(gb), 10) + "g"
	}
	mb := int64(math.Round(gb * 1024))
	return strconv.FormatInt(mb, 10) + "m"
}

// FormatCPU formats a CPU limit in cores as a container-runtime cpus string.
// Examples: 0.5 -> "0.5", 2.0 -> "2", 0.25 -> "0.25".
func FormatCPU(cores float64) string {
	if cores <= 0 {
		return "0"
	}
	s := strconv.FormatFloat(cores, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

var memoryPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([gkm]?b?)$`)

// ParseMemoryGB parses a memory string ("2g", "512m", "1.5gb") into GB.
func ParseMemoryGB(memory string) (float64, error) {
	memory = strings.ToLower(strings.TrimSpace(memory))
	if memory == "" {
		return 0, NewValidationError("memory value cannot be empty")
	}

	m := memoryPattern.FindStringSubmatch(memory)
	if m == nil {
		return 0, NewValidationError("invalid memory value, use e.g. 2g, 512m or 1.5g")
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, NewValidationError("invalid memory value: " + memory)
	}

	unit := m[2]
	switch {
	case strings.HasPrefix(unit, "k"):
		value /= 1024 * 1024
	case strings.HasPrefix(unit, "m"):
		value /= 1024
	}

	if value <= 0 {
		return 0, NewValidationError("memory value must be positive")
	}
	if value > 128 {
		return 0, NewValidationError("memory value is too large (128 GB maximum)")
	}
	return value, nil
}

// RoundGB rounds a GB value to one decimal for display.
func RoundGB(gb float64) float64 {
	return math.Round(gb*10) / 10
}
