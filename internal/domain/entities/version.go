package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	majorWeight = 1_000_000
	minorWeight = 1_000
)

// displayVersionPattern matches the leading major.minor.patch digits of a version.
var displayVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ToBuildCode encodes a semantic version as major*10^6 + minor*10^3 + patch.
// Components above 999 overflow into the next field; the arithmetic is kept
// as is so that generated build numbers stay compatible across releases.
func ToBuildCode(version string) (int, error) {
	major, minor, patch, err := parseVersionCore(version)
	if err != nil {
		return 0, err
	}
	return major*majorWeight + minor*minorWeight + patch, nil
}

// ToDisplayVersion returns the first major.minor.patch found in version,
// or version itself when there is none.
func ToDisplayVersion(version string) string {
	if match := displayVersionPattern.FindString(version); match != "" {
		return match
	}
	return version
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "=")
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// parseVersionCore extracts the numeric components of a full semantic version.
// Shorthands such as "1.2" that x/mod/semver tolerates are rejected.
func parseVersionCore(version string) (int, int, int, error) {
	normalized := normalizeVersion(version)
	if !semver.IsValid(normalized) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidSemanticVersion, version)
	}

	core := strings.TrimPrefix(normalized, "v")
	if idx := strings.IndexAny(core, "-+"); idx >= 0 {
		core = core[:idx]
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 { //nolint:mnd // major.minor.patch
		return 0, 0, 0, fmt.Errorf("%w: %q is missing a component", ErrInvalidSemanticVersion, version)
	}

	numbers := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidSemanticVersion, version, err)
		}
		numbers[i] = n
	}
	return numbers[0], numbers[1], numbers[2], nil
}

// IsSemanticVersion reports whether s is a full major.minor.patch version,
// optionally prefixed with 'v'.
func IsSemanticVersion(s string) bool {
	_, _, _, err := parseVersionCore(s)
	return err == nil
}
