// Package version provides version comparison and GitHub release fetching
// for the upgrade check.
package version

import (
	"fmt"
	"strings"
)

// Info contains version information for an upgrade check.
type Info struct {
	Current string
	Latest  string
	IsNewer bool
}

// CompareVersions compares two version strings.
// Returns:
//   - 1 if v1 > v2
//   - 0 if v1 == v2
//   - -1 if v1 < v2
//
//nolint:gocyclo // Version comparison handles dev, commit hash, and semver cases
func CompareVersions(v1, v2 string) int {
	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")

	// A dev build or bare commit hash is always older than a release.
	isV1Dev := v1 == "dev" || v1 == "" || isCommitHash(v1)
	isV2Dev := v2 == "dev" || v2 == "" || isCommitHash(v2)

	if isV1Dev && isV2Dev {
		return 0
	}
	if isV1Dev {
		return -1
	}
	if isV2Dev {
		return 1
	}

	parts1 := parseVersion(v1)
	parts2 := parseVersion(v2)

	for i := 0; i < 3; i++ {
		if i >= len(parts1) && i >= len(parts2) {
			break
		}
		val1 := 0
		val2 := 0
		if i < len(parts1) {
			val1 = parts1[i]
		}
		if i < len(parts2) {
			val2 = parts2[i]
		}

		if val1 > val2 {
			return 1
		}
		if val1 < val2 {
			return -1
		}
	}

	return 0
}

// IsDevBuild reports whether a version string is a development build: the
// literal "dev", an empty string, or a bare commit hash.
func IsDevBuild(version string) bool {
	version = strings.TrimPrefix(version, "v")
	return version == "dev" || version == "" || isCommitHash(version)
}

// IsNewerVersion checks if latestVersion is newer than currentVersion.
func IsNewerVersion(currentVersion, latestVersion string) bool {
	return CompareVersions(latestVersion, currentVersion) > 0
}

// parseVersion parses a version string into major, minor, patch integers.
func parseVersion(version string) []int {
	// Strip pre-release and build metadata suffixes (-rc1, -dirty, +build).
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))

	for _, part := range parts {
		var num int
		if _, err := fmt.Sscanf(part, "%d", &num); err == nil {
			result = append(result, num)
		}
	}

	return result
}

// isCommitHash checks if a string looks like a git commit hash: 7-40 hex
// characters with at least one letter, so pure numeric versions like
// "2024010100" are not mistaken for hashes.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")

	if len(s) < 7 || len(s) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'

		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
		if isLowerHex || isUpperHex {
			hasLetter = true
		}
	}

	return hasLetter
}
