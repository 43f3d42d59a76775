package adapter

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// UnknownVersion is reported when a framework version cannot be detected.
const UnknownVersion = "unknown"

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// VersionRule enables Flags for framework versions at or above MinVersion.
type VersionRule struct {
	MinVersion string
	Flags      []string
}

// VersionTable is an ordered list of rules; the first rule that matches wins.
// Order rules from the newest version down.
type VersionTable []VersionRule

// Flags returns the flags of the first rule matching version. Unknown or
// unparsable versions match nothing.
func (t VersionTable) Flags(version string) []string {
	canonical := canonicalVersion(version)
	if canonical == "" {
		return nil
	}

	for _, rule := range t {
		floor := canonicalVersion(rule.MinVersion)
		if floor != "" && semver.Compare(canonical, floor) >= 0 {
			return append([]string(nil), rule.Flags...)
		}
	}

	return nil
}

func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == UnknownVersion {
		return ""
	}

	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	if !semver.IsValid(version) {
		return ""
	}

	return semver.Canonical(version)
}

// ParseVersion extracts the first dotted version number from tool output,
// e.g. "go version go1.22.3 linux/amd64" or "PHPUnit 9.6.19 by Sebastian Bergmann".
func ParseVersion(output string) (string, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return UnknownVersion, fmt.Errorf("no version found in %q", strings.TrimSpace(output))
	}

	return match[1], nil
}

// VersionProber reports the version of a framework binary.
type VersionProber func(ctx context.Context, binary string, args ...string) (string, error)

// ProbeVersion runs binary with args and parses the version from its output.
func ProbeVersion(ctx context.Context, binary string, args ...string) (string, error) {
	// #nosec G204 - binary is the configured framework executable
	out, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
	if err != nil {
		return UnknownVersion, fmt.Errorf("probe %s version: %w", binary, err)
	}

	return ParseVersion(string(out))
}
