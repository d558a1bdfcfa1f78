package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// PlatformFamily identifies an operating system family a package can run on.
type PlatformFamily string

const (
	// PlatformIOS is the iOS family.
	PlatformIOS PlatformFamily = "ios"
	// PlatformMacOS is the macOS family.
	PlatformMacOS PlatformFamily = "macos"
	// PlatformMacCatalyst is the Mac Catalyst family.
	PlatformMacCatalyst PlatformFamily = "maccatalyst"
	// PlatformTVOS is the tvOS family.
	PlatformTVOS PlatformFamily = "tvos"
	// PlatformWatchOS is the watchOS family.
	PlatformWatchOS PlatformFamily = "watchos"
	// PlatformVisionOS is the visionOS family.
	PlatformVisionOS PlatformFamily = "visionos"
	// PlatformDriverKit is the DriverKit family.
	PlatformDriverKit PlatformFamily = "driverkit"
)

var knownFamilies = map[PlatformFamily]struct{}{
	PlatformIOS:         {},
	PlatformMacOS:       {},
	PlatformMacCatalyst: {},
	PlatformTVOS:        {},
	PlatformWatchOS:     {},
	PlatformVisionOS:    {},
	PlatformDriverKit:   {},
}

// ParsePlatformFamily normalizes a family name such as "iOS" or "macOS".
// It reports false for families it does not know.
func ParsePlatformFamily(s string) (PlatformFamily, bool) {
	f := PlatformFamily(strings.ToLower(strings.TrimSpace(s)))
	_, ok := knownFamilies[f]
	return f, ok
}

// Version is a dotted numeric OS version such as "14" or "17.2.1".
// The zero value means "no version".
type Version struct {
	raw       string
	canonical string
}

var versionPattern = regexp.MustCompile(`^v?\d+(\.\d+){0,2}$`)

// ParseVersion parses a dotted numeric version. Missing minor and patch components are zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if !versionPattern.MatchString(s) {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, "cannot parse version"), "version", s)
	}

	raw := strings.TrimPrefix(s, "v")
	canonical := semver.Canonical("v" + raw)
	if canonical == "" {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, "cannot parse version"), "version", s)
	}

	return Version{raw: raw, canonical: canonical}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// It is intended for constants and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the version is unset.
func (v Version) IsZero() bool {
	return v.canonical == ""
}

// String returns the version as it was written, without a leading "v".
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or +1 depending on whether v is lower than, equal to or higher than other.
// "14" and "14.0.0" compare equal.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canonical, other.canonical)
}

// AtLeast reports whether v is greater than or equal to minimum.
func (v Version) AtLeast(minimum Version) bool {
	return v.Compare(minimum) >= 0
}

// PlatformConstraint declares the minimum OS version of one platform family.
type PlatformConstraint struct {
	Family     PlatformFamily
	MinVersion Version
}

// Allows reports whether the consumer platform belongs to the constrained family
// and runs at least the minimum version.
func (c PlatformConstraint) Allows(p Platform) bool {
	return c.Family == p.Family && p.Version.AtLeast(c.MinVersion)
}

// String renders the constraint as "family>=version".
func (c PlatformConstraint) String() string {
	return string(c.Family) + ">=" + c.MinVersion.String()
}

// Platform describes the platform a consuming build targets.
type Platform struct {
	Family  PlatformFamily
	Version Version
	// Variant distinguishes environments of the same family, e.g. "simulator".
	// Empty means a physical device.
	Variant string
	// Arch optionally restricts the architecture, e.g. "arm64".
	Arch string
}

// ParsePlatform parses a consumer platform written as "family@version", e.g. "ios@17.2".
func ParsePlatform(spec string) (Platform, error) {
	familyPart, versionPart, ok := strings.Cut(strings.TrimSpace(spec), "@")
	if !ok || familyPart == "" || versionPart == "" {
		return Platform{}, zerr.With(zerr.Wrap(ErrInvalidPlatformSpec, "cannot parse platform"), "platform", spec)
	}

	family, known := ParsePlatformFamily(familyPart)
	if !known {
		return Platform{}, zerr.With(zerr.Wrap(ErrUnsupportedPlatform, "unknown platform family"), "platform", spec)
	}

	version, err := ParseVersion(versionPart)
	if err != nil {
		return Platform{}, zerr.With(zerr.Wrap(err, ErrInvalidPlatformSpec.Error()), "platform", spec)
	}

	return Platform{Family: family, Version: version}, nil
}

// String renders the platform as "family@version" followed by variant and architecture when set.
func (p Platform) String() string {
	var b strings.Builder
	b.WriteString(string(p.Family))
	b.WriteString("@")
	b.WriteString(p.Version.String())
	if p.Variant != "" {
		b.WriteString("-")
		b.WriteString(p.Variant)
	}
	if p.Arch != "" {
		b.WriteString("/")
		b.WriteString(p.Arch)
	}
	return b.String()
}
