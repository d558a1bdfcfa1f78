package xcframework

// BundleInfo is the Info.plist at the root of an .xcframework bundle.
type BundleInfo struct {
	AvailableLibraries []LibraryInfo `plist:"AvailableLibraries"`
	PackageType        string        `plist:"CFBundlePackageType"`
	FormatVersion      string        `plist:"XCFrameworkFormatVersion"`
}

// LibraryInfo describes one platform slice of the bundle.
type LibraryInfo struct {
	Identifier    string   `plist:"LibraryIdentifier"`
	LibraryPath   string   `plist:"LibraryPath"`
	BinaryPath    string   `plist:"BinaryPath,omitempty"`
	Architectures []string `plist:"SupportedArchitectures"`
	Platform      string   `plist:"SupportedPlatform"`
	Variant       string   `plist:"SupportedPlatformVariant,omitempty"`
}

// FrameworkInfo is the subset of a framework's Info.plist that carries its deployment target.
type FrameworkInfo struct {
	BundleIdentifier     string `plist:"CFBundleIdentifier,omitempty"`
	MinimumOSVersion     string `plist:"MinimumOSVersion,omitempty"`
	MinimumSystemVersion string `plist:"LSMinimumSystemVersion,omitempty"`
}
