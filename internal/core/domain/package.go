package domain

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// MinBinaryTargetToolsVersion is the first tools version that understands binary targets.
var MinBinaryTargetToolsVersion = MustParseVersion("5.3")

// ProductType is the kind of product a package exports.
type ProductType string

// ProductTypeLibrary is a library product, the only product type consumers can link.
const ProductTypeLibrary ProductType = "library"

// Linkage controls how a library product is linked into the consumer.
type Linkage string

const (
	// LinkageAutomatic lets the build tool choose static or dynamic linking.
	LinkageAutomatic Linkage = "automatic"
	// LinkageStatic forces static linking.
	LinkageStatic Linkage = "static"
	// LinkageDynamic forces dynamic linking.
	LinkageDynamic Linkage = "dynamic"
)

// TargetKind tags the variant a Target holds.
type TargetKind uint8

const (
	// TargetKindSource marks a target compiled from source files.
	TargetKindSource TargetKind = iota + 1
	// TargetKindBinary marks a target bound to a prebuilt artifact.
	TargetKindBinary
)

// String returns the manifest spelling of the kind.
func (k TargetKind) String() string {
	switch k {
	case TargetKindSource:
		return "source"
	case TargetKindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// SourceTarget is a target compiled from sources. It is passed through untouched.
type SourceTarget struct {
	// Path is the source directory relative to the package root.
	Path string
}

// BinaryTarget is a target bound to a prebuilt artifact on disk.
type BinaryTarget struct {
	Name InternedString
	// Path is the artifact path as declared, relative to the package root.
	Path string
	// ArtifactPath is Path resolved against the package root.
	ArtifactPath string
	// Checksum is the optional lowercase hex SHA-256 of the artifact file.
	Checksum string
}

// Target is a tagged variant over SourceTarget and BinaryTarget.
// Exactly one of Source and Binary is set, as indicated by Kind.
type Target struct {
	Name   InternedString
	Kind   TargetKind
	Source *SourceTarget
	Binary *BinaryTarget
}

// Product is a named unit exported to consumers, backed by exactly one target.
type Product struct {
	Name    InternedString
	Type    ProductType
	Linkage Linkage
	Target  InternedString
}

// Package is a loaded, validated manifest. It is read-only once constructed.
type Package struct {
	Name         InternedString
	ToolsVersion Version
	// Root is the directory containing the manifest.
	Root      string
	Platforms []PlatformConstraint
	Products  []Product
	Targets   []Target

	productIndex map[InternedString]int
	targetIndex  map[InternedString]int
}

// PackageSpec is the format-independent, unvalidated content of a manifest.
type PackageSpec struct {
	Name         string
	ToolsVersion string
	Root         string
	Platforms    []PlatformSpec
	Products     []ProductSpec
	Targets      []TargetSpec
}

// PlatformSpec is an unvalidated platform constraint.
type PlatformSpec struct {
	Family     string
	MinVersion string
}

// ProductSpec is an unvalidated product declaration.
type ProductSpec struct {
	Name    string
	Type    string
	Linkage string
	Targets []string
}

// TargetSpec is an unvalidated target declaration.
type TargetSpec struct {
	Name     string
	Type     string
	Path     string
	Checksum string
}

func malformed(reason string) error {
	return zerr.Wrap(ErrMalformedManifest, reason)
}

// NewPackage validates a spec and builds the immutable Package.
// It returns ErrMalformedManifest for structural problems and ErrUnsupportedPlatform
// when no platform, or an unknown platform family, is declared.
func NewPackage(spec *PackageSpec) (*Package, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, malformed("package name is required")
	}

	pkg := &Package{
		Name:         NewInternedString(name),
		Root:         spec.Root,
		productIndex: make(map[InternedString]int, len(spec.Products)),
		targetIndex:  make(map[InternedString]int, len(spec.Targets)),
	}

	if spec.ToolsVersion != "" {
		v, err := ParseVersion(spec.ToolsVersion)
		if err != nil {
			err = zerr.With(malformed("invalid tools version"), "tools_version", spec.ToolsVersion)
			return nil, zerr.With(err, "package", name)
		}
		pkg.ToolsVersion = v
	}

	if len(spec.Products) == 0 {
		return nil, zerr.With(malformed("at least one product is required"), "package", name)
	}
	if len(spec.Targets) == 0 {
		return nil, zerr.With(malformed("at least one target is required"), "package", name)
	}

	if err := pkg.buildTargets(spec.Targets); err != nil {
		return nil, zerr.With(err, "package", name)
	}
	if err := pkg.buildProducts(spec.Products); err != nil {
		return nil, zerr.With(err, "package", name)
	}
	if err := pkg.buildPlatforms(spec.Platforms); err != nil {
		return nil, zerr.With(err, "package", name)
	}

	return pkg, nil
}

func (p *Package) buildPlatforms(specs []PlatformSpec) error {
	if len(specs) == 0 {
		return zerr.Wrap(ErrUnsupportedPlatform, "package declares no platform")
	}

	seen := make(map[PlatformFamily]bool, len(specs))
	p.Platforms = make([]PlatformConstraint, 0, len(specs))
	for _, s := range specs {
		family, ok := ParsePlatformFamily(s.Family)
		if !ok {
			return zerr.With(zerr.Wrap(ErrUnsupportedPlatform, "unknown platform family"), "family", s.Family)
		}
		if seen[family] {
			return zerr.With(malformed("platform family declared more than once"), "family", string(family))
		}
		seen[family] = true

		minVersion, err := ParseVersion(s.MinVersion)
		if err != nil {
			err = zerr.With(malformed("invalid minimum version"), "min_version", s.MinVersion)
			return zerr.With(err, "family", string(family))
		}

		p.Platforms = append(p.Platforms, PlatformConstraint{Family: family, MinVersion: minVersion})
	}
	return nil
}

func (p *Package) buildTargets(specs []TargetSpec) error {
	p.Targets = make([]Target, 0, len(specs))
	for _, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return malformed("target name is required")
		}
		targetName := NewInternedString(name)
		if _, dup := p.targetIndex[targetName]; dup {
			return zerr.With(malformed("duplicate target name"), "target", name)
		}

		target, err := p.buildTarget(targetName, s)
		if err != nil {
			return zerr.With(err, "target", name)
		}

		p.targetIndex[targetName] = len(p.Targets)
		p.Targets = append(p.Targets, target)
	}
	return nil
}

func (p *Package) buildTarget(name InternedString, s TargetSpec) (Target, error) {
	switch strings.ToLower(s.Type) {
	case "binary":
		binary, err := p.buildBinaryTarget(name, s)
		if err != nil {
			return Target{}, err
		}
		return Target{Name: name, Kind: TargetKindBinary, Binary: binary}, nil
	case "", "source", "regular":
		path := s.Path
		if path == "" {
			path = filepath.Join("Sources", name.String())
		}
		return Target{Name: name, Kind: TargetKindSource, Source: &SourceTarget{Path: path}}, nil
	default:
		return Target{}, zerr.With(malformed("unknown target type"), "type", s.Type)
	}
}

func (p *Package) buildBinaryTarget(name InternedString, s TargetSpec) (*BinaryTarget, error) {
	if !p.ToolsVersion.IsZero() && !p.ToolsVersion.AtLeast(MinBinaryTargetToolsVersion) {
		err := malformed("binary targets require a newer tools version")
		err = zerr.With(err, "tools_version", p.ToolsVersion.String())
		return nil, zerr.With(err, "required", MinBinaryTargetToolsVersion.String())
	}

	if s.Path == "" {
		return nil, malformed("binary target path is required")
	}
	if filepath.IsAbs(s.Path) {
		return nil, zerr.With(malformed("binary target path must be relative to the package root"), "path", s.Path)
	}
	clean := filepath.Clean(s.Path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, zerr.With(malformed("binary target path escapes the package root"), "path", s.Path)
	}

	checksum := strings.ToLower(strings.TrimSpace(s.Checksum))
	if checksum != "" {
		if raw, err := hex.DecodeString(checksum); err != nil || len(raw) != 32 {
			return nil, zerr.With(malformed("checksum must be a hex encoded SHA-256 digest"), "checksum", s.Checksum)
		}
	}

	return &BinaryTarget{
		Name:         name,
		Path:         s.Path,
		ArtifactPath: filepath.Join(p.Root, clean),
		Checksum:     checksum,
	}, nil
}

func (p *Package) buildProducts(specs []ProductSpec) error {
	p.Products = make([]Product, 0, len(specs))
	for _, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return malformed("product name is required")
		}
		productName := NewInternedString(name)
		if _, dup := p.productIndex[productName]; dup {
			return zerr.With(malformed("duplicate product name"), "product", name)
		}

		product, err := p.buildProduct(productName, s)
		if err != nil {
			return zerr.With(err, "product", name)
		}

		p.productIndex[productName] = len(p.Products)
		p.Products = append(p.Products, product)
	}
	return nil
}

func (p *Package) buildProduct(name InternedString, s ProductSpec) (Product, error) {
	productType := ProductType(strings.ToLower(s.Type))
	if productType == "" {
		productType = ProductTypeLibrary
	}
	if productType != ProductTypeLibrary {
		return Product{}, zerr.With(malformed("unsupported product type"), "type", s.Type)
	}

	linkage := Linkage(strings.ToLower(s.Linkage))
	switch linkage {
	case "":
		linkage = LinkageAutomatic
	case LinkageAutomatic, LinkageStatic, LinkageDynamic:
	default:
		return Product{}, zerr.With(malformed("unknown library linkage"), "linkage", s.Linkage)
	}

	if len(s.Targets) != 1 {
		return Product{}, zerr.With(malformed("product must reference exactly one target"), "targets", len(s.Targets))
	}
	target := NewInternedString(strings.TrimSpace(s.Targets[0]))
	if _, ok := p.targetIndex[target]; !ok {
		return Product{}, zerr.With(malformed("product references an undeclared target"), "target", target.String())
	}

	return Product{Name: name, Type: productType, Linkage: linkage, Target: target}, nil
}

// Product looks up a product by name.
func (p *Package) Product(name string) (Product, bool) {
	i, ok := p.productIndex[NewInternedString(name)]
	if !ok {
		return Product{}, false
	}
	return p.Products[i], true
}

// Target looks up a target by name.
func (p *Package) Target(name InternedString) (Target, bool) {
	i, ok := p.targetIndex[name]
	if !ok {
		return Target{}, false
	}
	return p.Targets[i], true
}

// Supports reports whether the consumer platform satisfies one of the package constraints.
func (p *Package) Supports(consumer Platform) bool {
	for _, c := range p.Platforms {
		if c.Allows(consumer) {
			return true
		}
	}
	return false
}

// Constraint returns the constraint declared for a family, if any.
func (p *Package) Constraint(family PlatformFamily) (PlatformConstraint, bool) {
	for _, c := range p.Platforms {
		if c.Family == family {
			return c, true
		}
	}
	return PlatformConstraint{}, false
}
