package manifest

import "go.trai.ch/sdkpkg/internal/core/domain"

// ManifestDTO is the YAML and TOML representation of a package manifest.
type ManifestDTO struct {
	ToolsVersion string        `yaml:"tools-version" toml:"tools-version"`
	Name         string        `yaml:"name" toml:"name"`
	Platforms    []PlatformDTO `yaml:"platforms" toml:"platforms"`
	Products     []ProductDTO  `yaml:"products" toml:"products"`
	Targets      []TargetDTO   `yaml:"targets" toml:"targets"`
}

// PlatformDTO is a platform constraint entry.
type PlatformDTO struct {
	Family     string `yaml:"family" toml:"family"`
	MinVersion string `yaml:"min-version" toml:"min-version"`
}

// ProductDTO is a product entry.
type ProductDTO struct {
	Name    string   `yaml:"name" toml:"name"`
	Type    string   `yaml:"type" toml:"type"`
	Linkage string   `yaml:"linkage" toml:"linkage"`
	Targets []string `yaml:"targets" toml:"targets"`
}

// TargetDTO is a target entry.
type TargetDTO struct {
	Name     string `yaml:"name" toml:"name"`
	Type     string `yaml:"type" toml:"type"`
	Path     string `yaml:"path" toml:"path"`
	Checksum string `yaml:"checksum" toml:"checksum"`
}

// HCLManifestDTO is the HCL representation of a package manifest.
// Platforms, products and targets are labeled blocks.
type HCLManifestDTO struct {
	ToolsVersion string           `hcl:"tools_version,optional"`
	Name         string           `hcl:"name"`
	Platforms    []HCLPlatformDTO `hcl:"platform,block"`
	Products     []HCLProductDTO  `hcl:"product,block"`
	Targets      []HCLTargetDTO   `hcl:"target,block"`
}

// HCLPlatformDTO is a `platform "<family>" {}` block.
type HCLPlatformDTO struct {
	Family     string `hcl:"family,label"`
	MinVersion string `hcl:"min_version"`
}

// HCLProductDTO is a `product "<name>" {}` block.
type HCLProductDTO struct {
	Name    string   `hcl:"name,label"`
	Type    string   `hcl:"type,optional"`
	Linkage string   `hcl:"linkage,optional"`
	Targets []string `hcl:"targets"`
}

// HCLTargetDTO is a `target "<name>" {}` block.
type HCLTargetDTO struct {
	Name     string `hcl:"name,label"`
	Type     string `hcl:"type,optional"`
	Path     string `hcl:"path,optional"`
	Checksum string `hcl:"checksum,optional"`
}

func (m *ManifestDTO) toSpec() *domain.PackageSpec {
	spec := &domain.PackageSpec{
		Name:         m.Name,
		ToolsVersion: m.ToolsVersion,
	}
	for _, p := range m.Platforms {
		spec.Platforms = append(spec.Platforms, domain.PlatformSpec(p))
	}
	for _, p := range m.Products {
		spec.Products = append(spec.Products, domain.ProductSpec(p))
	}
	for _, t := range m.Targets {
		spec.Targets = append(spec.Targets, domain.TargetSpec(t))
	}
	return spec
}

func (m *HCLManifestDTO) toSpec() *domain.PackageSpec {
	spec := &domain.PackageSpec{
		Name:         m.Name,
		ToolsVersion: m.ToolsVersion,
	}
	for _, p := range m.Platforms {
		spec.Platforms = append(spec.Platforms, domain.PlatformSpec{Family: p.Family, MinVersion: p.MinVersion})
	}
	for _, p := range m.Products {
		spec.Products = append(spec.Products, domain.ProductSpec{
			Name: p.Name, Type: p.Type, Linkage: p.Linkage, Targets: p.Targets,
		})
	}
	for _, t := range m.Targets {
		spec.Targets = append(spec.Targets, domain.TargetSpec{
			Name: t.Name, Type: t.Type, Path: t.Path, Checksum: t.Checksum,
		})
	}
	return spec
}
