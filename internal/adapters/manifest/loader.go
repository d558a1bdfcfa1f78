// Package manifest decodes package manifests written in YAML, TOML or HCL.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format is a manifest encoding.
type Format string

const (
	// FormatYAML is the default manifest encoding.
	FormatYAML Format = "yaml"
	// FormatTOML is the TOML manifest encoding.
	FormatTOML Format = "toml"
	// FormatHCL is the HCL manifest encoding.
	FormatHCL Format = "hcl"
)

// candidates lists the file names probed when Load is given a directory, in order.
var candidates = []string{
	domain.ManifestFileName,
	"sdkpkg.yml",
	"sdkpkg.toml",
	"sdkpkg.hcl",
}

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// FormatOf returns the manifest format implied by a file name.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".hcl":
		return FormatHCL, true
	default:
		return "", false
	}
}

// Load reads and validates the manifest at path. When path is a directory,
// the first manifest file found in it is used.
func (l *Loader) Load(path string) (*domain.Package, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	abs, err = l.locate(abs)
	if err != nil {
		return nil, err
	}

	format, ok := FormatOf(abs)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownManifestFormat, "cannot infer format from file extension"), "path", abs)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", abs)
	}

	spec, err := Decode(data, abs, format)
	if err != nil {
		return nil, err
	}
	spec.Root = filepath.Dir(abs)

	pkg, err := domain.NewPackage(spec)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return pkg, nil
}

func (l *Loader) locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range candidates {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			if l.logger != nil && name != domain.ManifestFileName {
				l.logger.Info("using manifest " + candidate)
			}
			return candidate, nil
		}
	}
	return "", zerr.With(zerr.Wrap(os.ErrNotExist, domain.ErrManifestReadFailed.Error()), "dir", path)
}

// Decode parses manifest bytes into an unvalidated package spec.
// filename is only used in diagnostics.
func Decode(data []byte, filename string, format Format) (*domain.PackageSpec, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data, filename)
	case FormatTOML:
		return decodeTOML(data, filename)
	case FormatHCL:
		return decodeHCL(data, filename)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownManifestFormat, "unsupported format"), "format", string(format))
	}
}

func decodeError(format Format, filename string, err error) error {
	msg := fmt.Sprintf("cannot decode %s manifest: %v", format, err)
	return zerr.With(zerr.Wrap(domain.ErrMalformedManifest, msg), "path", filename)
}

func decodeYAML(data []byte, filename string) (*domain.PackageSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var dto ManifestDTO
	if err := dec.Decode(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, zerr.With(zerr.Wrap(domain.ErrMalformedManifest, "manifest is empty"), "path", filename)
		}
		return nil, decodeError(FormatYAML, filename, err)
	}
	return dto.toSpec(), nil
}

func decodeTOML(data []byte, filename string) (*domain.PackageSpec, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var dto ManifestDTO
	if err := dec.Decode(&dto); err != nil {
		return nil, decodeError(FormatTOML, filename, err)
	}
	return dto.toSpec(), nil
}

func decodeHCL(data []byte, filename string) (*domain.PackageSpec, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, decodeError(FormatHCL, filename, diags)
	}

	var dto HCLManifestDTO
	if diags := gohcl.DecodeBody(file.Body, nil, &dto); diags.HasErrors() {
		return nil, decodeError(FormatHCL, filename, diags)
	}
	return dto.toSpec(), nil
}
