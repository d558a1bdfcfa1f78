package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/ui/output"
	"go.trai.ch/sdkpkg/internal/ui/style"
	"go.trai.ch/zerr"
)

type resolveReport struct {
	Package  string          `json:"package"`
	Platform string          `json:"platform"`
	Requires string          `json:"requires,omitempty"`
	Products []productReport `json:"products"`
}

type productReport struct {
	Name        string                `json:"name"`
	Kind        domain.ResolutionKind `json:"kind"`
	Linkage     domain.Linkage        `json:"linkage"`
	Target      string                `json:"target"`
	Slice       string                `json:"slice,omitempty"`
	Library     string                `json:"library,omitempty"`
	Root        string                `json:"root,omitempty"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Source      string                `json:"source,omitempty"`
}

func newResolveReport(pkg *domain.Package, consumer domain.Platform, resolved []*domain.ResolvedProduct) resolveReport {
	report := resolveReport{
		Package:  pkg.Name.String(),
		Platform: consumer.String(),
		Products: make([]productReport, 0, len(resolved)),
	}
	if c, ok := pkg.Constraint(consumer.Family); ok {
		report.Requires = c.String()
	}
	for _, r := range resolved {
		p := productReport{
			Name:    r.Product.Name.String(),
			Kind:    r.Kind,
			Linkage: r.Product.Linkage,
			Target:  r.Product.Target.String(),
		}
		switch r.Kind {
		case domain.ResolutionLinkable:
			p.Slice = r.Slice.Identifier
			p.Library = r.Slice.Path
			p.Root = r.Artifact.Root
			p.Fingerprint = r.Artifact.Fingerprint
		case domain.ResolutionCompileFromSource:
			p.Source = filepath.Join(pkg.Root, r.Source.Path)
		}
		report.Products = append(report.Products, p)
	}
	return report
}

type describeReport struct {
	Package      string            `json:"package"`
	ToolsVersion string            `json:"tools_version,omitempty"`
	Root         string            `json:"root"`
	Platforms    []string          `json:"platforms"`
	Products     []describeProduct `json:"products"`
	Targets      []describeTarget  `json:"targets"`
}

type describeProduct struct {
	Name    string         `json:"name"`
	Linkage domain.Linkage `json:"linkage"`
	Target  string         `json:"target"`
}

type describeTarget struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Checksum string `json:"checksum,omitempty"`
}

func newDescribeReport(pkg *domain.Package) describeReport {
	report := describeReport{
		Package:      pkg.Name.String(),
		ToolsVersion: pkg.ToolsVersion.String(),
		Root:         pkg.Root,
		Platforms:    make([]string, 0, len(pkg.Platforms)),
		Products:     make([]describeProduct, 0, len(pkg.Products)),
		Targets:      make([]describeTarget, 0, len(pkg.Targets)),
	}
	for _, c := range pkg.Platforms {
		report.Platforms = append(report.Platforms, c.String())
	}
	for _, p := range pkg.Products {
		report.Products = append(report.Products, describeProduct{
			Name:    p.Name.String(),
			Linkage: p.Linkage,
			Target:  p.Target.String(),
		})
	}
	for _, t := range pkg.Targets {
		target := describeTarget{Name: t.Name.String(), Kind: t.Kind.String()}
		switch t.Kind {
		case domain.TargetKindBinary:
			target.Path = t.Binary.Path
			target.Checksum = t.Binary.Checksum
		case domain.TargetKindSource:
			target.Path = t.Source.Path
		}
		report.Targets = append(report.Targets, target)
	}
	return report
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	linked lipgloss.Style
	source lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(style.Accent),
		label:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(style.Slate),
		linked: r.NewStyle().Foreground(style.Green),
		source: r.NewStyle().Foreground(style.Yellow),
	}
}

func renderResolveReport(w io.Writer, report resolveReport) error {
	s := newStyles(w)
	width := 0
	for _, p := range report.Products {
		width = max(width, len(p.Name))
	}

	var b strings.Builder
	b.WriteString(s.title.Render(report.Package) + s.muted.Render(" for "+report.Platform))
	if report.Requires != "" {
		b.WriteString(s.muted.Render(" (requires " + report.Requires + ")"))
	}
	b.WriteString("\n")
	for _, p := range report.Products {
		name := s.label.Render(fmt.Sprintf("%-*s", width, p.Name))
		switch p.Kind {
		case domain.ResolutionLinkable:
			fmt.Fprintf(&b, "  %s %s  %s %s\n", s.linked.Render(style.Check), name,
				s.muted.Render(p.Slice), s.muted.Render(style.Arrow+" "+displayPath(p.Library)))
		case domain.ResolutionCompileFromSource:
			fmt.Fprintf(&b, "  %s %s  %s %s\n", s.source.Render(style.Dot), name,
				s.muted.Render(string(p.Kind)), s.muted.Render(style.Arrow+" "+displayPath(p.Source)))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func renderDescribeReport(w io.Writer, report describeReport) error {
	s := newStyles(w)

	var b strings.Builder
	b.WriteString(s.title.Render(report.Package))
	if report.ToolsVersion != "" {
		b.WriteString(s.muted.Render(" tools " + report.ToolsVersion))
	}
	b.WriteString("\n")

	b.WriteString(s.label.Render("Platforms") + "\n")
	for _, p := range report.Platforms {
		b.WriteString("  " + p + "\n")
	}

	b.WriteString(s.label.Render("Products") + "\n")
	for _, p := range report.Products {
		fmt.Fprintf(&b, "  %s %s\n", p.Name, s.muted.Render(fmt.Sprintf("(%s) %s %s", p.Linkage, style.Arrow, p.Target)))
	}

	b.WriteString(s.label.Render("Targets") + "\n")
	for _, t := range report.Targets {
		fmt.Fprintf(&b, "  %s %s\n", t.Name, s.muted.Render(fmt.Sprintf("%s %s", t.Kind, t.Path)))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

// displayPath shortens paths below the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
