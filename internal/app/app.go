// Package app implements the application layer for sdkpkg.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/sdkpkg/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	resolver  *resolver.Resolver
	logger    ports.Logger
	telemetry ports.Telemetry
	storePath string
	out       io.Writer
}

// New creates a new App instance.
func New(res *resolver.Resolver, log ports.Logger, telemetry ports.Telemetry) *App {
	return &App{
		resolver:  res,
		logger:    log,
		telemetry: telemetry,
		storePath: domain.DefaultStorePath(),
		out:       os.Stdout,
	}
}

// WithOutput redirects reports to w. It is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithStorePath overrides the extraction store file removed by Clean.
func (a *App) WithStorePath(path string) *App {
	a.storePath = path
	return a
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	ManifestPath string
	// Platform is the consumer platform written as family@version.
	Platform string
	Variant  string
	Arch     string
	// Products restricts resolution to the named products; empty means all.
	Products []string
	Timeout  time.Duration
	JSON     bool
}

// Resolve loads the manifest and resolves the requested products for the consumer platform.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) error {
	a.setJSON(opts.JSON)

	consumer, err := domain.ParsePlatform(opts.Platform)
	if err != nil {
		return err
	}
	consumer.Variant = strings.ToLower(strings.TrimSpace(opts.Variant))
	consumer.Arch = opts.Arch

	pkg, err := a.resolver.LoadManifest(manifestPath(opts.ManifestPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var resolved []*domain.ResolvedProduct
	if len(opts.Products) == 0 {
		resolved, err = a.resolver.ResolveAll(ctx, pkg, consumer)
	} else {
		resolved, err = a.resolver.ResolveProducts(ctx, pkg, opts.Products, consumer)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve products"), "package", pkg.Name.String())
	}

	report := newResolveReport(pkg, consumer, resolved)
	if opts.JSON {
		return writeJSON(a.out, report)
	}
	return renderResolveReport(a.out, report)
}

// Describe loads the manifest and prints its platforms, products and targets.
func (a *App) Describe(_ context.Context, path string, jsonOutput bool) error {
	a.setJSON(jsonOutput)

	pkg, err := a.resolver.LoadManifest(manifestPath(path))
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	report := newDescribeReport(pkg)
	if jsonOutput {
		return writeJSON(a.out, report)
	}
	return renderDescribeReport(a.out, report)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Cache bool
	Store bool
}

// Clean removes the artifact cache and the extraction store based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrCacheCleanFailed.Error()), "path", path)
			errs = errors.Join(errs, err)
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache {
		remove(a.resolver.CacheDir(), "artifact cache")
	}
	if options.Store {
		remove(a.storePath, "extraction store")
	}

	return errs
}

func (a *App) setJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

func manifestPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}
