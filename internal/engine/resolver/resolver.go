// Package resolver turns manifests and product names into linkable artifacts or source targets.
package resolver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Resolver resolves products of loaded packages for a consumer platform.
//
// Each Resolver owns its artifact cache: an artifact path is located, unpacked
// and inspected at most once per Resolver, and every later request for it
// receives the same handle. Failed resolutions are not cached.
type Resolver struct {
	loader    ports.ManifestLoader
	extractor ports.ArchiveExtractor
	inspector ports.MetadataInspector
	hasher    ports.Hasher
	store     ports.ExtractionStore
	telemetry ports.Telemetry
	logger    ports.Logger
	cacheDir  string
	now       func() time.Time

	mu      sync.RWMutex
	handles map[string]*domain.ArtifactHandle
	flights singleflight.Group
}

// New creates a Resolver that unpacks archived artifacts under cacheDir.
func New(
	loader ports.ManifestLoader,
	extractor ports.ArchiveExtractor,
	inspector ports.MetadataInspector,
	hasher ports.Hasher,
	store ports.ExtractionStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
	cacheDir string,
) *Resolver {
	return &Resolver{
		loader:    loader,
		extractor: extractor,
		inspector: inspector,
		hasher:    hasher,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
		cacheDir:  cacheDir,
		now:       time.Now,
		handles:   make(map[string]*domain.ArtifactHandle),
	}
}

// CacheDir returns the directory archived artifacts are unpacked into.
func (r *Resolver) CacheDir() string {
	return r.cacheDir
}

// LoadManifest reads and validates the manifest at path.
func (r *Resolver) LoadManifest(path string) (*domain.Package, error) {
	return r.loader.Load(path)
}

// ResolveProduct resolves one product of pkg for the consumer platform.
// Binary targets resolve to a linkable artifact slice; source targets are passed through.
func (r *Resolver) ResolveProduct(
	ctx context.Context,
	pkg *domain.Package,
	productName string,
	consumer domain.Platform,
) (*domain.ResolvedProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err, "product", productName)
	}

	product, ok := pkg.Product(productName)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownProduct, "product is not declared by the package"), "product", productName)
		return nil, zerr.With(err, "package", pkg.Name.String())
	}

	if !pkg.Supports(consumer) {
		err := zerr.With(zerr.Wrap(domain.ErrIncompatiblePlatform, "package does not support the platform"), "platform", consumer.String())
		err = zerr.With(err, "supported", supportedPlatforms(pkg))
		return nil, zerr.With(err, "product", productName)
	}

	target, ok := pkg.Target(product.Target)
	if !ok {
		// NewPackage rejects products that reference undeclared targets.
		return nil, zerr.With(zerr.Wrap(domain.ErrMalformedManifest, "product references an undeclared target"), "product", productName)
	}

	ctx, vertex := r.telemetry.Record(ctx, "resolve "+pkg.Name.String()+"/"+productName)
	resolved, err := r.resolveTarget(ctx, pkg, product, target, consumer)
	vertex.Complete(err)
	if err != nil {
		return nil, zerr.With(err, "product", productName)
	}
	return resolved, nil
}

func (r *Resolver) resolveTarget(
	ctx context.Context,
	pkg *domain.Package,
	product domain.Product,
	target domain.Target,
	consumer domain.Platform,
) (*domain.ResolvedProduct, error) {
	switch target.Kind {
	case domain.TargetKindBinary:
		handle, err := r.ResolveArtifact(ctx, target.Binary, consumer)
		if err != nil {
			return nil, err
		}
		slice, _ := handle.SliceFor(consumer)
		return &domain.ResolvedProduct{
			Package:  pkg.Name,
			Product:  product,
			Kind:     domain.ResolutionLinkable,
			Artifact: handle,
			Slice:    slice,
		}, nil
	case domain.TargetKindSource:
		return &domain.ResolvedProduct{
			Package: pkg.Name,
			Product: product,
			Kind:    domain.ResolutionCompileFromSource,
			Source:  target.Source,
		}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrMalformedManifest, "target has no kind"), "target", target.Name.String())
	}
}

// ResolveArtifact locates, unpacks and inspects a binary target's artifact and
// checks that it carries a slice for the consumer platform.
func (r *Resolver) ResolveArtifact(
	ctx context.Context,
	target *domain.BinaryTarget,
	consumer domain.Platform,
) (*domain.ArtifactHandle, error) {
	handle, err := r.artifact(ctx, target)
	if err != nil {
		return nil, err
	}

	if _, ok := handle.SliceFor(consumer); !ok {
		err := zerr.With(zerr.Wrap(domain.ErrIncompatiblePlatform, "artifact has no slice for the platform"), "platform", consumer.String())
		err = zerr.With(err, "available", availableSlices(handle))
		return nil, zerr.With(err, "target", target.Name.String())
	}
	return handle, nil
}

// ResolveAll resolves every product of pkg concurrently. It fails as a whole
// when any product fails; results follow declaration order.
func (r *Resolver) ResolveAll(ctx context.Context, pkg *domain.Package, consumer domain.Platform) ([]*domain.ResolvedProduct, error) {
	names := make([]string, len(pkg.Products))
	for i, p := range pkg.Products {
		names[i] = p.Name.String()
	}
	return r.ResolveProducts(ctx, pkg, names, consumer)
}

// ResolveProducts resolves the named products concurrently, in the order given.
func (r *Resolver) ResolveProducts(
	ctx context.Context,
	pkg *domain.Package,
	names []string,
	consumer domain.Platform,
) ([]*domain.ResolvedProduct, error) {
	results := make([]*domain.ResolvedProduct, len(names))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			resolved, err := r.ResolveProduct(groupCtx, pkg, name, consumer)
			if err != nil {
				return err
			}
			results[i] = resolved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// artifact returns the cached handle for the target's artifact, loading it on first use.
// Concurrent first uses share a single load.
func (r *Resolver) artifact(ctx context.Context, target *domain.BinaryTarget) (*domain.ArtifactHandle, error) {
	key, err := filepath.Abs(target.ArtifactPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrArtifactNotFound, err.Error()), "path", target.ArtifactPath)
	}

	if h, ok := r.cached(key); ok {
		return h, nil
	}

	for {
		ch := r.flights.DoChan(key, func() (any, error) {
			if h, ok := r.cached(key); ok {
				return h, nil
			}

			h, err := r.load(ctx, target, key)
			if err != nil {
				return nil, err
			}

			r.mu.Lock()
			r.handles[key] = h
			r.mu.Unlock()
			return h, nil
		})

		select {
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(*domain.ArtifactHandle), nil
			}
			if ctx.Err() != nil {
				return nil, timeoutError(res.Err, "target", target.Name.String())
			}
			if isContextError(res.Err) {
				// The caller that led the flight gave up; this one still has time.
				continue
			}
			return nil, res.Err
		case <-ctx.Done():
			return nil, timeoutError(ctx.Err(), "target", target.Name.String())
		}
	}
}

func (r *Resolver) cached(key string) (*domain.ArtifactHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[key]
	return h, ok
}

func (r *Resolver) load(ctx context.Context, target *domain.BinaryTarget, path string) (handle *domain.ArtifactHandle, err error) {
	ctx, vertex := r.telemetry.Record(ctx, "artifact "+target.Name.String())
	defer func() { vertex.Complete(err) }()

	info, err := os.Stat(path)
	if err != nil {
		reason := "artifact path does not resolve"
		if !errors.Is(err, fs.ErrNotExist) {
			reason = err.Error()
		}
		err = zerr.With(zerr.Wrap(domain.ErrArtifactNotFound, reason), "path", path)
		return nil, zerr.With(err, "target", target.Name.String())
	}

	isArchive, err := r.extractor.IsArchive(path)
	if err != nil {
		return nil, corrupt(target, path, err.Error())
	}

	var root, fingerprint string
	switch {
	case isArchive:
		root, fingerprint, err = r.unpack(ctx, vertex, target, path)
		if err != nil {
			return nil, err
		}
	case info.IsDir():
		if target.Checksum != "" {
			r.logger.Warn("ignoring checksum of unarchived artifact " + target.Name.String())
		}
		fingerprint, err = r.hasher.Fingerprint(path)
		if err != nil {
			return nil, corrupt(target, path, err.Error())
		}
		root = path
	default:
		return nil, corrupt(target, path, "artifact is neither an archive nor a bundle directory")
	}

	meta, err := r.inspector.Inspect(root)
	if err != nil {
		return nil, corrupt(target, path, "unreadable artifact metadata: "+err.Error())
	}
	vertex.Log(domain.LogLevelDebug, "found "+strings.Join(availableSlices(&domain.ArtifactHandle{Metadata: meta}), ", "))

	return &domain.ArtifactHandle{
		Target:       target.Name,
		ArtifactPath: path,
		Root:         root,
		Fingerprint:  fingerprint,
		Metadata:     meta,
	}, nil
}

// unpack verifies an archived artifact and returns the directory it is unpacked in.
// Extractions recorded by an earlier session are reused when the content still matches.
func (r *Resolver) unpack(
	ctx context.Context,
	vertex ports.Vertex,
	target *domain.BinaryTarget,
	path string,
) (string, string, error) {
	if target.Checksum != "" {
		sum, err := r.hasher.Checksum(path)
		if err != nil {
			return "", "", corrupt(target, path, err.Error())
		}
		if sum != target.Checksum {
			err := zerr.With(corrupt(target, path, "checksum mismatch"), "expected", target.Checksum)
			return "", "", zerr.With(err, "actual", sum)
		}
	}

	fingerprint, err := r.hasher.Fingerprint(path)
	if err != nil {
		return "", "", corrupt(target, path, err.Error())
	}

	if dir, ok := r.previousExtraction(path, fingerprint); ok {
		vertex.Cached()
		return dir, fingerprint, nil
	}

	dest := filepath.Join(r.cacheDir, target.Name.String()+"-"+fingerprint)
	if !dirExists(dest) {
		r.logger.Info("extracting " + target.Name.String())
		if err := r.extractor.Extract(ctx, path, dest); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", "", ctxErr
			}
			return "", "", corrupt(target, path, err.Error())
		}
	} else {
		vertex.Cached()
	}

	record := domain.ExtractionRecord{
		ArtifactPath: path,
		Fingerprint:  fingerprint,
		Dir:          dest,
		Timestamp:    r.now().UTC(),
	}
	if err := r.store.Put(record); err != nil {
		r.logger.Warn("failed to record extraction of " + target.Name.String() + ": " + err.Error())
	}
	return dest, fingerprint, nil
}

func (r *Resolver) previousExtraction(path, fingerprint string) (string, bool) {
	rec, err := r.store.Get(path)
	if err != nil {
		r.logger.Warn("failed to read extraction store: " + err.Error())
		return "", false
	}
	if rec == nil {
		return "", false
	}
	if !dirExists(rec.Dir) {
		if err := r.store.Delete(path); err != nil {
			r.logger.Warn("failed to forget stale extraction: " + err.Error())
		}
		return "", false
	}
	if rec.Fingerprint != fingerprint {
		return "", false
	}
	return rec.Dir, true
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func corrupt(target *domain.BinaryTarget, path, reason string) error {
	err := zerr.With(zerr.Wrap(domain.ErrCorruptArtifact, reason), "path", path)
	return zerr.With(err, "target", target.Name.String())
}

func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func timeoutError(cause error, key, value string) error {
	reason := "resolution was cancelled"
	if cause != nil {
		reason = cause.Error()
	}
	return zerr.With(zerr.Wrap(domain.ErrResolutionTimeout, reason), key, value)
}

func supportedPlatforms(pkg *domain.Package) string {
	parts := make([]string, len(pkg.Platforms))
	for i, c := range pkg.Platforms {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func availableSlices(h *domain.ArtifactHandle) []string {
	ids := make([]string, len(h.Metadata.Slices))
	for i, s := range h.Metadata.Slices {
		ids[i] = s.Identifier
	}
	return ids
}
