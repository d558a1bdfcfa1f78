// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sdkpkg/internal/adapters/archive"
	_ "go.trai.ch/sdkpkg/internal/adapters/cas"
	_ "go.trai.ch/sdkpkg/internal/adapters/fs"
	_ "go.trai.ch/sdkpkg/internal/adapters/logger"
	_ "go.trai.ch/sdkpkg/internal/adapters/manifest"
	_ "go.trai.ch/sdkpkg/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/sdkpkg/internal/adapters/xcframework"
	// Register app and engine nodes.
	_ "go.trai.ch/sdkpkg/internal/app"
	_ "go.trai.ch/sdkpkg/internal/engine/resolver"
)
