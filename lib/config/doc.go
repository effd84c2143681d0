// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for uidecode.
//
// Configuration is loaded from a single file specified by either the
// UIDECODE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no discovery and no file search. Commands
// that run without a config file use [Default].
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas; everything else is YAML. Both map onto the same
// yaml tags.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${UIDECODE_DATA}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Batch, Output
//   - [Default] -- a Config suitable for one-off conversions
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid key at once
//
// This package depends on no other uidecode packages.
package config
