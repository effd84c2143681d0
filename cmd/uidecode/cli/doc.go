// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for uidecode.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/uidecode and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Flags are declared as tagged struct fields and bound with
// [FlagsFromParams]. When a user types an unknown subcommand or flag,
// the framework suggests the closest known name by Levenshtein
// distance (at most 3).
//
// Errors returned by commands are categorized with [Validation],
// [NotFound], and [Internal]; [ExitError] carries a handled non-zero
// exit whose output was already written. [NewCommandLogger] builds the
// slog logger handed to every Run.
package cli
