// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package markup is the indentation-tracked tag emitter that both the
// decoder and the analyzer write through.
//
// A [Builder] keeps a stack of open tags and prefixes every line with
// two spaces per open tag. Attributes are rendered sorted by name with
// values escaped for XML attribute context (< > & ' " and carriage
// return). Field values go through [Builder.Leaf], which renders
//
//	<u>5</u><!-- ID -->
//
// Write errors are sticky: after the first failure every call is a
// no-op and [Builder.Err] reports it.
package markup
