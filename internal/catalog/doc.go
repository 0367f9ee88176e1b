// SPDX-License-Identifier: MPL-2.0

// Package catalog discovers helper scripts, asks each one for its help text and
// turns the answer into an immutable Script record with an annotated argument tree.
//
// A script is probed by running it (through an optional interpreter) with its
// help flag. The output is split into a title, a usage line and an option block
// by ParseHelpText; the usage line and option block then go through
// usage.Parse and usage.Merge. Per-script failures never abort catalog
// construction. They are returned as Diagnostic values for the CLI to render.
//
// File organization:
//   - catalog.go: Catalog, Script, Folder and lookups
//   - build.go: Discover and Build (parallel probing)
//   - helptext.go: help output splitting
//   - runner.go: HelpRunner and the exec-based implementation
//   - diagnostic.go: Diagnostic and its codes
package catalog
