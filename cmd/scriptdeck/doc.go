// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for scriptdeck.
//
// This package implements the Cobra command hierarchy for the scriptdeck CLI:
// catalog listing and inspection, non-interactive status and compile
// commands, the interactive selector, watch mode, the SSH server and
// configuration management.
package cmd
