// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture and cleanup helpers shared by the
// package tests: stub script trees, small file writers and server shutdown.
package testutil
