// SPDX-License-Identifier: MPL-2.0

// Package cueutil parses CUE documents against a schema definition and turns
// CUE validation errors into one-line-per-problem messages.
package cueutil
