// SPDX-License-Identifier: MPL-2.0

// Package serverbase provides the lifecycle state machine shared by
// long-running servers: atomic state reads, single-use start, goroutine
// tracking and a done signal for callers that wait on shutdown.
package serverbase
