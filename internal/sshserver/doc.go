// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the interactive selector over SSH using Wish.
//
// Every connection gets its own selection session and Bubble Tea program; the
// catalog is read through a provider function so a watcher can swap it while
// sessions are open. Nothing is executed on the server: a finished session
// prints the compiled command line and exits.
package sshserver
