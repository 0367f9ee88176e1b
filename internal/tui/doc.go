// SPDX-License-Identifier: MPL-2.0

// Package tui provides the terminal UI of scriptdeck built on Charm libraries.
//
// The Selector is a Bubble Tea model that walks one selection.Session from the
// script list through the argument board to a compiled invocation. It runs
// locally through RunSelector and per connection inside the SSH server.
// Smaller huh prompts (ChooseScript, Confirm) cover accessible mode, where a
// full-screen program cannot run.
package tui
