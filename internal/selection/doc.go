// SPDX-License-Identifier: MPL-2.0

// Package selection implements the argument-selection constraint engine and the
// command compiler.
//
// A Session holds the active script and the ordered flags chosen so far. Every
// read of display state goes through ComputeStatus, a pure function of the
// argument tree and the current selections: nothing is cached between calls.
// Alternatives of an OrGroup are mutually exclusive; once a member of one
// alternative is chosen, every other alternative is NOT_AVAILABLE and the
// non-optional members of the chosen one become REQUIRED.
//
// Compile renders the selections as an Invocation. Nothing in this package
// executes or shell-splits the result.
package selection
