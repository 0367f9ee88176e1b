// SPDX-License-Identifier: MPL-2.0

// Package watch keeps the script catalog current while scriptdeck runs.
//
// A Watcher monitors the scripts directory with fsnotify and invokes its
// Rebuild callback after a debounce period. Events within the debounce window
// are coalesced so the callback fires once with every changed script. A
// Refresher pairs the Watcher with catalog.Build and publishes each new
// catalog through an atomic pointer for concurrent readers.
package watch
