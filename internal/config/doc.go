// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/scriptdeck/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/scriptdeck/config.cue on macOS, %APPDATA%\scriptdeck\config.cue
// on Windows), falling back to ./config.cue and then to built-in defaults. Every key can be
// overridden through SCRIPTDECK_* environment variables (e.g. SCRIPTDECK_SCRIPTS_DIR).
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
