// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/scriptdeck/scriptdeck/internal/config"
)

// newLogger builds the charm logger installed as the slog default handler.
func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "scriptdeck",
		ReportTimestamp: format != config.LogFormatText,
	})

	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	logger.SetLevel(lvl)

	switch format {
	case config.LogFormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case config.LogFormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}
