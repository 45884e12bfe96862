// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog sets up the console logger used by the audit commands.
package conlog

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Debug records are only written
// when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// console output, the time only adds noise
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Install makes a logger from New the process default and returns it.
func Install(w io.Writer, verbose bool) *slog.Logger {
	l := New(w, verbose)
	slog.SetDefault(l)
	return l
}
