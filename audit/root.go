// SPDX-License-Identifier: GPL-2.0-or-later

// Package audit implements the goldsrc command line tool. Each command opens
// assets from a game directory, runs the decoders over them and records the
// result in a report.
package audit

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"goldsrc/conlog"
	"goldsrc/crc"
	"goldsrc/filesystem"
	"goldsrc/model"
	"goldsrc/report"
)

// ErrFailed is returned by a command when at least one asset could not be
// decoded. The report is still written.
var ErrFailed = errors.New("some assets failed")

type options struct {
	base    string
	game    string
	mod     string
	report  string
	zstd    bool
	binary  bool
	verbose bool
	out     string
}

// session is the state shared by the commands of one run.
type session struct {
	opts options
	fs   *filesystem.FS
	rep  *report.Report
	log  *slog.Logger
}

func (s *session) open(cmd *cobra.Command) error {
	s.log = conlog.Install(cmd.ErrOrStderr(), s.opts.verbose)
	fs, err := filesystem.NewGame(s.opts.base, s.opts.game, s.opts.mod)
	if err != nil {
		return err
	}
	s.fs = fs
	rep, err := report.New(cmd.Name())
	if err != nil {
		return err
	}
	s.rep = rep
	s.log.Debug("Search path", "dirs", fs.Dirs(), "paks", len(fs.Packs()))
	return nil
}

func (s *session) close(w io.Writer) error {
	if s.fs != nil {
		if err := s.fs.Close(); err != nil {
			s.log.Warn("Closing search path", "err", err)
		}
	}
	if s.rep == nil {
		return nil
	}
	for _, a := range s.rep.Assets() {
		if a.Err != "" {
			s.log.Error("Failed", "file", a.Name, "err", a.Err)
		} else {
			s.log.Info("Checked", "file", a.Name, "kind", a.Kind)
		}
	}
	if s.opts.report != "" {
		enc := report.JSON
		if s.opts.binary {
			enc = report.Binary
		}
		if err := s.rep.Save(s.opts.report, report.Options{Encoding: enc, Compress: s.opts.zstd}); err != nil {
			return err
		}
	} else {
		data, err := s.rep.Encode(report.Options{})
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	if n := s.rep.Failed(); n > 0 {
		return errors.Wrapf(ErrFailed, "%d of %d", n, len(s.rep.Assets()))
	}
	return nil
}

func checksum(a *report.Asset, data []byte) {
	a.Set("size", len(data))
	a.Set("crc", fmt.Sprintf("%04x", crc.Checksum(data)))
}

// load reads and decodes name, recording its checksum in a new report
// entry. On failure the entry carries the error and the model is nil.
func (s *session) load(name string, kind model.Kind) (model.Model, *report.Asset) {
	a := s.rep.Add(name, kind.String())
	data, err := s.fs.ReadFile(name)
	if err != nil {
		a.Fail(err)
		return nil, a
	}
	checksum(a, data)
	m, err := model.Decode(s.fs, name, data)
	if err != nil {
		a.Fail(err)
		return nil, a
	}
	if m.Kind() != kind {
		a.Kind = m.Kind().String()
		a.Fail(errors.Errorf("%s is a %v file, not a %v file", name, m.Kind(), kind))
		return nil, a
	}
	return m, a
}

// NewCommand returns the root command with all subcommands attached.
func NewCommand() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:           "goldsrc",
		Short:         "goldsrc checks GoldSrc levels, texture archives, studio models and sprites.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close(cmd.OutOrStdout())
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&s.opts.base, "base", ".", "directory containing the game directories")
	f.StringVar(&s.opts.game, "game", "valve", "base game directory")
	f.StringVar(&s.opts.mod, "mod", "", "mod directory searched before the game directory")
	f.StringVar(&s.opts.report, "report", "", "write the report to this file instead of stdout")
	f.BoolVar(&s.opts.zstd, "zstd", false, "compress the report file with zstd")
	f.BoolVar(&s.opts.binary, "binary", false, "write the report file as binary protobuf")
	f.BoolVarP(&s.opts.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newBSPCommand(s),
		newWADCommand(s),
		newMDLCommand(s),
		newSPRCommand(s),
		newScanCommand(s),
		newExtractCommand(s),
	)
	return root
}

func Execute() {
	if err := NewCommand().Execute(); err != nil {
		slog.Error("goldsrc", "err", err)
		os.Exit(1)
	}
}
