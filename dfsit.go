/*
 * This file is part of the Acorn DFS Image Tool ("dfsit")
 * Copyright (C) 2025 Andreas Signer <asigner@gmail.com>
 *
 * dfsit is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * dfsit is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with dfsit.  If not, see <https://www.gnu.org/licenses/>.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asig/dfsit/internal/commands"
	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/disk"
	"github.com/asig/dfsit/internal/filesystem"
	"github.com/asig/dfsit/internal/fuse"
	"github.com/asig/dfsit/internal/shell"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	version = "v0.1"
)

// logLevelFlag implements pflag.Value for zerolog.Level
type logLevelFlag struct {
	level zerolog.Level
}

func (f *logLevelFlag) String() string {
	return f.level.String()
}

func (f *logLevelFlag) Set(value string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil {
		return err
	}
	f.level = level
	return nil
}

func (f *logLevelFlag) Type() string {
	return "level"
}

func (f *logLevelFlag) Get() zerolog.Level {
	return f.level
}

// Logs go to stderr, stdout carries listings and detokenized programs.
func initLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano // Need to keep this, or we won't get millis, no matter what we say in TimeFormat below?
	log.Logger = zerolog.
		New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00", // "RFC3339Millis"
			NoColor:    false,
		}).
		With().Timestamp().Caller().
		Logger()
}

func banner() {
	fmt.Fprintf(os.Stderr, "Acorn DFS Image Tool %s\n", version)
	fmt.Fprintf(os.Stderr, "Copyright (c) 2025 Andreas Signer <asigner@gmail.com>\n")
	fmt.Fprintf(os.Stderr, "https://github.com/asig/dfsit\n")
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <image>",
		Short: "Show the catalogue of a .ssd, .dsd or .zip image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return commands.Show(os.Stdout, args[0])
		},
	}
}

func extractCmd() *cobra.Command {
	var (
		opts         commands.ExtractOptions
		noDetokenize bool
	)
	cmd := &cobra.Command{
		Use:   "extract <image> <output-dir>",
		Short: "Extract files and a manifest from an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.Detokenize = !noDetokenize
			return commands.Extract(args[0], args[1], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Overwrite, "overwrite", "f", false, "Overwrite output files if they exist")
	cmd.Flags().BoolVarP(&noDetokenize, "no-detokenize", "n", false, "Don't detokenize BBC BASIC programs")
	cmd.Flags().BoolVarP(&opts.Lossless, "lossless", "l", false, "Write BBC BASIC listings in lossless format, preserving control characters")
	cmd.Flags().BoolVarP(&opts.Inf, "inf", "i", false, "Write an .inf sidecar file for every extracted file")
	return cmd
}

func makeCmd() *cobra.Command {
	var (
		output    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "make <manifest> [<manifest-side1>]",
		Short: "Make an image from one manifest per side",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return commands.Make(args, output, overwrite)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image (.ssd or .dsd)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite output file if it exists")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newCmd() *cobra.Command {
	var (
		size      uint16
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "new <image>",
		Short: "Create an empty image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			discSize, err := dfs.NewDiscSize(size)
			if err != nil {
				return err
			}
			return commands.New(args[0], discSize, overwrite)
		},
	}
	cmd.Flags().Uint16VarP(&size, "size", "s", 800, "Disc size in sectors per side")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite output file if it exists")
	return cmd
}

func manifestCmd() *cobra.Command {
	var (
		output    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "manifest <dir>",
		Short: "Generate a manifest for the content of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return commands.Manifest(args[0], output, overwrite)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Manifest path (default <dir>/<dir>.json)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite output file if it exists")
	return cmd
}

func tokenizeCmd() *cobra.Command {
	var (
		output    string
		ascii     bool
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "tokenize <input>",
		Short: "Tokenize a BBC BASIC program",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return commands.Tokenize(args[0], output, ascii, overwrite)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path")
	cmd.Flags().BoolVar(&ascii, "ascii-only", false, "Reject characters outside of 7-bit ASCII")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite output file if it exists")
	cmd.MarkFlagRequired("output")
	return cmd
}

func detokenizeCmd() *cobra.Command {
	var (
		output    string
		lossless  bool
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "detokenize <input>",
		Short: "Detokenize a BBC BASIC program",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return commands.Detokenize(args[0], output, lossless, overwrite, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default stdout)")
	cmd.Flags().BoolVarP(&lossless, "lossless", "l", false, "Preserve control characters, end lines with LF CR")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Overwrite output file if it exists")
	return cmd
}

func mountCmd() *cobra.Command {
	var (
		side     int
		writable bool
	)
	cmd := &cobra.Command{
		Use:   "mount <image> <mountpoint>",
		Short: "Mount one side of an image via FUSE",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := disk.ParseSide(side)
			if err != nil {
				return err
			}
			img, err := disk.Open(args[0], writable)
			if err != nil {
				return err
			}
			defer img.Close()

			fs, err := filesystem.Open(img, s)
			if err != nil {
				return err
			}
			defer fs.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info().Msgf("Mounting side %d of %s on %s", s, args[0], args[1])
			return fuse.Mount(ctx, fs, args[1], writable)
		},
	}
	cmd.Flags().IntVar(&side, "side", 0, "Side to mount (0 or 1)")
	cmd.Flags().BoolVarP(&writable, "writable", "w", false, "Mount read-write")
	return cmd
}

func shellCmd() *cobra.Command {
	var writable bool
	cmd := &cobra.Command{
		Use:   "shell <image>",
		Short: "Browse an image interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return shell.Run(args[0], writable)
		},
	}
	cmd.Flags().BoolVarP(&writable, "writable", "w", false, "Allow modifying the image")
	return cmd
}

func main() {
	logLevel := &logLevelFlag{level: zerolog.InfoLevel}

	root := &cobra.Command{
		Use:           "dfsit",
		Short:         "Acorn DFS Image Tool",
		Long:          "Inspect, extract and build Acorn DFS disc images (.ssd, .dsd), and convert BBC BASIC programs.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			initLogging(logLevel.Get())
			banner()
		},
	}
	root.PersistentFlags().Var(logLevel, "log-level", "Log level (trace, debug, info, warn, error, fatal, panic)")

	root.AddCommand(
		showCmd(),
		extractCmd(),
		makeCmd(),
		newCmd(),
		manifestCmd(),
		tokenizeCmd(),
		detokenizeCmd(),
		mountCmd(),
		shellCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
