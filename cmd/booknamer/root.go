// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/booklore-app/booknamer/cmd/booknamer/commands"
	"github.com/booklore-app/booknamer/cmd/booknamer/opts"
)

// defaultConfigFile is looked up in the working directory
const defaultConfigFile = "booknamer.yaml"

// newRootCmd builds the command tree writing user output to out
func newRootCmd(out io.Writer) *cobra.Command {
	o := &opts.RootOpts{Out: out}

	rootCmd := &cobra.Command{
		Use:   "booknamer",
		Short: "Name and organise book files from their metadata",
		Long: `booknamer resolves naming patterns like "{authors:sort}/<{series}/>{title}"
against book metadata, previews how a pattern reads existing file names, and
moves a library into shape with a journal that can be undone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(o.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewResolveCmd(o),
		commands.NewValidateCmd(o),
		commands.NewPreviewCmd(o),
		commands.NewImportCmd(o),
		commands.NewPlanCmd(o),
		commands.NewApplyCmd(o),
		commands.NewUndoCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", defaultConfigFile, "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.Async, "async", false, "run operations in the background so ctrl-c returns at once")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}

// execute runs the command tree with args and returns the process exit code
func execute(ctx context.Context, args []string, out io.Writer) int {
	rootCmd := newRootCmd(out)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(out, "❌ %s\n", err)
		return 1
	}
	return 0
}
