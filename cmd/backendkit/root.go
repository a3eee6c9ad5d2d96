// Copyright 2025 the backendkit authors
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
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/backendkit/backendkit/assets"
	"github.com/backendkit/backendkit/cmd/backendkit/commands"
	"github.com/backendkit/backendkit/cmd/backendkit/opts"
	"github.com/backendkit/backendkit/internal/version"
	"github.com/backendkit/backendkit/pkg/kit"
	"github.com/backendkit/backendkit/pkg/prompt"
)

// logLevels maps the recognized --log-level values to zerolog levels
var logLevels = map[string]zerolog.Level{
	"silent":  zerolog.Disabled,
	"default": zerolog.InfoLevel,
	"verbose": zerolog.DebugLevel,
	"debug":   zerolog.TraceLevel,
}

func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	rootOpts := &opts.RootOpts{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd := &cobra.Command{
		Use:   "backendkit",
		Short: "Install and manage the backend engineering knowledge base in a project",
		Long: `backendkit distributes a curated set of backend engineering patterns,
checklists, and rules into a project, keeps them in sync, and renders
adapter files for AI coding assistants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.Target = viper.GetString("target")
			rootOpts.JSON = viper.GetBool("json")

			levelName := viper.GetString("log-level")
			level, ok := logLevels[levelName]
			if !ok {
				return errors.Errorf("unknown log level %q (expected silent, default, verbose, or debug)", levelName)
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Timestamp().Logger().Level(level)
			if rootOpts.JSON {
				// Keep stdout clean for the JSON document
				logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))

			rootOpts.Kit = kit.New(version.Version, assets.FS, prompt.NewConsole(os.Stdin, os.Stderr))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("target", "t", ".", "target project directory")
	flags.Bool("json", false, "emit a single JSON document instead of text")
	flags.String("log-level", "default", "log level: silent, default, verbose, debug")

	viper.SetEnvPrefix("BACKENDKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("target", flags.Lookup("target"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("log-level", flags.Lookup("log-level"))

	cmd.AddCommand(
		commands.NewInitCmd(rootOpts),
		commands.NewSyncCmd(rootOpts),
		commands.NewRemoveCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewSearchCmd(rootOpts),
		commands.NewValidateCmd(rootOpts),
		commands.NewListCmd(rootOpts),
		commands.NewVersionCmd(rootOpts),
	)

	return cmd, rootOpts
}
