// Copyright 2026 CleverData
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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/cleverdata/indexnow/internal/api"
	"github.com/cleverdata/indexnow/internal/config"
	"github.com/cleverdata/indexnow/internal/core"
	"github.com/cleverdata/indexnow/internal/log/handlers/cli"
	"github.com/kardianos/service"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var verbose bool
var Version = "0.1.0" // Default version

// v holds the INDEXNOW_* environment and the optional config file.
var v = config.NewViper()

// configErr is set by initConfig when an explicitly requested file is unreadable.
var configErr error

// exitCode carries a process exit status out of a command.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "indexnow",
	Short: "Submit the pages of a static site build to IndexNow",
	Long: `Scans the build output for HTML pages, maps them to their public URLs and
submits the list to an IndexNow endpoint in a single request.

Meant to run once per deploy. Behaviour is driven by INDEXNOW_* environment
variables; a failed submission is reported but never fails the deploy.

INDEXNOW_SKIP and INDEXNOW_DRY_RUN are enabled by any non-empty value,
including "0" and "false". Unset them to turn them off.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			log.Error(err.Error())
			return exitCode(core.ExitConfigError)
		}

		runner := &core.Runner{
			Fs:        afero.NewOsFs(),
			Logger:    log.Log,
			Submitter: api.NewClient(cfg.Endpoint),
		}
		if code := runner.Run(cmd.Context(), cfg); code != core.ExitOK {
			return exitCode(code)
		}
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./indexnow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// initConfig reads in the config file if one exists. Environment variables
// always take precedence over it.
func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("indexnow")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("config file: %w", err)
		}
	}
}

func loadConfig() (config.Config, error) {
	if configErr != nil {
		return config.Config{}, configErr
	}
	return config.Load(v)
}

// setupLogging sends progress to stdout and problems to stderr. Colors are
// only used when running from an interactive session.
func setupLogging() {
	log.SetHandler(cli.New(os.Stdout, os.Stderr, "IndexNow", service.Interactive()))
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
