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
	"fmt"

	"github.com/apex/log"
	"github.com/cleverdata/indexnow/internal/core"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print the URLs a submission would contain",
	Long:  `Scans the project root and prints one URL per line, in submission order, without contacting the endpoint. The INDEXNOW_MAX_URLS limit is not applied.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			log.Error(err.Error())
			return exitCode(core.ExitConfigError)
		}

		urls, err := core.CollectURLs(afero.NewOsFs(), cfg, log.Log)
		if err != nil {
			return err
		}
		log.Debugf("%d URL(s) under %s", len(urls), cfg.Root)

		out := cmd.OutOrStdout()
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlsCmd)
}
