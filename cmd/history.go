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
	"errors"
	"fmt"
	"time"

	"github.com/cleverdata/indexnow/internal/db"
	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("INDEXNOW_HISTORY_DB is not set; run history is disabled")

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent submissions",
	Long:  `Lists the most recent runs recorded in the database named by INDEXNOW_HISTORY_DB, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No submissions recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-20s %-10s %5s %6s %s\n", "TIME", "STATUS", "HTTP", "URLS", "MESSAGE")
		fmt.Fprintln(out, "--------------------------------------------------------------------------------")
		for _, r := range runs {
			code := "-"
			if r.StatusCode != 0 {
				code = fmt.Sprint(r.StatusCode)
			}
			fmt.Fprintf(out, "%-20s %-10s %5s %6d %s\n",
				r.SubmittedAt.Local().Format(time.DateTime), r.Status, code, r.URLCount, r.Message)
		}
		return nil
	},
}

func openHistory() (*db.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.HistoryDB == "" {
		return nil, errNoHistory
	}
	return db.Open(cfg.HistoryDB)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
