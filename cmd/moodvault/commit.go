package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitMsg string

// commitCmd represents the commit command
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Snapshot pending document changes",
	Long:  `Stage the document subtree and commit it to the version ledger. A no-op when nothing changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}
		if app.Ledger == nil {
			fatal("Ledger disabled", fmt.Errorf("running in gitless mode"))
		}

		if err := app.Ledger.CommitPendingChanges(commitMsg); err != nil {
			fatal("Failed to commit", err)
		}
		fmt.Println("Committed changes.")
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
}
