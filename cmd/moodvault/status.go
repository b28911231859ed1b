package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the version ledger status",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}
		if app.Ledger == nil {
			fatal("Ledger disabled", fmt.Errorf("running in gitless mode"))
		}

		status, err := app.Ledger.Status()
		if err != nil {
			fatal("Failed to read status", err)
		}

		fmt.Println("Branch: ", status.Branch)
		if status.Head != nil {
			fmt.Println("Commit: ", status.Head.Hash)
			fmt.Println("Message:", status.Head.Message)
			fmt.Println("Date:   ", status.Head.Timestamp.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Commit:  (none)")
		}
		fmt.Println("Pending:", status.PendingChanges)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
