package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the store root (directory tree + git init)",
	Long: `Create the store's directory tree, write the default global
configuration if absent, and initialize the version ledger repository.
Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		fmt.Println("Initialized moodvault store in", app.Store.Root())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
