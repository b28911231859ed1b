package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scaffoldName string

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <tenant-id>",
	Short: "Create a tenant's directory tree and default configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}

		cfg, err := app.Store.EnsureTenantScaffold(context.Background(), args[0], scaffoldName)
		if err != nil {
			fatal("Failed to scaffold tenant", err)
		}
		fmt.Printf("Tenant %s ready (display name %q, notify threshold %d)\n",
			args[0], cfg.DisplayName, cfg.AutoNotifyThresh)
	},
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)
	scaffoldCmd.Flags().StringVar(&scaffoldName, "name", "", "Display name for a newly created tenant")
}
