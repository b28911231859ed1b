package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

var panicTenant string

var panicCmd = &cobra.Command{
	Use:   "panic",
	Short: "Record a panic event and notify the tenant's contacts",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}

		principal := core.Principal{TenantID: panicTenant, Username: panicTenant}
		event, err := app.Service.TriggerPanic(context.Background(), principal)
		if err != nil {
			fatal("Failed to record panic event", err)
		}
		fmt.Printf("Recorded panic event %s (%d contacts notified)\n", event.ID, len(event.NotifiedContacts))
	},
}

func init() {
	rootCmd.AddCommand(panicCmd)
	panicCmd.Flags().StringVar(&panicTenant, "tenant", "", "Tenant id")
	panicCmd.MarkFlagRequired("tenant")
}
