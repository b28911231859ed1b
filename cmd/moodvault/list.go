package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	listTenant string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a tenant's check-ins, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}

		checkins, err := app.Store.ListCheckins(context.Background(), listTenant)
		if err != nil {
			fatal("Failed to list check-ins", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(checkins); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, checkin := range checkins {
			fmt.Printf("%s  %s  mood %+d  high %d/10\n",
				checkin.Timestamp.Format("2006-01-02 15:04"), checkin.ID, checkin.Mood, checkin.HighLevel)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listTenant, "tenant", "", "Tenant id")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.MarkFlagRequired("tenant")
}
