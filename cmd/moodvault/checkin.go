package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

var (
	checkinTenant string
	checkinMood   int
	checkinHigh   int
	checkinNotes  string
	checkinPanic  bool
	checkinTags   []string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Submit a new mood check-in",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openApp()
		if err != nil {
			fatal("Failed to open store", err)
		}

		principal := core.Principal{TenantID: checkinTenant, Username: checkinTenant}
		checkin, err := app.Service.SubmitCheckin(context.Background(), principal, core.CheckinDraft{
			Mood:       checkinMood,
			HighLevel:  checkinHigh,
			Notes:      checkinNotes,
			Panic:      checkinPanic,
			StatusTags: checkinTags,
		})
		if err != nil {
			fatal("Failed to save check-in", err)
		}
		fmt.Printf("Saved check-in %s (mood %d, high %d)\n", checkin.ID, checkin.Mood, checkin.HighLevel)
	},
}

func init() {
	rootCmd.AddCommand(checkinCmd)
	checkinCmd.Flags().StringVar(&checkinTenant, "tenant", "", "Tenant id")
	checkinCmd.Flags().IntVar(&checkinMood, "mood", 0, "Mood in [-5,5]")
	checkinCmd.Flags().IntVar(&checkinHigh, "high", 0, "High level in [0,10]")
	checkinCmd.Flags().StringVar(&checkinNotes, "notes", "", "Free-form notes")
	checkinCmd.Flags().BoolVar(&checkinPanic, "panic", false, "Also trigger the panic alarm")
	checkinCmd.Flags().StringSliceVar(&checkinTags, "tag", nil, "Status tags (repeatable)")
	checkinCmd.MarkFlagRequired("tenant")
}
