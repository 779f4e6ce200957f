// Create command schedules a new event.
package main

import (
	"github.com/spf13/cobra"

	"github.com/slateplan/slateplan/pkg/types"
)

var (
	createTitle  string
	createStart  string
	createEnd    string
	createStatus string
	createNotes  string
	createLinks  []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new event",
	Long: `Create schedules a new content item. The event is committed to the
backing repository and receives a generated ID.

Example:
  slateplan create --title "Launch post" --start 2025-03-01T09:00:00Z --end 2025-03-01T10:00:00Z
  slateplan create --title "Newsletter" --start 2025-03-03T08:00:00Z --end 2025-03-04T08:00:00Z --status Planned`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "event title (required)")
	createCmd.Flags().StringVar(&createStart, "start", "", "visible-from instant, RFC 3339 (required)")
	createCmd.Flags().StringVar(&createEnd, "end", "", "visible-until instant, RFC 3339 (required)")
	createCmd.Flags().StringVar(&createStatus, "status", types.StatusDraft, "workflow status")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "free-form notes")
	createCmd.Flags().StringSliceVar(&createLinks, "link", nil, "attachment link (repeatable)")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
}

func runCreate(cmd *cobra.Command, args []string) error {
	e, ferrs := eventFromFlags("", createTitle, createStart, createEnd, createStatus, createNotes, createLinks)
	if len(ferrs) > 0 {
		return printResult(types.Invalid(ferrs))
	}
	return printResult(svc.CreateEvent(cmd.Context(), e))
}
