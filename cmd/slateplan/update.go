// Update command replaces an existing event.
package main

import (
	"github.com/spf13/cobra"

	"github.com/slateplan/slateplan/pkg/types"
)

var (
	updateTitle  string
	updateStart  string
	updateEnd    string
	updateStatus string
	updateNotes  string
	updateLinks  []string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing event",
	Long: `Update replaces the event with the given ID. All fields must be
supplied; the stored event is overwritten whole.

Example:
  slateplan update 0195f3c2-1111-7000-8000-000000000001 \
    --title "Launch post" --start 2025-03-01T09:00:00Z --end 2025-03-01T11:00:00Z --status Approved`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "event title (required)")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "visible-from instant, RFC 3339 (required)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "visible-until instant, RFC 3339 (required)")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "workflow status (required)")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "free-form notes")
	updateCmd.Flags().StringSliceVar(&updateLinks, "link", nil, "attachment link (repeatable)")
	_ = updateCmd.MarkFlagRequired("title")
	_ = updateCmd.MarkFlagRequired("start")
	_ = updateCmd.MarkFlagRequired("end")
	_ = updateCmd.MarkFlagRequired("status")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	e, ferrs := eventFromFlags(args[0], updateTitle, updateStart, updateEnd, updateStatus, updateNotes, updateLinks)
	if len(ferrs) > 0 {
		return printResult(types.Invalid(ferrs))
	}
	return printResult(svc.UpdateEvent(cmd.Context(), e))
}
