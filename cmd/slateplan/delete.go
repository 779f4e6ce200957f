// Delete command removes an event.
package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Long: `Delete removes the event with the given ID from the calendar. The
removal is committed to the backing repository.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	return printResult(svc.DeleteEvent(cmd.Context(), args[0]))
}
