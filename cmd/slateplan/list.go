// List command prints the scheduled events.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled events",
	Long: `List prints every well-formed event in the calendar. Malformed
entries in the backing file are skipped, the same way the calendar
page skips them.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	events, err := svc.ListEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if flagJSON {
		out, err := events.Marshal()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(events) == 0 {
		fmt.Println("No events scheduled.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%-36s  %s .. %s  [%s]  %s\n",
			e.ID,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
			e.Status,
			e.Title)
	}
	return nil
}
