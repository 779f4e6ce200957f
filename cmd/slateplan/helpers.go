// Shared helpers for slateplan CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/slateplan/slateplan/pkg/types"
)

// eventFromFlags assembles an event from CLI flag values, reporting
// unparsable timestamps as field errors so bad input reads the same on
// the command line as it does in the UI.
func eventFromFlags(id, title, start, end, status, notes string, links []string) (types.Event, []types.FieldError) {
	var errs []types.FieldError
	e := types.Event{ID: id, Title: title, Status: status, Notes: notes}
	e.SetAttachmentLinks(links)

	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			errs = append(errs, types.FieldError{Field: "start", Message: "start must be an RFC 3339 timestamp, e.g. 2025-03-01T09:00:00Z"})
		} else {
			e.Start = t
		}
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			errs = append(errs, types.FieldError{Field: "end", Message: "end must be an RFC 3339 timestamp, e.g. 2025-03-01T10:00:00Z"})
		} else {
			e.End = t
		}
	}
	return e, errs
}

// printResult renders a mutation result and maps failure onto a
// nonzero exit via the returned error.
func printResult(res types.Result) error {
	if flagJSON {
		_ = json.NewEncoder(os.Stdout).Encode(res)
	} else {
		fmt.Println(res.Message)
		for _, fe := range res.FieldErrors {
			fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
		}
	}
	if !res.Success {
		return errors.New("operation failed")
	}
	return nil
}
