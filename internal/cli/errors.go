package cli

import (
	"fmt"
	"io"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
)

// PrintError prints an error with appropriate formatting.
// If the error is a TrackError, it uses the user-friendly format.
// Otherwise, it prints a simple error message.
func PrintError(w io.Writer, err error) {
	if jsonOut {
		if te := trackerrors.AsTrackError(err); te != nil {
			_ = writeJSON(w, map[string]any{"error": te})
			return
		}
		_ = writeJSON(w, map[string]any{"error": map[string]string{"what": err.Error()}})
		return
	}

	if te := trackerrors.AsTrackError(err); te != nil {
		_, _ = fmt.Fprintln(w, te.UserMessage())
		if verbose {
			// In verbose mode, also print the error code and cause
			_, _ = fmt.Fprintf(w, "\nCode: %s\n", te.Code)
			if te.Cause != nil {
				_, _ = fmt.Fprintf(w, "Cause: %v\n", te.Cause)
			}
		}
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
