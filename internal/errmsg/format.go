// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogLoad Op = "load station catalog"

	// Selection operations
	OpSelectionLoad  Op = "load favorite stations"
	OpFavoriteToggle Op = "update favorites"
	OpPageSizeSave   Op = "save page size"

	// Playback operations
	OpStreamStart  Op = "start stream"
	OpStreamResume Op = "resume stream"
	OpPreviewStart Op = "start preview"

	// State persistence
	OpStateOpen Op = "open state database"
	OpStateSave Op = "save player state"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
