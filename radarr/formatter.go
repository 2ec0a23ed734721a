package radarr

import (
	"fmt"
	"strings"
)

// ConsoleFormatter provides console output formatting for sync results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

var _ ResultFormatter = (*ConsoleFormatter)(nil)

// FormatSyncResults renders the per-movie outcome as a tree followed by totals
func (f *ConsoleFormatter) FormatSyncResults(summary SyncSummary) string {
	if len(summary.Results) == 0 {
		return "No favorites to sync"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nFavorite")
	if len(summary.Results) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(summary.Results))

	for i, r := range summary.Results {
		isLast := i == len(summary.Results)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s (TMDB %d)\n", prefix, r.Movie.Title, r.Movie.ID)

		indent := "│   "
		if isLast {
			indent = "    "
		}

		switch r.Action {
		case ActionAdded:
			fmt.Fprintf(&sb, "%sAdded to Radarr (ID: %d)\n", indent, r.RadarrID)
		case ActionExists:
			fmt.Fprintf(&sb, "%sAlready in Radarr (ID: %d)\n", indent, r.RadarrID)
		case ActionWouldAdd:
			fmt.Fprintf(&sb, "%sWould be added\n", indent)
		case ActionFailed:
			fmt.Fprintf(&sb, "%sFailed: %s\n", indent, r.Error)
		}
	}

	sb.WriteString("\n")
	parts := []string{
		fmt.Sprintf("%d added", summary.Added),
		fmt.Sprintf("%d already present", summary.Exists),
	}
	if summary.Planned > 0 {
		parts = append(parts, fmt.Sprintf("%d would be added", summary.Planned))
	}
	if summary.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", summary.Failed))
	}
	sb.WriteString("Summary: " + strings.Join(parts, ", ") + "\n")
	return sb.String()
}
