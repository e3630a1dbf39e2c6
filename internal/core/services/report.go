package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"graylogsync/internal/core/domain"
)

// ConsoleReporter prints a per-user block of added, removed and unchanged
// permissions. Non-external users are not reported.
type ConsoleReporter struct {
	out       io.Writer
	header    lipgloss.Style
	added     lipgloss.Style
	removed   lipgloss.Style
	unchanged lipgloss.Style
	deleted   lipgloss.Style
}

// NewConsoleReporter styles output for w; plain text when w is not a terminal.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	renderer := lipgloss.NewRenderer(w)
	return &ConsoleReporter{
		out:       w,
		header:    renderer.NewStyle().Bold(true),
		added:     renderer.NewStyle().Foreground(lipgloss.Color("2")),
		removed:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		unchanged: renderer.NewStyle().Faint(true),
		deleted:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

func (c *ConsoleReporter) Report(result domain.UserResult) {
	var b strings.Builder
	switch result.Action {
	case domain.SyncSkipped:
		return
	case domain.SyncDeleted:
		fmt.Fprintf(&b, "%s %s\n", c.header.Render(result.Username+":"),
			c.deleted.Render("deleted, not in any directory group"))
	default:
		fmt.Fprintf(&b, "%s %s\n", c.header.Render(result.Username+":"), result.Action)
		for _, p := range result.Added {
			fmt.Fprintf(&b, "  %s\n", c.added.Render("+ "+p))
		}
		for _, p := range result.Removed {
			fmt.Fprintf(&b, "  %s\n", c.removed.Render("- "+p))
		}
		for _, p := range result.Unchanged {
			fmt.Fprintf(&b, "  %s\n", c.unchanged.Render("= "+p))
		}
	}
	io.WriteString(c.out, b.String())
}

// WriteSummary prints the closing totals line of a run.
func (c *ConsoleReporter) WriteSummary(summary *domain.Summary) {
	prefix := ""
	if summary.DryRun {
		prefix = "dry run: "
	}
	fmt.Fprintf(c.out, "%s%d updated, %d deleted, %d unchanged, %d skipped\n",
		prefix,
		summary.Count(domain.SyncUpdated),
		summary.Count(domain.SyncDeleted),
		summary.Count(domain.SyncUnchanged),
		summary.Count(domain.SyncSkipped),
	)
}
