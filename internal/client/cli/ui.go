package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("6"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// kv renders aligned label/value rows.
func kv(rows [][2]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), r[1]))
	}
	return strings.Join(lines, "\n")
}

func reportLine(r models.SyncReport) string {
	if r.Skipped {
		return warnStyle.Render("skipped") + mutedStyle.Render(" (another sync is running or you are signed out)")
	}
	line := fmt.Sprintf("%d pulled, %d refreshed, %d created, %d updated, %d unchanged, %d deleted",
		r.Pulled, r.Refreshed, r.Created, r.Updated, r.Unchanged, r.Deleted)
	if r.Failed > 0 {
		return line + ", " + errStyle.Render(fmt.Sprintf("%d failed", r.Failed))
	}
	return okStyle.Render(line)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func itoa(n int) string { return strconv.Itoa(n) }
