package tui

import (
	"fmt"
	"strings"

	"github.com/vncsmyrnk/pollweb/internal/core/services"
)

const barWidth = 20

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Poll App")
	if m.session != nil && m.session.Name != "" {
		fmt.Fprintf(&b, " · %s", m.session.Name)
	}
	b.WriteString("\n\n")

	switch m.list.State() {
	case services.StateLoading:
		b.WriteString("Loading polls...\n")
	case services.StateFailure:
		b.WriteString("Error loading polls\n")
		b.WriteString(m.list.Err())
		b.WriteString("\n")
	case services.StateSuccess:
		if m.list.IsEmpty() {
			b.WriteString("No polls yet. Be the first to create a poll!\n")
			break
		}
		m.writePolls(&b)
	}

	if notice := m.list.Notice(); notice != "" {
		fmt.Fprintf(&b, "\n%s\n", notice)
	} else if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", m.status)
	}

	b.WriteString("\nj/k move · enter vote · r refresh · q quit\n")
	return b.String()
}

func (m Model) writePolls(b *strings.Builder) {
	flat := 0
	for _, item := range m.list.Items(nil) {
		fmt.Fprintf(b, "%s\n", item.Title)
		for _, opt := range item.Options {
			cursor := "  "
			if flat == m.cursor {
				cursor = "> "
			}
			fmt.Fprintf(b, "%s%-24s %s %6s  %s\n", cursor, opt.Label, bar(opt.Percentage), opt.PercentageText, opt.VotesText)
			flat++
		}
		footer := "Total votes: " + fmt.Sprint(item.TotalVotes)
		if item.CreatedText != "" {
			footer += " · Created: " + item.CreatedText
		}
		fmt.Fprintf(b, "  %s\n\n", footer)
	}
}

func bar(percentage float64) string {
	filled := int(percentage/100*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
