package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/snaptile/internal/ipc"
	"github.com/1broseidon/snaptile/internal/snap"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(12).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderStatus prints key: value rows. Styling is applied only for a TTY so
// piped output stays stable.
func renderStatus(st *ipc.StatusData, styled bool) string {
	rows := [][2]string{
		{"version", st.Version},
		{"hotkeys", st.Hotkeys},
		{"dual_snap", onOff(st.DualSnap)},
		{"commands", fmt.Sprint(st.Commands)},
		{"rearms", fmt.Sprint(st.Rearms)},
		{"reinstalls", fmt.Sprint(st.Reinstalls)},
		{"dropped", fmt.Sprint(st.Dropped)},
		{"uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()},
	}

	var b strings.Builder
	for _, r := range rows {
		if styled {
			b.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
			continue
		}
		fmt.Fprintf(&b, "%-11s %s\n", r[0]+":", r[1])
	}
	return b.String()
}

func formatRect(r snap.Rect) string {
	return fmt.Sprintf("%gx%g+%g+%g", r.Width, r.Height, r.X, r.Y)
}

func renderDisplays(displays []ipc.DisplayInfo, styled bool) string {
	if len(displays) == 0 {
		return "no displays\n"
	}

	header := []string{"#", "NAME", "FRAME", "VISIBLE"}
	rows := make([][]string, 0, len(displays))
	for _, d := range displays {
		name := d.Name
		if d.Primary {
			name += " *"
		}
		rows = append(rows, []string{fmt.Sprint(d.Index), name, formatRect(d.Frame), formatRect(d.Visible)})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			cell := c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
	}

	var b strings.Builder
	if styled {
		b.WriteString(line(header, &headerStyle))
	} else {
		b.WriteString(line(header, nil))
	}
	for _, r := range rows {
		b.WriteString(line(r, nil))
	}
	if styled {
		b.WriteString(dimStyle.Render("* primary") + "\n")
	}
	return b.String()
}
