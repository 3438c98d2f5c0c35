package finder

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/greeddj/go-hge/internal/hge/crossref"
	"github.com/greeddj/go-hge/internal/hge/states"
)

// NoResults is printed when a search matched nothing.
const NoResults = "No results found."

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	nameStyle     = lipgloss.NewStyle().Bold(true).Width(28)
	distanceStyle = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).MarginRight(2)
	statesStyle   = lipgloss.NewStyle().Width(30)
	materialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// Render writes a search report as a table.
func Render(w io.Writer, report Report) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Around %s (%g ly)", report.Origin, report.Radius)))
	b.WriteString("\n")
	if report.Stale {
		b.WriteString(warningStyle.Render(fmt.Sprintf("EDSM unreachable, last known location from %s", report.SeenAt.Local().Format(time.DateTime))))
		b.WriteString("\n")
	}
	if len(report.Results) == 0 {
		b.WriteString(NoResults)
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, r := range report.Results {
		b.WriteString(renderRow(r))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d nearby systems shown", len(report.Results), report.Nearby)))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderRow(r crossref.Result) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		nameStyle.Render(r.Name),
		distanceStyle.Render(fmt.Sprintf("%.2f ly", r.Distance)),
		statesStyle.Render(formatStates(r.MaterialStates)),
		materialStyle.Render(formatMaterials(r.MaterialStates.Materials())),
	)
}

// formatStates lists active states, with a count when more than one
// faction is in the same state.
func formatStates(c states.Counts) string {
	active := c.Active()
	if len(active) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(active))
	for _, s := range active {
		if n := c[s]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", s, n))
			continue
		}
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

func formatMaterials(materials []states.Material) string {
	if len(materials) == 0 {
		return "-"
	}
	parts := make([]string, len(materials))
	for i, m := range materials {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
