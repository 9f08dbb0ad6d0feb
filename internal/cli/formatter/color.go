package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TierStatusPill returns a colored indicator such as "✔ approved".
func TierStatusPill(s domain.TierStatus) string {
	switch s {
	case domain.TierApproved:
		return StyleGreen.Render("✔ approved")
	case domain.TierRejected:
		return StyleRed.Render("✖ rejected")
	case domain.TierInProgress:
		return StyleYellow.Render("▶ in progress")
	case domain.TierPending:
		return StyleBlue.Render("○ pending")
	case domain.TierNotApplicable:
		return StyleDim.Render("-- n/a")
	default:
		return StyleDim.Render(string(s))
	}
}

// OverallStatusPill colors a submission's resolved status.
func OverallStatusPill(s domain.OverallStatus) string {
	switch s {
	case domain.OverallApproved:
		return StyleGreen.Render("● APPROVED")
	case domain.OverallRejected:
		return StyleRed.Render("● REJECTED")
	case domain.OverallInProgress:
		return StyleYellow.Render("● IN PROGRESS")
	case domain.OverallPending:
		return StyleBlue.Render("● PENDING")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(s)))
	}
}

func SubtaskStatusPill(s domain.SubtaskStatus) string {
	switch s {
	case domain.SubtaskPending:
		return StyleBlue.Render("○ Pending")
	case domain.SubtaskInProgress:
		return StyleYellow.Render("▶ In Progress")
	case domain.SubtaskCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.SubtaskCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// TaskStatusPill derives the display state from the task's timestamps.
func TaskStatusPill(t *domain.Task) string {
	switch {
	case t.ArchivedAt != nil:
		return StyleDim.Render("✖ Archived")
	case t.CompletedAt != nil:
		return StyleGreen.Render("✔ Completed")
	default:
		return StyleYellow.Render("● Open")
	}
}

func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("■ medium")
	case domain.PriorityLow:
		return StyleDim.Render("▼ low")
	default:
		return StyleDim.Render("--")
	}
}

// RoleBadge renders a role as a purple label, e.g. "TeamLead".
func RoleBadge(r domain.Role) string {
	var label string
	switch r {
	case domain.RoleTeamLead:
		label = "TeamLead"
	case "":
		return StyleDim.Render("--")
	default:
		label = strings.ToUpper(string(r)[:1]) + string(r)[1:]
	}
	return StylePurple.Render(label)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
