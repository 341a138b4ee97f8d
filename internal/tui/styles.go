package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

var (
	// Colors
	colorPrimary = lipgloss.Color("#FF9F0D")
	colorAccent  = lipgloss.Color("#FF7600")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleFilter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent).
			Padding(0, 1)

	styleFilterActive = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				Background(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				Padding(0, 1)

	styleTableRow = lipgloss.NewStyle().
			Padding(0, 1)

	styleTableRowSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("#1F2937")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	styleDetailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			MarginLeft(2)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3)

	styleLoginBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 3).
			Width(44)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
)

// iconStyle colors a dialog by its tone.
func iconStyle(icon dashboard.Icon) lipgloss.Style {
	switch icon {
	case dashboard.IconSuccess:
		return styleModal.BorderForeground(colorSuccess)
	case dashboard.IconError:
		return styleModal.BorderForeground(colorDanger)
	case dashboard.IconWarning:
		return styleModal.BorderForeground(colorWarning)
	default:
		return styleModal
	}
}

func statusStyle(s repository.OrderStatus) lipgloss.Style {
	switch s {
	case repository.StatusPending:
		return lipgloss.NewStyle().Foreground(colorWarning)
	case repository.StatusDispatch:
		return lipgloss.NewStyle().Foreground(colorAccent)
	case repository.StatusSuccess:
		return lipgloss.NewStyle().Foreground(colorSuccess)
	default:
		return styleMuted
	}
}
