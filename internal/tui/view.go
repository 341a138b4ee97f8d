package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

// View 实现 tea.Model
func (m Model) View() string {
	var content string
	switch m.screen {
	case ScreenLogin:
		content = m.renderLogin()
	default:
		content = m.renderDashboard()
	}

	// Modals replace the screen until dismissed.
	switch {
	case len(m.notices) > 0:
		return m.overlay(m.renderNotice(m.notices[0]))
	case m.confirming != "":
		return m.overlay(m.renderConfirm())
	case m.picking:
		return m.overlay(m.renderPicker())
	}
	return content
}

func (m Model) overlay(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(m.t("login.title")))
	b.WriteString("\n\n")
	if m.loginErr != "" {
		b.WriteString(styleError.Render(m.loginErr))
		b.WriteString("\n\n")
	}
	b.WriteString(styleLabel.Render(m.t("login.email")))
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n")
	b.WriteString(styleLabel.Render(m.t("login.password")))
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")
	b.WriteString(styleHelp.Render("[tab] ↕  [enter] " + m.t("login.submit") + "  [esc] quit"))

	box := styleLoginBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderDashboard() string {
	var b strings.Builder

	width := m.width
	if width <= 0 {
		width = 100
	}
	b.WriteString(styleHeader.Width(width).Render(m.t("dashboard.heading") + "  " + m.email))
	b.WriteString("\n\n")

	counts := m.state.Counts()
	filters := make([]string, 0, len(dashboard.Filters))
	for _, f := range dashboard.Filters {
		label := fmt.Sprintf("%s (%d)", m.t("filter."+string(f)), counts[f])
		if f == m.state.Filter {
			filters = append(filters, styleFilterActive.Render(label))
		} else {
			filters = append(filters, styleFilter.Render(label))
		}
	}
	b.WriteString(" " + strings.Join(filters, " "))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styleMuted.Render("  ..."))
		b.WriteString("\n\n")
	}

	visible := m.state.Visible()
	if len(visible) == 0 {
		b.WriteString(styleMuted.Render("  " + m.t("dashboard.empty")))
		b.WriteString("\n")
	} else {
		header := fmt.Sprintf("%-14s │ %-20s │ %-24s │ %-10s │ %9s │ %s",
			m.t("dashboard.col.id"), m.t("dashboard.col.customer"), m.t("dashboard.col.address"),
			m.t("dashboard.col.date"), m.t("dashboard.col.total"), m.t("dashboard.col.status"))
		b.WriteString(styleTableHeader.Render(header))
		b.WriteString("\n")
		b.WriteString(styleMuted.Render(strings.Repeat("─", width)))
		b.WriteString("\n")

		start, end := m.window(len(visible))
		for i := start; i < end; i++ {
			o := visible[i]
			b.WriteString(m.renderRow(o, i == m.cursor))
			b.WriteString("\n")
			if m.state.IsExpanded(o.ID) {
				b.WriteString(m.renderDetail(o))
				b.WriteString("\n")
			}
		}
		if len(visible) > end-start {
			b.WriteString(styleMuted.Render(fmt.Sprintf("  %d-%d / %d", start+1, end, len(visible))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleHelp.Render("[↑/↓] move  [enter] details  [a/p/d/s] filter  [c] status  [x] " +
		m.t("dashboard.action.delete") + "  [r] " + m.t("dashboard.reload") + "  [q] quit"))
	return b.String()
}

// window keeps the cursor row on screen.
func (m Model) window(total int) (int, int) {
	rows := m.height - 12
	if rows < 5 {
		rows = 5
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > total {
		end = total
	}
	return start, end
}

func (m Model) renderRow(o *repository.Order, selected bool) string {
	row := fmt.Sprintf("%-14s │ %-20s │ %-24s │ %-10s │ %9s │ ",
		truncate(o.ID, 14), truncate(o.CustomerName(), 20), truncate(o.Address, 24),
		truncate(o.OrderDate, 10), "$"+strconv.FormatFloat(o.Total, 'f', -1, 64))
	status := statusStyle(o.Status).Render(m.statusLabel(o.Status))
	if selected {
		return styleTableRowSelected.Render("▸ "+row) + status
	}
	return styleTableRow.Render("  "+row) + status
}

func (m Model) renderDetail(o *repository.Order) string {
	var b strings.Builder
	b.WriteString(m.t("dashboard.detail.title") + "\n")
	b.WriteString(styleLabel.Render(m.t("dashboard.detail.phone")) + o.Phone + "\n")
	b.WriteString(styleLabel.Render(m.t("dashboard.detail.email")) + o.Email + "\n")
	b.WriteString(styleLabel.Render(m.t("dashboard.detail.city")) + o.City + "\n")
	b.WriteString(m.t("dashboard.detail.items") + ":")
	for _, item := range o.CartItems {
		b.WriteString("\n  • " + item.ProductName)
	}
	return styleDetailBox.Render(b.String())
}

func (m Model) renderNotice(n dashboard.Notice) string {
	body := lipgloss.NewStyle().Bold(true).Render(n.Title) + "\n\n" + n.Body + "\n\n" +
		styleHelp.Render(m.t("notice.dismiss"))
	return iconStyle(n.Icon).Render(body)
}

func (m Model) renderConfirm() string {
	p := m.prompt
	body := lipgloss.NewStyle().Bold(true).Render(p.Title) + "\n\n" + p.Body + "\n\n" +
		styleError.Render("[y] "+p.ConfirmLabel) + "   " + styleHelp.Render("[n] "+p.CancelLabel)
	return iconStyle(p.Icon).Render(body)
}

func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.t("dashboard.col.status")))
	b.WriteString("\n")
	for i, s := range repository.SelectableStatuses {
		line := "  " + m.statusLabel(s)
		if i == m.pick {
			line = styleTableRowSelected.Render("▸ " + m.statusLabel(s))
		}
		b.WriteString("\n" + line)
	}
	b.WriteString("\n\n" + styleHelp.Render("[enter] "+m.t("dashboard.action.save")+"  [esc] "+m.t("dialog.delete.cancel")))
	return styleModal.Render(b.String())
}

func (m Model) statusLabel(s repository.OrderStatus) string {
	if !s.IsSet() {
		return m.t("status.unset")
	}
	return m.t("status." + string(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
