package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			return m, tea.Quit
		}
		// An open notice swallows the next key.
		if len(m.notices) > 0 {
			m.notices = m.notices[1:]
			return m, nil
		}
		if m.screen == ScreenLogin {
			return m.handleLoginKey(msg)
		}
		return m.handleDashboardKey(msg)

	case loginResultMsg:
		m.loading = false
		if msg.err != nil {
			m.loginErr = m.t("login.invalid")
			return m, nil
		}
		m.loginErr = ""
		m.email = msg.email
		m.screen = ScreenDashboard
		m.inputs[fieldPassword].SetValue("")
		m.loading = true
		return m, m.loadCmd()

	case loadedMsg:
		m.loading = false
		m.state = msg.state
		m.cursor = 0
		return m, nil

	case mutatedMsg:
		m.loading = false
		if msg.ok {
			switch msg.op {
			case mutationStatus:
				m.state.ApplyStatus(msg.id, msg.status)
			case mutationDelete:
				m.state.Remove(msg.id)
			}
		}
		m.notices = append(m.notices, msg.notices...)
		m.clampCursor()
		return m, nil
	}

	if m.screen == ScreenLogin {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.focusField((m.focus + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case "enter":
		if m.focus == fieldEmail {
			return m.focusField(fieldPassword)
		}
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.loginCmd()
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming != "" {
		return m.handleConfirmKey(msg)
	}
	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if n := len(m.state.Visible()); n > 0 {
			m.cursor = (m.cursor + n - 1) % n
		}

	case key.Matches(msg, m.keys.Down):
		if n := len(m.state.Visible()); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}

	case key.Matches(msg, m.keys.Toggle):
		if o := m.selected(); o != nil {
			m.state.Toggle(o.ID)
		}

	case key.Matches(msg, m.keys.All):
		m.setFilter(dashboard.FilterAll)
	case key.Matches(msg, m.keys.Pending):
		m.setFilter(dashboard.FilterPending)
	case key.Matches(msg, m.keys.Dispatch):
		m.setFilter(dashboard.FilterDispatch)
	case key.Matches(msg, m.keys.Success):
		m.setFilter(dashboard.FilterSuccess)

	case key.Matches(msg, m.keys.Status):
		if o := m.selected(); o != nil {
			m.picking = true
			m.pick = 0
			for i, s := range repository.SelectableStatuses {
				if s == o.Status {
					m.pick = i
				}
			}
		}

	case key.Matches(msg, m.keys.Delete):
		if o := m.selected(); o != nil {
			m.confirming = o.ID
			m.prompt = m.svc.DeletePrompt(m.ctx)
		}

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.loadCmd()
	}
	return m, nil
}

func (m *Model) setFilter(f dashboard.Filter) {
	m.state.SetFilter(f)
	m.clampCursor()
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(repository.SelectableStatuses)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pick = (m.pick + n - 1) % n
	case key.Matches(msg, m.keys.Down):
		m.pick = (m.pick + 1) % n
	case key.Matches(msg, m.keys.Back):
		m.picking = false
	case key.Matches(msg, m.keys.Toggle):
		m.picking = false
		if o := m.selected(); o != nil {
			m.loading = true
			return m, m.statusCmd(o.ID, repository.SelectableStatuses[m.pick])
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		id := m.confirming
		m.confirming = ""
		m.loading = true
		return m, m.deleteCmd(id)
	case key.Matches(msg, m.keys.No):
		m.confirming = ""
	}
	return m, nil
}
