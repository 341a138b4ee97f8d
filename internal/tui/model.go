// 文件路径: internal/tui/model.go
// 模块说明: 终端版管理后台：登录表单与订单仪表盘，与网页端共用同一套服务与状态模型。
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/shopadmin/internal/dashboard"
	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/service"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// Screen 表示当前界面
type Screen int

const (
	ScreenLogin     Screen = iota // 登录表单
	ScreenDashboard               // 订单仪表盘
)

const (
	fieldEmail = iota
	fieldPassword
)

// Model 是主 TUI 模型
type Model struct {
	auth service.AuthService
	svc  service.DashboardService
	i18n *i18n.Manager
	ctx  context.Context

	screen Screen

	// 登录表单
	inputs   []textinput.Model
	focus    int
	loginErr string
	email    string

	// 仪表盘
	state  *dashboard.State
	cursor int

	// 状态选择器
	picking bool
	pick    int

	// 删除确认
	confirming string
	prompt     dashboard.Prompt

	// 待关闭的通知
	notices []dashboard.Notice

	// 终端尺寸
	width  int
	height int

	loading bool
	keys    keyMap
}

// keyMap 定义仪表盘按键绑定
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	All      key.Binding
	Pending  key.Binding
	Dispatch key.Binding
	Success  key.Binding
	Status   key.Binding
	Delete   key.Binding
	Reload   key.Binding
	Yes      key.Binding
	No       key.Binding
	Back     key.Binding
	Quit     key.Binding
	Force    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		Pending:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pending")),
		Dispatch: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dispatch")),
		Success:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success")),
		Status:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "status")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Yes:      key.NewBinding(key.WithKeys("y", "Y")),
		No:       key.NewBinding(key.WithKeys("n", "N", "esc")),
		Back:     key.NewBinding(key.WithKeys("esc")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:    key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Options 配置 TUI
type Options struct {
	Auth      service.AuthService
	Dashboard service.DashboardService
	I18n      *i18n.Manager
	// Lang picks the copy; empty uses the default language.
	Lang string
}

// NewModel 创建新的 TUI 模型
func NewModel(opts Options) Model {
	lang := i18n.DefaultLang
	if opts.I18n != nil && opts.Lang != "" {
		lang = opts.I18n.Match(opts.Lang)
	}
	m := Model{
		auth:   opts.Auth,
		svc:    opts.Dashboard,
		i18n:   opts.I18n,
		ctx:    i18n.WithLanguage(context.Background(), lang),
		screen: ScreenLogin,
		state:  dashboard.NewState(nil),
		keys:   defaultKeyMap(),
	}

	email := textinput.New()
	email.Placeholder = m.t("login.email")
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = m.t("login.password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m.inputs = []textinput.Model{email, password}
	return m
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Screen reports which screen is showing.
func (m Model) Screen() Screen {
	return m.screen
}

func (m Model) t(key string, args ...any) string {
	return m.i18n.T(m.ctx, key, args...)
}

// 消息类型

type loginResultMsg struct {
	email string
	err   error
}

type loadedMsg struct {
	state *dashboard.State
}

type mutation int

const (
	mutationStatus mutation = iota
	mutationDelete
)

// mutatedMsg reports one finished write. Update applies it to the state held
// at delivery time, so writes that overlap never undo each other.
type mutatedMsg struct {
	op      mutation
	id      string
	status  repository.OrderStatus
	ok      bool
	notices []dashboard.Notice
}

// 命令

func (m Model) loginCmd() tea.Cmd {
	input := service.LoginInput{
		Email:     m.inputs[fieldEmail].Value(),
		Password:  m.inputs[fieldPassword].Value(),
		UserAgent: "shopadmin-tui",
	}
	auth, ctx := m.auth, m.ctx
	return func() tea.Msg {
		return loginResultMsg{email: input.Email, err: auth.Login(ctx, input)}
	}
}

func (m Model) loadCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		// Load logs failures itself and hands back an empty state.
		st, _ := svc.Load(ctx)
		return loadedMsg{state: st}
	}
}

func (m Model) statusCmd(id string, status repository.OrderStatus) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		rec := &dashboard.Recorder{}
		err := svc.ChangeStatus(ctx, nil, id, status, rec)
		return mutatedMsg{op: mutationStatus, id: id, status: status, ok: err == nil, notices: rec.Notices}
	}
}

// deleteCmd runs after the viewer already answered yes in the modal.
func (m Model) deleteCmd(id string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		rec := &dashboard.Recorder{Answer: true}
		err := svc.Delete(ctx, nil, id, rec)
		return mutatedMsg{op: mutationDelete, id: id, ok: err == nil, notices: rec.Notices}
	}
}

func (m Model) selected() *repository.Order {
	visible := m.state.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
