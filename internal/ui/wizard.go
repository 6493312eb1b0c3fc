package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/ytauth"
)

// Step is the wizard screen currently shown.
type Step int

const (
	MethodStep Step = iota
	CurlStep
	CookieStep
	AuthorizationStep
	AuthUserStep
	ConfirmStep
	DoneStep
)

// WriteFunc persists the headers once the user confirms them.
type WriteFunc func(ytauth.Headers) error

// AuthWizard collects YouTube Music browser headers, either from a pasted cURL command or
// from individually copied header values.
type AuthWizard struct {
	step    Step
	width   int
	height  int
	methods list.Model
	area    textarea.Model
	input   textinput.Model
	help    help.Model
	keys    keyMap

	cookie        string
	authorization string
	headers       ytauth.Headers
	write         WriteFunc

	notice error // validation error shown on the current step
	err    error // terminal error returned by Result
	done   bool
}

// NewAuthWizard creates a wizard that calls write with the confirmed headers.
func NewAuthWizard(write WriteFunc) *AuthWizard {
	methods := list.New(methodItems(), list.NewDefaultDelegate(), 60, 10)
	methods.Title = "How do you want to provide your YouTube Music headers?"
	methods.SetShowHelp(false)
	methods.SetShowStatusBar(false)
	methods.SetFilteringEnabled(false)

	area := textarea.New()
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetWidth(80)
	area.SetHeight(8)

	input := textinput.New()
	input.CharLimit = 0
	input.Width = 80

	return &AuthWizard{
		step:    MethodStep,
		methods: methods,
		area:    area,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
		write:   write,
	}
}

// Step reports the screen currently shown.
func (m *AuthWizard) Step() Step { return m.step }

// Result returns the written headers, or [shared.ErrCancelled] when the user quit early.
func (m *AuthWizard) Result() (ytauth.Headers, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.done {
		return nil, shared.ErrCancelled
	}
	return m.headers, nil
}

func (m *AuthWizard) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *AuthWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.methods.SetSize(msg.Width-4, min(msg.Height-8, 12))
		m.area.SetWidth(msg.Width - 4)
		m.input.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.cancel) {
			m.err = shared.ErrCancelled
			return m, tea.Quit
		}

		switch m.step {
		case MethodStep:
			return m.handleMethodKeys(msg)
		case CurlStep, CookieStep:
			return m.handleAreaKeys(msg)
		case AuthorizationStep, AuthUserStep:
			return m.handleInputKeys(msg)
		case ConfirmStep:
			return m.handleConfirmKeys(msg)
		case DoneStep:
			return m, tea.Quit
		}

	case Msg:
		if msg.kind == MsgHeadersWritten {
			if err, _ := msg.data.(error); err != nil {
				m.err = fmt.Errorf("failed to save headers: %w", err)
			} else {
				m.done = true
				m.step = DoneStep
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *AuthWizard) handleMethodKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.err = shared.ErrCancelled
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		item, ok := m.methods.SelectedItem().(methodItem)
		if !ok {
			return m, nil
		}
		if item.method == MethodCurl {
			return m, m.toArea(CurlStep, "curl 'https://music.youtube.com/youtubei/v1/browse?...' -H ...")
		}
		return m, m.toArea(CookieStep, "Paste the Cookie header value (multiple lines are joined)")
	}

	var cmd tea.Cmd
	m.methods, cmd = m.methods.Update(msg)
	return m, cmd
}

func (m *AuthWizard) handleAreaKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.notice = nil
		m.area.Blur()
		m.step = MethodStep
		return m, nil
	case key.Matches(msg, m.keys.done):
		if m.step == CurlStep {
			return m.submitCurl()
		}
		return m.submitCookie()
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *AuthWizard) submitCurl() (tea.Model, tea.Cmd) {
	curl, err := shared.ParseCurlCommand(m.area.Value())
	if err != nil {
		m.notice = err
		return m, nil
	}
	headers, err := ytauth.FromCurl(curl)
	if err != nil {
		m.notice = err
		return m, nil
	}

	m.headers = headers
	m.toConfirm()
	return m, nil
}

// submitCookie joins the pasted cookie lines with single spaces.
func (m *AuthWizard) submitCookie() (tea.Model, tea.Cmd) {
	var parts []string
	for line := range strings.SplitSeq(m.area.Value(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		m.notice = fmt.Errorf("%w: cookie is required", shared.ErrMissingArgument)
		return m, nil
	}

	m.cookie = strings.Join(parts, " ")
	return m, m.toInput(AuthorizationStep, "", "SAPISIDHASH ... (optional, enter to skip)")
}

func (m *AuthWizard) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.notice = nil
		m.input.Blur()
		if m.step == AuthUserStep {
			return m, m.toInput(AuthorizationStep, m.authorization, "SAPISIDHASH ... (optional, enter to skip)")
		}
		m.area.SetValue(m.cookie)
		m.step = CookieStep
		return m, m.area.Focus()
	case key.Matches(msg, m.keys.enter):
		if m.step == AuthorizationStep {
			m.authorization = strings.TrimSpace(m.input.Value())
			return m, m.toInput(AuthUserStep, ytauth.DefaultAuthUser, ytauth.DefaultAuthUser)
		}

		headers, err := ytauth.FromHeaders(m.cookie, m.authorization, m.input.Value())
		if err != nil {
			m.notice = err
			return m, nil
		}
		m.headers = headers
		m.toConfirm()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AuthWizard) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.err = shared.ErrCancelled
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		return m, m.writeHeaders()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.headers = nil
		m.step = MethodStep
	}
	return m, nil
}

func (m *AuthWizard) writeHeaders() tea.Cmd {
	headers, write := m.headers, m.write
	return func() tea.Msg {
		if write == nil {
			return headersWrittenMsg(nil)
		}
		return headersWrittenMsg(write(headers))
	}
}

func (m *AuthWizard) toArea(step Step, placeholder string) tea.Cmd {
	m.notice = nil
	m.step = step
	m.area.Reset()
	m.area.Placeholder = placeholder
	return m.area.Focus()
}

func (m *AuthWizard) toInput(step Step, value, placeholder string) tea.Cmd {
	m.notice = nil
	m.step = step
	m.area.Blur()
	m.input.Reset()
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *AuthWizard) toConfirm() {
	m.notice = nil
	m.area.Blur()
	m.input.Blur()
	m.step = ConfirmStep
}

// View renders the current step.
func (m *AuthWizard) View() string {
	var body string
	switch m.step {
	case MethodStep:
		body = m.renderMethods()
	case CurlStep:
		body = m.renderArea("Paste a cURL command",
			"In DevTools, open a music.youtube.com request and use Copy as cURL (bash).")
	case CookieStep:
		body = m.renderArea("Cookie header",
			"Copy the Cookie request header from any authenticated music.youtube.com request.")
	case AuthorizationStep:
		body = m.renderInput("Authorization header", "Optional. Leave empty if the request had none.")
	case AuthUserStep:
		body = m.renderInput("X-Goog-AuthUser header", "Usually 0 unless you are signed in to several accounts.")
	case ConfirmStep:
		body = m.renderConfirm()
	case DoneStep:
		body = styles.ok.Render("✓ Headers saved")
	}

	if m.err != nil && m.err != shared.ErrCancelled {
		body += "\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return body + "\n"
}

func (m *AuthWizard) renderMethods() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.methods.View(), helpView)
}

func (m *AuthWizard) renderArea(title, hint string) string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.done, m.keys.back, m.keys.cancel})
	return fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s",
		styles.title.Render(title), styles.help.Render(hint), m.area.View(), m.renderNotice(), helpView)
}

func (m *AuthWizard) renderInput(title, hint string) string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.cancel})
	return fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s",
		styles.title.Render(title), styles.help.Render(hint), m.input.View(), m.renderNotice(), helpView)
}

func (m *AuthWizard) renderConfirm() string {
	title := styles.title.Render("Save these headers?")

	var b strings.Builder
	for _, name := range []string{"cookie", "authorization", "x-goog-authuser", "x-origin"} {
		value, ok := m.headers[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-16s %s\n", name+":", truncate(value, 48))
	}
	fmt.Fprintf(&b, "\n%d headers total", len(m.headers))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, b.String(), helpView)
}

func (m *AuthWizard) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	return "\n" + styles.warn.Render(m.notice.Error())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunAuthWizard runs the wizard on the terminal and writes the confirmed headers to path.
func RunAuthWizard(ctx context.Context, path string, opts ...tea.ProgramOption) (ytauth.Headers, error) {
	wizard := NewAuthWizard(func(h ytauth.Headers) error {
		return ytauth.Write(path, h)
	})

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(wizard, opts...).Run(); err != nil {
		return nil, fmt.Errorf("auth wizard failed: %w", err)
	}
	return wizard.Result()
}
