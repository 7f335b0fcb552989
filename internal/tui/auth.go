package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/auth"
)

// ---------------------------------------------------------------------------
// Auth screen: sign-in / sign-up form
// ---------------------------------------------------------------------------

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldSubmit
	fieldToggle
	authFieldCount
)

// authModel holds the form state: two inputs, the mode flag, one in-flight
// flag, and one error line. Discarded wholesale on sign-out.
type authModel struct {
	provider auth.Provider
	keys     authKeyMap

	mode     authMode
	email    textinput.Model
	password textinput.Model
	focus    authField
	loading  bool
	errText  string
	spin     spinner.Model
}

func newAuthModel(provider auth.Provider) authModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.Width = 32
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorAccent)))

	return authModel{
		provider: provider,
		keys:     newAuthKeyMap(),
		mode:     modeSignIn,
		email:    email,
		password: password,
		focus:    fieldEmail,
		spin:     spin,
	}
}

func (m authModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.SwitchMode):
			// allowed mid-flight; an outstanding call still lands
			return m.toggleMode(), nil
		case key.Matches(msg, m.keys.NextField):
			return m.moveFocus(1), nil
		case key.Matches(msg, m.keys.PrevField):
			return m.moveFocus(-1), nil
		case key.Matches(msg, m.keys.Activate):
			return m.activate()
		}
		return m.updateInputs(msg)

	case authDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = auth.Message(msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// activate runs the enter action for whichever control has focus.
func (m authModel) activate() (authModel, tea.Cmd) {
	switch m.focus {
	case fieldEmail:
		return m.moveFocus(1), nil
	case fieldPassword:
		// direct submit path: skips the button gate, submit validates itself
		return m.submit()
	case fieldSubmit:
		if !m.canSubmit() {
			return m, nil
		}
		return m.submit()
	case fieldToggle:
		return m.toggleMode(), nil
	}
	return m, nil
}

// canSubmit drives the button state only; submit re-validates independently,
// so whitespace-only values pass here but still reach the provider unchanged.
func (m authModel) canSubmit() bool {
	return !m.loading && m.email.Value() != "" && len(m.password.Value()) >= 6
}

// submit validates the form and fires the provider call. Exactly one call may
// be in flight; while it is, further submits are no-ops.
func (m authModel) submit() (authModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	email, password := m.email.Value(), m.password.Value()
	if email == "" || password == "" {
		m.errText = "Please fill in all fields"
		return m, nil
	}
	if len(password) < 6 {
		m.errText = "Password must be at least 6 characters"
		return m, nil
	}
	m.loading = true
	m.errText = ""
	return m, tea.Batch(m.authCmd(m.mode, email, password), m.spin.Tick)
}

func (m authModel) authCmd(mode authMode, email, password string) tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		// no cancellation: once submitted the call runs to completion
		ctx := context.Background()
		var s auth.Session
		var err error
		if mode == modeSignUp {
			s, err = provider.SignUp(ctx, email, password)
		} else {
			s, err = provider.SignIn(ctx, email, password)
		}
		return authDoneMsg{session: s, err: err}
	}
}

// toggleMode flips sign-in/sign-up and resets the form fields and error.
// The in-flight flag is left alone.
func (m authModel) toggleMode() authModel {
	if m.mode == modeSignIn {
		m.mode = modeSignUp
	} else {
		m.mode = modeSignIn
	}
	m.email.SetValue("")
	m.password.SetValue("")
	m.errText = ""
	return m
}

func (m authModel) moveFocus(delta int) authModel {
	m.focus = authField((int(m.focus) + delta + int(authFieldCount)) % int(authFieldCount))
	return m.syncFocus()
}

func (m authModel) syncFocus() authModel {
	m.email.Blur()
	m.password.Blur()
	switch m.focus {
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
	return m
}

func (m authModel) updateInputs(msg tea.Msg) (authModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m authModel) View() string {
	title := "Welcome back"
	submitLabel := "Sign In"
	toggleLabel := "Don't have an account? Sign Up"
	if m.mode == modeSignUp {
		title = "Create account"
		submitLabel = "Sign Up"
		toggleLabel = "Already have an account? Sign In"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("Email", fieldEmail))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderLabel("Password", fieldPassword))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(errorBannerStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderButton(submitLabel))
	b.WriteString("\n\n")

	toggle := linkStyle.Render(toggleLabel)
	if m.focus == fieldToggle {
		toggle = linkFocusedStyle.Render(toggleLabel)
	}
	b.WriteString(toggle)

	return cardStyle.Render(b.String())
}

func (m authModel) renderLabel(text string, f authField) string {
	if m.focus == f {
		return labelFocusedStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m authModel) renderButton(label string) string {
	if m.loading {
		verb := "Signing in"
		if m.mode == modeSignUp {
			verb = "Signing up"
		}
		return buttonDisabledStyle.Render(m.spin.View() + " " + verb + "...")
	}
	if !m.canSubmit() {
		return buttonDisabledStyle.Render(label)
	}
	if m.focus == fieldSubmit {
		return buttonFocusedStyle.Render(label)
	}
	return buttonStyle.Render(label)
}
