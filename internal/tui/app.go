package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/database/repository"
	"github.com/taskdeck/taskdeck/internal/secrets"
)

const appName = "TaskDeck"

type screen int

const (
	screenAuth screen = iota
	screenTasks
)

// App ties together screens. The auth screen owns the form; App owns what
// happens after: session persistence and routing to the task list.
type App struct {
	ctx         context.Context
	cfg         config.Config
	provider    auth.Provider
	taskRepo    *repository.TaskRepo
	sessionPath string

	screen   screen
	authForm authModel
	taskList tasksModel
	session  auth.Session
	status   string
	width    int
	height   int
}

// New builds the app. A non-nil resumed session skips the auth screen.
func New(ctx context.Context, cfg config.Config, provider auth.Provider, taskRepo *repository.TaskRepo, sessionPath string, resumed *auth.Session) App {
	a := App{
		ctx:         ctx,
		cfg:         cfg,
		provider:    provider,
		taskRepo:    taskRepo,
		sessionPath: sessionPath,
		screen:      screenAuth,
		authForm:    newAuthModel(provider),
	}
	if resumed != nil {
		a.screen = screenTasks
		a.session = *resumed
		a.taskList = newTasksModel(ctx, taskRepo, *resumed)
		a.status = "Welcome back, " + resumed.Email
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.screen == screenTasks {
		return a.taskList.Init()
	}
	return a.authForm.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == screenAuth && key.Matches(msg, a.authForm.keys.Quit) {
			return a, tea.Quit
		}
		return a.route(msg)

	case authDoneMsg:
		var cmd tea.Cmd
		a.authForm, cmd = a.authForm.Update(msg)
		if msg.err != nil {
			return a, cmd
		}
		a.session = msg.session
		a.taskList = newTasksModel(a.ctx, a.taskRepo, a.session)
		a.screen = screenTasks
		a.status = "Signed in as " + a.session.Email
		return a, tea.Batch(cmd, a.taskList.Init(), a.saveSessionCmd())

	case sessionSavedMsg:
		if msg.err != nil {
			a.status = "session not saved: " + msg.err.Error()
		}
		return a, nil

	case signOutRequestedMsg:
		return a, a.clearSessionCmd()

	case signedOutMsg:
		// the form comes back empty, never pre-filled
		a.session = auth.Session{}
		a.authForm = newAuthModel(a.provider)
		a.screen = screenAuth
		a.status = "Signed out"
		if msg.err != nil {
			a.status = "signed out, cache not cleared: " + msg.err.Error()
		}
		return a, a.authForm.Init()

	case statusMsg:
		a.status = string(msg)
		return a, nil
	}

	return a.route(msg)
}

func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenTasks:
		a.taskList, cmd = a.taskList.Update(msg)
	default:
		a.authForm, cmd = a.authForm.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	meta := "sign in to continue"
	if a.screen == screenTasks {
		meta = a.session.Email
	}
	header := renderHeader(appName, meta, a.width)

	var body string
	var bindings []key.Binding
	switch a.screen {
	case screenTasks:
		body = a.taskList.View()
		bindings = a.taskList.keys.ShortHelp()
	default:
		body = centerIn(a.authForm.View(), a.width)
		bindings = a.authForm.keys.ShortHelp()
	}

	statusLine := renderStatus(a.status, a.width)
	footer := renderFooter(bindings, a.width)
	return placeWithChrome(header, body, statusLine, footer, a.width, a.height)
}

// ---------------------------------------------------------------------------
// Session persistence commands
// ---------------------------------------------------------------------------

func (a App) saveSessionCmd() tea.Cmd {
	if !a.cfg.Session.Persist || a.sessionPath == "" {
		return nil
	}
	path, s := a.sessionPath, a.session
	return func() tea.Msg {
		return sessionSavedMsg{err: secrets.SaveSession(path, s)}
	}
}

func (a App) clearSessionCmd() tea.Cmd {
	path := a.sessionPath
	return func() tea.Msg {
		if path == "" {
			return signedOutMsg{}
		}
		return signedOutMsg{err: secrets.ClearSession(path)}
	}
}
