package tui

import (
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/database/repository"
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

// authDoneMsg carries the provider result for one submit.
type authDoneMsg struct {
	session auth.Session
	err     error
}

type sessionSavedMsg struct {
	err error
}

type signOutRequestedMsg struct{}

type signedOutMsg struct {
	err error
}

type tasksLoadedMsg struct {
	tasks []repository.Task
	err   error
}

type taskMutatedMsg struct {
	err error
}

type statusMsg string
