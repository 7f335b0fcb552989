package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/secrets"
)

func testApp(t *testing.T, p auth.Provider, resumed *auth.Session) (App, string) {
	t.Helper()
	repo, _ := testTaskRepo(t)
	sessionPath := filepath.Join(t.TempDir(), "session.bin")
	cfg := config.Config{Session: config.SessionConfig{Persist: true}}
	return New(context.Background(), cfg, p, repo, sessionPath, resumed), sessionPath
}

func pressApp(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	next, _ := a.Update(msg)
	got, ok := next.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", next)
	}
	return got
}

func drainAppCmd(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		if i >= 32 {
			t.Fatal("command chain exceeded max depth")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case authDoneMsg, sessionSavedMsg, signOutRequestedMsg, signedOutMsg,
			tasksLoadedMsg, taskMutatedMsg, statusMsg:
			next, nextCmd := a.Update(msg)
			got, ok := next.(App)
			if !ok {
				t.Fatalf("Update returned %T, want App", next)
			}
			a = got
			queue = append(queue, nextCmd)
		}
	}
	return a
}

// ---------------------------------------------------------------------------
// Routing
// ---------------------------------------------------------------------------

func TestAppStartsOnAuthScreen(t *testing.T) {
	a, _ := testApp(t, &fakeProvider{}, nil)
	if a.screen != screenAuth {
		t.Fatal("fresh app should show the auth screen")
	}
	if !strings.Contains(a.View(), "Welcome back") {
		t.Error("view should render the sign-in form")
	}
}

func TestAppResumesSession(t *testing.T) {
	s := auth.Session{Token: "tok", UserID: "u1", Email: "ada@example.com"}
	a, _ := testApp(t, &fakeProvider{}, &s)
	if a.screen != screenTasks {
		t.Fatal("resumed app should skip the auth screen")
	}
	if a.session != s {
		t.Errorf("session = %+v", a.session)
	}
	if !strings.Contains(a.View(), "ada@example.com") {
		t.Error("header should show the signed-in account")
	}
}

func TestAppSignInFlow(t *testing.T) {
	p := &fakeProvider{session: auth.Session{Token: "tok", UserID: "u1", Email: "ada@example.com"}}
	a, sessionPath := testApp(t, p, nil)

	a = pressApp(t, a, keyMsg("ada@example.com"))
	a = pressApp(t, a, tabKey)
	a = pressApp(t, a, keyMsg("secret1"))
	next, cmd := a.Update(enterKey)
	a = drainAppCmd(t, next.(App), cmd)

	if a.screen != screenTasks {
		t.Fatal("successful sign-in should land on the tasks screen")
	}
	if a.session.Token != "tok" {
		t.Errorf("session = %+v", a.session)
	}
	if !strings.Contains(a.status, "Signed in as ada@example.com") {
		t.Errorf("status = %q", a.status)
	}

	cached, err := secrets.LoadSession(sessionPath)
	if err != nil {
		t.Fatalf("session should be cached after sign-in: %v", err)
	}
	if cached.Token != "tok" {
		t.Errorf("cached session = %+v", cached)
	}
}

func TestAppSignInFailureStaysOnAuth(t *testing.T) {
	p := &fakeProvider{err: auth.NewError("Invalid credentials")}
	a, sessionPath := testApp(t, p, nil)

	a = pressApp(t, a, keyMsg("ada@example.com"))
	a = pressApp(t, a, tabKey)
	a = pressApp(t, a, keyMsg("secret1"))
	next, cmd := a.Update(enterKey)
	a = drainAppCmd(t, next.(App), cmd)

	if a.screen != screenAuth {
		t.Fatal("failed sign-in must stay on the auth screen")
	}
	if !strings.Contains(a.View(), "Invalid credentials") {
		t.Error("view should show the provider error")
	}
	if _, err := secrets.LoadSession(sessionPath); !errors.Is(err, secrets.ErrNoSession) {
		t.Error("no session should be cached on failure")
	}
}

func TestAppSessionNotPersistedWhenDisabled(t *testing.T) {
	p := &fakeProvider{session: auth.Session{Token: "tok", UserID: "u1", Email: "ada@example.com"}}
	repo, _ := testTaskRepo(t)
	sessionPath := filepath.Join(t.TempDir(), "session.bin")
	cfg := config.Config{Session: config.SessionConfig{Persist: false}}
	a := New(context.Background(), cfg, p, repo, sessionPath, nil)

	a = pressApp(t, a, keyMsg("ada@example.com"))
	a = pressApp(t, a, tabKey)
	a = pressApp(t, a, keyMsg("secret1"))
	next, cmd := a.Update(enterKey)
	a = drainAppCmd(t, next.(App), cmd)

	if a.screen != screenTasks {
		t.Fatal("sign-in should still complete")
	}
	if _, err := secrets.LoadSession(sessionPath); !errors.Is(err, secrets.ErrNoSession) {
		t.Error("persistence disabled: nothing should be written")
	}
}

func TestAppSignOut(t *testing.T) {
	s := auth.Session{Token: "tok", UserID: "u1", Email: "ada@example.com"}
	a, sessionPath := testApp(t, &fakeProvider{}, &s)
	if err := secrets.SaveSession(sessionPath, s); err != nil {
		t.Fatalf("seed session cache: %v", err)
	}

	next, cmd := a.Update(keyMsg("s"))
	a = drainAppCmd(t, next.(App), cmd)

	if a.screen != screenAuth {
		t.Fatal("sign-out should return to the auth screen")
	}
	if a.session != (auth.Session{}) {
		t.Error("session should be cleared")
	}
	if a.authForm.email.Value() != "" || a.authForm.password.Value() != "" {
		t.Error("auth form must come back empty")
	}
	if _, err := secrets.LoadSession(sessionPath); !errors.Is(err, secrets.ErrNoSession) {
		t.Error("session cache should be cleared")
	}
	if !strings.Contains(a.status, "Signed out") {
		t.Errorf("status = %q", a.status)
	}
}

func TestAppCtrlCQuits(t *testing.T) {
	a, _ := testApp(t, &fakeProvider{}, nil)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("cmd produced %T, want tea.QuitMsg", cmd())
	}
}

func TestAppWindowSizeStored(t *testing.T) {
	a, _ := testApp(t, &fakeProvider{}, nil)
	a = pressApp(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})
	if a.width != 100 || a.height != 40 {
		t.Errorf("size = %dx%d", a.width, a.height)
	}
}
