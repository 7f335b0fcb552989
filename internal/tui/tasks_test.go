package tui

import (
	"context"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/database"
	"github.com/taskdeck/taskdeck/internal/database/repository"
)

func testTaskRepo(t *testing.T) (*repository.TaskRepo, auth.Session) {
	t.Helper()
	f, err := os.CreateTemp("", "taskdeck-tui-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := database.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("database.Open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("database.Migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
	})

	ctx := context.Background()
	user := repository.User{ID: "u1", Email: "ada@example.com", PasswordHash: "x"}
	if err := repository.NewUserRepo(db).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	session := auth.Session{Token: "tok", UserID: user.ID, Email: user.Email}
	return repository.NewTaskRepo(db), session
}

func drainTasksCmd(t *testing.T, m tasksModel, cmd tea.Cmd) tasksModel {
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
		case tasksLoadedMsg, taskMutatedMsg:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	return m
}

func pressTasks(m tasksModel, msg tea.Msg) tasksModel {
	next, _ := m.Update(msg)
	return next
}

// ---------------------------------------------------------------------------
// Flows
// ---------------------------------------------------------------------------

func TestTasksAddToggleDelete(t *testing.T) {
	repo, session := testTaskRepo(t)
	m := newTasksModel(context.Background(), repo, session)
	m = drainTasksCmd(t, m, m.Init())
	if len(m.visible) != 0 {
		t.Fatalf("expected empty list, got %d", len(m.visible))
	}

	// add
	m = pressTasks(m, keyMsg("a"))
	if m.mode != taskModeAdd {
		t.Fatal("a should open the add input")
	}
	m = pressTasks(m, keyMsg("buy milk"))
	next, cmd := m.Update(enterKey)
	m = drainTasksCmd(t, next, cmd)
	if m.mode != taskModeList {
		t.Error("enter should return to list mode")
	}
	if len(m.visible) != 1 || m.visible[0].Title != "buy milk" {
		t.Fatalf("visible = %+v, want the new task", m.visible)
	}
	if m.visible[0].Done {
		t.Error("new task should start not done")
	}

	// toggle
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = drainTasksCmd(t, next, cmd)
	if len(m.visible) != 1 || !m.visible[0].Done {
		t.Fatalf("task should be done after toggle, got %+v", m.visible)
	}

	// delete
	next, cmd = m.Update(keyMsg("d"))
	m = drainTasksCmd(t, next, cmd)
	if len(m.visible) != 0 {
		t.Fatalf("task should be gone, got %+v", m.visible)
	}
}

func TestTasksAddIgnoresBlankTitle(t *testing.T) {
	repo, session := testTaskRepo(t)
	m := newTasksModel(context.Background(), repo, session)
	m = drainTasksCmd(t, m, m.Init())

	m = pressTasks(m, keyMsg("a"))
	m = pressTasks(m, keyMsg("   "))
	next, cmd := m.Update(enterKey)
	m = drainTasksCmd(t, next, cmd)

	if len(m.visible) != 0 {
		t.Fatalf("blank title should not create a task, got %+v", m.visible)
	}
	if m.mode != taskModeList {
		t.Error("should still return to list mode")
	}
}

func TestTasksAddEscCancels(t *testing.T) {
	repo, session := testTaskRepo(t)
	m := newTasksModel(context.Background(), repo, session)
	m = drainTasksCmd(t, m, m.Init())

	m = pressTasks(m, keyMsg("a"))
	m = pressTasks(m, keyMsg("half typed"))
	m = pressTasks(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != taskModeList {
		t.Error("esc should cancel the add input")
	}
	if len(m.visible) != 0 {
		t.Error("cancelled add must not create a task")
	}
}

func TestTasksFilterFlow(t *testing.T) {
	repo, session := testTaskRepo(t)
	ctx := context.Background()
	for _, title := range []string{"buy milk", "call dentist", "pay rent"} {
		task := repository.Task{ID: "t-" + title, UserID: session.UserID, Title: title}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	m := newTasksModel(ctx, repo, session)
	m = drainTasksCmd(t, m, m.Init())
	if len(m.visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(m.visible))
	}

	m = pressTasks(m, keyMsg("/"))
	if m.mode != taskModeFilter {
		t.Fatal("/ should open the filter input")
	}
	m = pressTasks(m, keyMsg("milk"))
	if len(m.visible) != 1 || m.visible[0].Title != "buy milk" {
		t.Fatalf("visible = %+v, want only the milk task", m.visible)
	}

	// enter keeps the filter, esc clears it
	m = pressTasks(m, enterKey)
	if m.mode != taskModeList || len(m.visible) != 1 {
		t.Error("enter should keep the filter applied")
	}
	m = pressTasks(m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visible) != 3 {
		t.Errorf("esc should clear the filter, visible = %d", len(m.visible))
	}
}

func TestTasksCursorClampedByFilter(t *testing.T) {
	repo, session := testTaskRepo(t)
	ctx := context.Background()
	for _, title := range []string{"alpha", "beta", "gamma"} {
		task := repository.Task{ID: "t-" + title, UserID: session.UserID, Title: title}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	m := newTasksModel(ctx, repo, session)
	m = drainTasksCmd(t, m, m.Init())
	m = pressTasks(m, keyMsg("j"))
	m = pressTasks(m, keyMsg("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}

	m = pressTasks(m, keyMsg("/"))
	m = pressTasks(m, keyMsg("alpha"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestTasksSignOutKey(t *testing.T) {
	repo, session := testTaskRepo(t)
	m := newTasksModel(context.Background(), repo, session)
	m = drainTasksCmd(t, m, m.Init())

	_, cmd := m.Update(keyMsg("s"))
	if cmd == nil {
		t.Fatal("s should request sign-out")
	}
	if _, ok := cmd().(signOutRequestedMsg); !ok {
		t.Fatalf("cmd produced %T, want signOutRequestedMsg", cmd())
	}
}

func TestTasksQuitKey(t *testing.T) {
	repo, session := testTaskRepo(t)
	m := newTasksModel(context.Background(), repo, session)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit from list mode")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("cmd produced %T, want tea.QuitMsg", cmd())
	}

	// but q types into the add input
	m = pressTasks(m, keyMsg("a"))
	m = pressTasks(m, keyMsg("q"))
	if m.input.Value() != "q" {
		t.Errorf("input = %q, want the letter q", m.input.Value())
	}
}

// ---------------------------------------------------------------------------
// Fuzzy filter
// ---------------------------------------------------------------------------

func TestFilterTasks(t *testing.T) {
	tasks := []repository.Task{
		{ID: "1", Title: "buy milk"},
		{ID: "2", Title: "call dentist"},
		{ID: "3", Title: "pay rent"},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query returns all", "", []string{"1", "2", "3"}},
		{"substring match", "milk", []string{"1"}},
		{"case folded", "MILK", []string{"1"}},
		{"one typo", "dentst", []string{"2"}},
		{"transposition", "mikl", []string{"1"}},
		{"no match", "zzzzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterTasks(tasks, tt.query)
			var ids []string
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestFilterTasksRanksExactFirst(t *testing.T) {
	tasks := []repository.Task{
		{ID: "fuzzy", Title: "milks and more"},
		{ID: "exact", Title: "milk"},
	}
	got := filterTasks(tasks, "milk")
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
	// both contain the query, original order preserved by stable sort
	if got[0].ID != "fuzzy" || got[1].ID != "exact" {
		t.Fatalf("order = [%s %s]", got[0].ID, got[1].ID)
	}

	typo := filterTasks([]repository.Task{
		{ID: "far", Title: "malk"},
		{ID: "near", Title: "milk"},
	}, "milk")
	if typo[0].ID != "near" {
		t.Fatalf("nearest match should rank first, got %s", typo[0].ID)
	}
}
