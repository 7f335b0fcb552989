package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/database/repository"
)

// ---------------------------------------------------------------------------
// Tasks screen
// ---------------------------------------------------------------------------

type taskScreenMode int

const (
	taskModeList taskScreenMode = iota
	taskModeAdd
	taskModeFilter
)

// fuzzyMaxDistance is the largest per-word edit distance still shown.
const fuzzyMaxDistance = 2

type tasksModel struct {
	ctx     context.Context
	repo    *repository.TaskRepo
	session auth.Session
	keys    taskKeyMap

	mode    taskScreenMode
	tasks   []repository.Task
	visible []repository.Task
	cursor  int
	input   textinput.Model
	filter  textinput.Model
}

func newTasksModel(ctx context.Context, repo *repository.TaskRepo, session auth.Session) tasksModel {
	input := textinput.New()
	input.Placeholder = "what needs doing?"
	input.Prompt = "> "
	input.CharLimit = 200

	filter := textinput.New()
	filter.Placeholder = "filter tasks"
	filter.Prompt = "/ "
	filter.CharLimit = 80

	return tasksModel{
		ctx:     ctx,
		repo:    repo,
		session: session,
		keys:    newTaskKeyMap(),
		input:   input,
		filter:  filter,
	}
}

func (m tasksModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			return m, statusCmd("error: " + msg.err.Error())
		}
		m.tasks = msg.tasks
		m = m.refreshVisible()
		return m, nil

	case taskMutatedMsg:
		if msg.err != nil {
			return m, tea.Batch(statusCmd("error: "+msg.err.Error()), m.loadCmd())
		}
		return m, m.loadCmd()

	case tea.KeyMsg:
		switch m.mode {
		case taskModeAdd:
			return m.updateAdd(msg)
		case taskModeFilter:
			return m.updateFilter(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.UpDown):
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = taskModeAdd
		m.input.SetValue("")
		m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.current(); ok {
			return m, m.setDoneCmd(t.ID, !t.Done)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.current(); ok {
			return m, m.deleteCmd(t.ID)
		}
	case key.Matches(msg, m.keys.Filter):
		m.mode = taskModeFilter
		m.filter.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.filter.SetValue("")
		m = m.refreshVisible()
	case key.Matches(msg, m.keys.SignOut):
		return m, func() tea.Msg { return signOutRequestedMsg{} }
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m tasksModel) updateAdd(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = taskModeList
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		m.mode = taskModeList
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		return m, m.addCmd(title)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tasksModel) updateFilter(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = taskModeList
		m.filter.SetValue("")
		m.filter.Blur()
		m = m.refreshVisible()
		return m, nil
	case tea.KeyEnter:
		m.mode = taskModeList
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m = m.refreshVisible()
	return m, cmd
}

func (m tasksModel) current() (repository.Task, bool) {
	if len(m.visible) == 0 || m.cursor < 0 || m.cursor >= len(m.visible) {
		return repository.Task{}, false
	}
	return m.visible[m.cursor], true
}

// refreshVisible applies the fuzzy filter and clamps the cursor.
func (m tasksModel) refreshVisible() tasksModel {
	m.visible = filterTasks(m.tasks, m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// filterTasks keeps tasks whose title contains the query or has a word within
// edit distance fuzzyMaxDistance of it, nearest matches first.
func filterTasks(tasks []repository.Task, query string) []repository.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}
	type scored struct {
		task  repository.Task
		score int
	}
	var hits []scored
	for _, t := range tasks {
		s, ok := matchScore(q, t.Title)
		if !ok {
			continue
		}
		hits = append(hits, scored{task: t, score: s})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })
	out := make([]repository.Task, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.task)
	}
	return out
}

func matchScore(query, title string) (int, bool) {
	t := strings.ToLower(title)
	if strings.Contains(t, query) {
		return 0, true
	}
	best := -1
	for _, w := range strings.Fields(t) {
		d := levenshtein.ComputeDistance(query, w)
		if best == -1 || d < best {
			best = d
		}
	}
	if best >= 1 && best <= fuzzyMaxDistance {
		return best, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (m tasksModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.repo.ListByUser(m.ctx, m.session.UserID)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m tasksModel) addCmd(title string) tea.Cmd {
	t := repository.Task{ID: uuid.NewString(), UserID: m.session.UserID, Title: title}
	return func() tea.Msg {
		return taskMutatedMsg{err: m.repo.Create(m.ctx, t)}
	}
}

func (m tasksModel) setDoneCmd(id string, done bool) tea.Cmd {
	return func() tea.Msg {
		return taskMutatedMsg{err: m.repo.SetDone(m.ctx, id, done)}
	}
}

func (m tasksModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return taskMutatedMsg{err: m.repo.Delete(m.ctx, id)}
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg(text) }
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m tasksModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if m.mode == taskModeFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		if m.filter.Value() != "" {
			b.WriteString(hintStyle.Render("No tasks match the filter."))
		} else {
			b.WriteString(hintStyle.Render("No tasks yet. Press a to add one."))
		}
		b.WriteString("\n")
	} else {
		done := 0
		for _, t := range m.visible {
			if t.Done {
				done++
			}
		}
		for i, t := range m.visible {
			marker := "  "
			if i == m.cursor {
				marker = cursorStyle.Render("> ")
			}
			box := "[ ]"
			line := taskStyle.Render(t.Title)
			if t.Done {
				box = "[x]"
				line = taskDoneStyle.Render(t.Title)
			}
			b.WriteString(fmt.Sprintf("%s%s %s\n", marker, box, line))
		}
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("%d/%d done", done, len(m.visible))))
		b.WriteString("\n")
	}

	if m.mode == taskModeAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	return b.String()
}
