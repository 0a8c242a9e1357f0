// Package tui provides the interactive terminal dashboard for grind:
// a task table with keyboard-driven timer control and a live status
// bar for the running timer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/stats"
	"github.com/xolan/grind/internal/timeutil"
	"github.com/xolan/grind/internal/tracker"
)

// KeyMap defines the dashboard key bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Switch   key.Binding
	Complete key.Binding
	Delete   key.Binding
	ShowAll  key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default dashboard key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "navigate")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/stop")),
		Switch:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "switch")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ShowAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show completed")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Styles holds the lipgloss styles for the dashboard
type Styles struct {
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Running   lipgloss.Style
	Notice    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default dashboard styles
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Padding(0, 1),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Help:      lipgloss.NewStyle().Faint(true).Padding(0, 1),
	}
}

// tickMsg drives the elapsed-time display
type tickMsg time.Time

// refreshMsg carries freshly loaded ledger state
type refreshMsg struct {
	tasks  []ledger.Task
	status *tracker.Status
	today  int64
	err    error
}

// actionMsg reports the outcome of a timer or task action
type actionMsg struct {
	notice string
	err    error
}

// Model is the dashboard model
type Model struct {
	store   *ledger.Store
	tracker *tracker.Tracker
	engine  *stats.Engine

	table  table.Model
	keys   KeyMap
	styles Styles

	tasks         []ledger.Task
	status        *tracker.Status
	todaySeconds  int64
	showCompleted bool
	confirmDelete int64
	notice        string
	err           error
	width         int
	height        int
}

// New creates a dashboard model over the given store
func New(store *ledger.Store) Model {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "STATUS", Width: 12},
		{Title: "TASK", Width: 40},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	return Model{
		store:   store,
		tracker: tracker.New(store),
		engine:  stats.New(store),
		table:   t,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh loads tasks, timer state, and today's total
func (m Model) refresh() tea.Cmd {
	store, tr, engine := m.store, m.tracker, m.engine
	showCompleted := m.showCompleted
	return func() tea.Msg {
		ctx := context.Background()

		tasks, err := store.ListTasks(ctx, ledger.TaskFilter{})
		if err != nil {
			return refreshMsg{err: err}
		}
		if !showCompleted {
			open := tasks[:0]
			for _, task := range tasks {
				if task.Status != ledger.StatusCompleted {
					open = append(open, task)
				}
			}
			tasks = open
		}

		status, err := tr.Status(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}

		now := time.Now()
		today, err := engine.DurationInRange(ctx, timeutil.StartOfDay(now), timeutil.EndOfDay(now))
		if err != nil {
			return refreshMsg{err: err}
		}

		return refreshMsg{tasks: tasks, status: status, today: today}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m.toggleSelected()
		case key.Matches(msg, m.keys.Switch):
			return m.switchSelected()
		case key.Matches(msg, m.keys.Complete):
			return m.completeSelected()
		case key.Matches(msg, m.keys.Delete):
			return m.deleteSelected()
		case key.Matches(msg, m.keys.ShowAll):
			m.showCompleted = !m.showCompleted
			return m, m.refresh()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(maxInt(3, m.height-6))
		return m, nil

	case tickMsg:
		return m, tick()

	case refreshMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		m.status = msg.status
		m.todaySeconds = msg.today
		m.table.SetRows(m.rows())
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.notice
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// rows converts the loaded tasks into table rows
func (m Model) rows() []table.Row {
	rows := make([]table.Row, len(m.tasks))
	for i, task := range m.tasks {
		name := task.Name
		if m.status != nil && m.status.Record != nil && m.status.Record.TaskID == task.ID {
			name = "* " + name
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", task.ID),
			task.Status.Label(),
			name,
		}
	}
	return rows
}

// selectedTask returns the task under the cursor
func (m Model) selectedTask() (ledger.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return ledger.Task{}, false
	}
	return m.tasks[i], true
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	m.confirmDelete = 0
	tr := m.tracker
	return m, func() tea.Msg {
		action, _, err := tr.Toggle(context.Background(), task.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		if action == tracker.ToggleStarted {
			return actionMsg{notice: "Started: " + task.Name}
		}
		return actionMsg{notice: "Stopped: " + task.Name}
	}
}

func (m Model) switchSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	m.confirmDelete = 0
	tr := m.tracker
	return m, func() tea.Msg {
		if _, err := tr.Start(context.Background(), task.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: "Switched to: " + task.Name}
	}
}

func (m Model) completeSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	m.confirmDelete = 0
	tr := m.tracker
	return m, func() tea.Msg {
		if err := tr.Complete(context.Background(), task.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: "Completed: " + task.Name}
	}
}

// deleteSelected requires a second press on the same task before it
// deletes anything.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if m.confirmDelete != task.ID {
		m.confirmDelete = task.ID
		m.notice = fmt.Sprintf("Press d again to delete %q", task.Name)
		return m, nil
	}
	m.confirmDelete = 0
	tr := m.tracker
	return m, func() tea.Msg {
		if err := tr.Delete(context.Background(), task.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: "Deleted: " + task.Name}
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("grind"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("space start/stop  s switch  c complete  d delete  a show completed  r refresh  q quit"))

	return b.String()
}

// statusLine renders the running timer and today's total
func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.StatusBar.Render(m.styles.Error.Render("Error: " + m.err.Error()))
	}

	total := m.todaySeconds
	timer := "No timer running"
	if m.status != nil && m.status.Running {
		elapsed := int64(time.Since(m.status.Record.StartTime).Seconds())
		total += elapsed
		timer = m.styles.Running.Render(
			fmt.Sprintf("Tracking %s  %s", m.status.Record.TaskName, formatClock(elapsed)))
	}

	line := fmt.Sprintf("%s  |  Today: %s", timer, formatClock(total))
	if m.notice != "" {
		line += "  |  " + m.styles.Notice.Render(m.notice)
	}
	return m.styles.StatusBar.Render(line)
}

// formatClock renders seconds as h:mm:ss
func formatClock(total int64) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the dashboard
func Run(store *ledger.Store) error {
	p := tea.NewProgram(New(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
