package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/services"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/desertthunder/brain/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GoalListView ViewState = iota
	GoalDetailView
)

const toastDuration = 5 * time.Second

type toast struct {
	level   tasks.ToastLevel
	message string
	seq     int
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	service  services.GoalService
	notifier shared.Notifier
	events   <-chan tasks.Reminder
	logger   *log.Logger
	width    int
	height   int
	list     list.Model
	goals    []models.Goal
	types    []models.GoalType
	order    models.SortOrder
	selected *models.Goal
	toast    toast
	help     help.Model
	keys     keyMap
}

// Options configures a [Model]. Notifier, Events and Logger are optional.
type Options struct {
	Notifier shared.Notifier
	Events   <-chan tasks.Reminder
	Logger   *log.Logger
	Order    models.SortOrder
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, service services.GoalService, opts Options) *Model {
	if opts.Order == "" {
		opts.Order = models.SortPriorityDesc
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = listTitle(opts.Order, 0)
	l.Filter = substringFilter
	l.SetShowHelp(false)

	return &Model{
		ctx:      ctx,
		view:     GoalListView,
		service:  service,
		notifier: opts.Notifier,
		events:   opts.Events,
		logger:   opts.Logger,
		list:     l,
		order:    opts.Order,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init fetches goals and starts listening for reminders.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchGoals(), m.waitForReminder())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GoalListView:
			return m.handleListKeys(msg)
		case GoalDetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgGoalsFetched:
		data := msg.data.(goalsFetched)
		if data.err != nil {
			m.logger.Error("failed to fetch goals", "error", data.err)
			return m, m.showToast(tasks.ToastError, fmt.Sprintf("Failed to load goals: %v", data.err))
		}
		m.goals = data.goals
		if data.types != nil {
			m.types = data.types
		}
		return m, m.refreshItems()

	case MsgGoalUpdated:
		data := msg.data.(goalUpdated)
		if data.err != nil {
			m.logger.Error("failed to update goal", "error", data.err)
			return m, m.showToast(tasks.ToastError, fmt.Sprintf("Failed to update goal: %v", data.err))
		}
		m.replaceGoal(*data.goal)
		return m, m.refreshItems()

	case MsgReminder:
		r := msg.data.(tasks.Reminder)
		cmds := []tea.Cmd{m.waitForReminder()}
		if r.Channel == models.ChannelToast {
			cmds = append(cmds, m.showToast(tasks.ToastInfo, r.Message+" "+tasks.ToastHint))
		}
		return m, tea.Batch(cmds...)

	case MsgPermission:
		out := msg.data.(tasks.PermissionOutcome)
		return m, m.showToast(out.Level, out.Message)

	case MsgToastExpired:
		if seq := msg.data.(int); seq == m.toast.seq {
			m.toast.message = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.sort):
		m.order = m.order.Toggle()
		return m, m.refreshItems()
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchGoals()
	case key.Matches(msg, m.keys.notify):
		return m, m.requestPermission()
	case key.Matches(msg, m.keys.toggle):
		if g, ok := m.selectedGoal(); ok {
			return m, m.toggleGoal(g)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if g, ok := m.selectedGoal(); ok {
			m.selected = &g
			m.view = GoalDetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = GoalListView
		m.selected = nil
	case key.Matches(msg, m.keys.toggle):
		if m.selected != nil {
			return m, m.toggleGoal(*m.selected)
		}
	}
	return m, nil
}

func (m *Model) selectedGoal() (models.Goal, bool) {
	item, ok := m.list.SelectedItem().(goalItem)
	if !ok {
		return models.Goal{}, false
	}
	return item.goal, true
}

func (m *Model) replaceGoal(g models.Goal) {
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goals[i] = g
			break
		}
	}
	if m.selected != nil && m.selected.ID == g.ID {
		m.selected = &g
	}
}

func (m *Model) refreshItems() tea.Cmd {
	m.list.Title = listTitle(m.order, len(m.goals))
	return m.list.SetItems(goalItems(m.goals, m.types, m.order))
}

func (m *Model) showToast(level tasks.ToastLevel, message string) tea.Cmd {
	m.toast = toast{level: level, message: message, seq: m.toast.seq + 1}
	seq := m.toast.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg(seq) })
}

func (m *Model) fetchGoals() tea.Cmd {
	return func() tea.Msg {
		goals, err := m.service.ListGoals(m.ctx)
		if err != nil {
			return goalsFetchedMsg(nil, nil, err)
		}
		types, err := m.service.ListGoalTypes(m.ctx)
		if err != nil {
			m.logger.Warn("failed to fetch goal types", "error", err)
			types = nil
		}
		return goalsFetchedMsg(goals, types, nil)
	}
}

func (m *Model) toggleGoal(g models.Goal) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.service.SetGoalStatus(m.ctx, g.ID, g.Status.Toggle())
		return goalUpdatedMsg(updated, err)
	}
}

func (m *Model) requestPermission() tea.Cmd {
	return func() tea.Msg {
		return permissionMsg(tasks.RequestPermission(m.ctx, m.notifier))
	}
}

func (m *Model) waitForReminder() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case r, ok := <-m.events:
			if !ok {
				return nil
			}
			return reminderMsg(r)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case GoalDetailView:
		body = m.renderDetail()
	default:
		body = m.renderList()
	}

	if t := m.renderToast(); t != "" {
		body = fmt.Sprintf("%s\n%s", body, t)
	}
	return body
}

func (m *Model) renderList() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderDetail() string {
	g := m.selected
	if g == nil {
		return ""
	}

	name := g.Name
	if g.IsDone() {
		name = styles.done.Render(name)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(name))
	b.WriteString("\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(label+":"), value)
	}

	row("Status", string(g.Status))
	row("Priority", styles.As(string(g.Priority), priorityColors[string(g.Priority)]))
	for _, t := range m.types {
		if t.ID == g.TypeID {
			row("Type", t.Name)
		}
	}
	if g.DueDate != nil {
		due := g.DueDate.Local().Format("Mon Jan 2 2006 15:04")
		if g.Notify {
			due += " (reminder on)"
		}
		row("Due", due)
	}
	if g.Summary != nil && *g.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", *g.Summary)
	}
	if g.DescriptionMarkdown != nil && *g.DescriptionMarkdown != "" {
		fmt.Fprintf(&b, "\n%s\n", *g.DescriptionMarkdown)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.toggle, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderToast() string {
	if m.toast.message == "" {
		return ""
	}
	switch m.toast.level {
	case tasks.ToastError:
		return styles.err.Render(m.toast.message)
	case tasks.ToastWarning:
		return styles.warn.Render(m.toast.message)
	case tasks.ToastSuccess:
		return styles.ok.Render(m.toast.message)
	default:
		return styles.help.Render(m.toast.message)
	}
}
