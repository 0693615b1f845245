// Package tui is the interactive dashboard of routines and their schedules.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routines/internal/models"
	"github.com/julianstephens/routines/internal/reconcile"
	"github.com/julianstephens/routines/internal/scheduler"
)

const refreshInterval = 30 * time.Second

// Store is the read side the dashboard lists from.
type Store interface {
	GetAllRoutines() ([]models.Routine, error)
	GetAllInstances() ([]models.ScheduleInstance, error)
}

// Toggler enables and disables schedules, reconciling their alarms.
type Toggler interface {
	SetEnabled(id string, enabled bool) (reconcile.Report, error)
}

type view int

const (
	viewSchedules view = iota
	viewRoutines
)

type refreshMsg time.Time

type Model struct {
	store     Store
	toggler   Toggler
	scheduler *scheduler.Scheduler
	now       func() time.Time

	view      view
	schedules list.Model
	routines  list.Model
	keys      KeyMap
	help      help.Model

	status string
	err    error
	width  int
	height int
}

func NewModel(store Store, toggler Toggler, sched *scheduler.Scheduler, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	newList := func() list.Model {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.SetShowTitle(false)
		l.SetShowHelp(false)
		return l
	}

	m := Model{
		store:     store,
		toggler:   toggler,
		scheduler: sched,
		now:       now,
		schedules: newList(),
		routines:  newList(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// reload rebuilds both lists from the store.
func (m *Model) reload() {
	routines, err := m.store.GetAllRoutines()
	if err != nil {
		m.err = fmt.Errorf("failed to load routines: %w", err)
		return
	}
	instances, err := m.store.GetAllInstances()
	if err != nil {
		m.err = fmt.Errorf("failed to load schedules: %w", err)
		return
	}

	byID := make(map[string]models.Routine, len(routines))
	counts := make(map[string]int, len(routines))
	for _, r := range routines {
		byID[r.ID] = r
	}

	now := m.now()
	scheduleItems := make([]list.Item, 0, len(instances))
	for _, inst := range instances {
		counts[inst.RoutineID]++
		item := scheduleItem{inst: inst, routine: "(missing routine)", next: "-"}
		if r, ok := byID[inst.RoutineID]; ok {
			item.routine = r.Name
			next, ok := m.scheduler.NextFire(inst, r, now)
			item.next = scheduler.FormatNext(next, ok, now)
		}
		scheduleItems = append(scheduleItems, item)
	}

	routineItems := make([]list.Item, 0, len(routines))
	for _, r := range routines {
		routineItems = append(routineItems, routineItem{routine: r, schedules: counts[r.ID]})
	}

	m.schedules.SetItems(scheduleItems)
	m.routines.SetItems(routineItems)
	m.err = nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - v - 4
		m.schedules.SetSize(msg.Width-h, listHeight)
		m.routines.SetSize(msg.Width-h, listHeight)
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.reload()
		return m, tick()

	case tea.KeyMsg:
		if m.active().FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.view = (m.view + 1) % 2
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			m.status = "Refreshed"
			return m, nil
		case key.Matches(msg, m.keys.Toggle) && m.view == viewSchedules:
			m.toggleSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.view == viewSchedules {
		m.schedules, cmd = m.schedules.Update(msg)
	} else {
		m.routines, cmd = m.routines.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleSelected() {
	item, ok := m.schedules.SelectedItem().(scheduleItem)
	if !ok {
		return
	}

	report, err := m.toggler.SetEnabled(item.inst.ID, !item.inst.Enabled)
	if err != nil {
		m.err = err
		return
	}

	verb := "Disabled"
	if !item.inst.Enabled {
		verb = "Enabled"
	}
	m.status = fmt.Sprintf("%s %s: %s", verb, item.inst.Name, report.Summary())
	m.reload()
}

func (m *Model) active() *list.Model {
	if m.view == viewSchedules {
		return &m.schedules
	}
	return &m.routines
}

func (m Model) View() string {
	tabs := []string{"Schedules", "Routines"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if view(i) == m.view {
			rendered[i] = activeTabStyle.Render(t)
		} else {
			rendered[i] = inactiveTabStyle.Render(t)
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")
	if m.view == viewSchedules {
		b.WriteString(m.schedules.View())
	} else {
		b.WriteString(m.routines.View())
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}
