// Package tui provides the live terminal dashboard for taskdeck.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase"
)

// RefreshInterval is how often the dashboard reloads statistics.
const RefreshInterval = 5 * time.Second

// Model is the bubbletea model for the live dashboard.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error

	// State
	summary   *domain.Summary
	workloads []domain.Workload
	loadedAt  time.Time

	// Components
	keys   KeyMap
	styles Styles
	help   help.Model

	actor    domain.Actor
	scope    domain.Scope
	interval time.Duration
	width    int
	height   int
}

// NewDashboard creates a dashboard for the actor over the scope.
func NewDashboard(c *app.Container, actor domain.Actor, scope domain.Scope) *Model {
	return &Model{
		container: c,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		actor:     actor,
		scope:     scope,
		interval:  RefreshInterval,
	}
}

// Init loads the first statistics and starts the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

// load returns a command that computes statistics for the current scope.
func (m *Model) load() tea.Cmd {
	c, actor, scope := m.container, m.actor, m.scope
	return func() tea.Msg {
		ctx := context.Background()
		out, err := c.SummarizeUseCase().Execute(ctx, usecase.SummarizeInput{
			Actor: actor,
			Scope: scope,
		})
		if err != nil {
			return MsgError{Err: err}
		}

		msg := MsgLoaded{Now: out.Now, Summary: out.Summary, Scope: scope}
		if scope.IsGlobal() {
			wl, err := c.ListWorkloadsUseCase().Execute(ctx, usecase.ListWorkloadsInput{Actor: actor})
			if err != nil {
				return MsgError{Err: err}
			}
			msg.Workloads = wl.Workloads
		}
		return msg
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgLoaded:
		// Drop results for a scope that was switched away from.
		if msg.Scope != m.scope {
			return m, nil
		}
		m.err = nil
		summary := msg.Summary
		m.summary = &summary
		m.workloads = msg.Workloads
		m.loadedAt = msg.Now
		return m, nil

	case MsgError:
		m.err = msg.Err
		return m, nil

	case MsgTick:
		return m, tea.Batch(m.load(), m.tick())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.ToggleScope):
		if m.actor.Role != domain.RoleAdmin {
			return m, nil
		}
		if m.scope.IsGlobal() {
			m.scope = domain.UserScope(m.actor.ID)
		} else {
			m.scope = domain.GlobalScope()
		}
		m.summary = nil
		m.workloads = nil
		return m, m.load()
	}
	return m, nil
}

// View renders the dashboard.
func (m *Model) View() string {
	var body string
	switch {
	case m.summary != nil:
		body = RenderSummary(m.styles, m.scope, *m.summary, m.loadedAt, m.width)
		if wl := renderWorkloads(m.styles, m.workloads); wl != "" {
			body += "\n" + wl
		}
	case m.err == nil:
		body = m.styles.TaskMeta.Render("Loading...")
	}

	if m.err != nil {
		body += "\n" + m.styles.ErrorMsg.Render("Error: "+m.err.Error())
	}

	return body + "\n" + m.styles.Footer.Render(m.help.View(m.keys))
}
