// Package kiosk drives the enrolment wizard from a terminal, for walk-in
// visitors at an event stand. Each completed enrolment makes way for a fresh
// form.
package kiosk

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"course-enrolment/internal/wizard"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#475569")).Padding(1, 2)
)

// refreshMsg tells the model the controller changed off the UI goroutine.
type refreshMsg struct{}

type Model struct {
	courseType  string
	courseTitle string
	gateway     wizard.Gateway
	opts        []wizard.Option

	ctrl   *wizard.Controller
	state  wizard.State
	inputs []textinput.Model
	focus  int
	events chan tea.Msg

	enrolled int
	quitting bool
}

// New opens the first dialog for courseType.
func New(courseType, courseTitle string, gw wizard.Gateway, opts ...wizard.Option) Model {
	m := Model{
		courseType:  courseType,
		courseTitle: courseTitle,
		gateway:     gw,
		opts:        opts,
		events:      make(chan tea.Msg, 64),
	}
	m.open()
	return m
}

// open replaces the current controller with a fresh dialog.
func (m *Model) open() {
	events := m.events
	notify := func() {
		select {
		case events <- refreshMsg{}:
		default:
		}
	}

	m.ctrl = wizard.New(m.courseType, m.gateway, m.opts...)
	m.ctrl.OnChange(func(wizard.State) { notify() })
	m.ctrl.OnClose(func(wizard.CloseReason) { notify() })
	m.state = wizard.State{}
	m.sync()
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg { return <-events }
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if m.quitting {
			return m, tea.Quit
		}
		if s := m.ctrl.Snapshot(); s.Closed {
			if s.Status == wizard.StatusSuccess {
				m.enrolled++
			}
			m.open()
			return m, m.waitForEvent()
		}
		m.sync()
		return m, m.waitForEvent()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.ctrl.Close()
			return m, tea.Quit

		case "enter":
			m.commit()
			// Rejected actions leave the state as it was; validation
			// errors show up in the synced snapshot.
			if m.state.Step == wizard.StepReview {
				_ = m.ctrl.Submit(context.Background())
			} else {
				_ = m.ctrl.Advance()
			}
			m.sync()
			return m, nil

		case "esc":
			if m.state.Step == wizard.StepContact && m.state.Status == wizard.StatusIdle {
				// Walk-away: discard what was typed and start over.
				m.ctrl.Close()
				m.open()
				return m, nil
			}
			m.commit()
			_ = m.ctrl.Retreat()
			m.sync()
			return m, nil

		case "ctrl+r":
			_ = m.ctrl.Retry()
			m.sync()
			return m, nil

		case "tab", "down":
			m.moveFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		}

		if m.focus < len(m.inputs) {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// commit copies the visible inputs into the controller.
func (m *Model) commit() {
	for i, name := range m.state.Step.Fields() {
		if i >= len(m.inputs) {
			break
		}
		if err := m.ctrl.SetField(name, m.inputs[i].Value()); err != nil {
			return
		}
	}
}

// sync pulls the controller state and rebuilds the inputs when the step changed.
func (m *Model) sync() {
	prev := m.state.Step
	m.state = m.ctrl.Snapshot()
	if m.state.Step == prev && len(m.inputs) == len(m.state.Step.Fields()) {
		return
	}

	fields := m.state.Step.Fields()
	m.inputs = make([]textinput.Model, len(fields))
	for i, name := range fields {
		in := textinput.New()
		in.CharLimit = 200
		in.Width = 40
		in.Placeholder = placeholder(name)
		in.SetValue(m.state.Fields[name])
		m.inputs[i] = in
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m *Model) moveFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// State is the controller snapshot last pulled by the model.
func (m Model) State() wizard.State {
	return m.state
}

// Enrolled counts dialogs that closed after a successful submission.
func (m Model) Enrolled() int {
	return m.enrolled
}

func (m Model) View() string {
	if m.quitting {
		return "Kiosk closed.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Enrol in "+m.courseTitle) + "\n")
	b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d of 3 · %s", m.state.Step, m.state.Step.Label())) + "\n\n")

	switch {
	case m.state.Status == wizard.StatusSuccess:
		b.WriteString(successStyle.Render("Thank you! Your enrolment request has been received.") + "\n")
		b.WriteString("Our team will contact you shortly.\n")
	case m.state.Step == wizard.StepReview:
		for _, name := range wizard.FieldNames {
			if v := m.state.Fields[name]; strings.TrimSpace(v) != "" {
				b.WriteString(labelStyle.Render(fieldTitle(name)+": ") + v + "\n")
			}
		}
		b.WriteString("\n")
		switch m.state.Status {
		case wizard.StatusSubmitting:
			b.WriteString("Submitting...\n")
		case wizard.StatusError:
			b.WriteString(errorStyle.Render("Something went wrong while submitting. Press ctrl+r to try again.") + "\n")
		}
	default:
		for i, name := range m.state.Step.Fields() {
			b.WriteString(labelStyle.Render(fieldTitle(name)) + "\n")
			b.WriteString(m.inputs[i].View() + "\n")
			if msg, ok := m.state.Errors[name]; ok {
				b.WriteString(errorStyle.Render(msg) + "\n")
			}
			b.WriteString("\n")
		}
	}

	if m.enrolled > 0 {
		b.WriteString(stepStyle.Render(fmt.Sprintf("\n%d enrolled this session", m.enrolled)) + "\n")
	}
	b.WriteString(helpStyle.Render("\nenter: next/submit · esc: back · tab: next field · ctrl+r: retry · ctrl+c: quit"))
	return boxStyle.Render(b.String()) + "\n"
}

func fieldTitle(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

func placeholder(name string) string {
	switch name {
	case wizard.FieldName:
		return "Your full name"
	case wizard.FieldEmail:
		return "you@example.com"
	case wizard.FieldPhone:
		return "10-digit mobile number"
	case wizard.FieldEducation:
		return "e.g. B.Tech, BCA, 12th grade"
	}
	return "optional"
}
