package kiosk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-enrolment/internal/wizard"
)

type manualTimer struct {
	mu sync.Mutex
	fn func()
}

func (t *manualTimer) after(_ time.Duration, fn func()) wizard.Timer {
	t.mu.Lock()
	t.fn = fn
	t.mu.Unlock()
	return t
}

func (t *manualTimer) Stop() bool { return true }

func (t *manualTimer) fire() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	fn()
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	retry = tea.KeyMsg{Type: tea.KeyCtrlR}
	quit  = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func fillForm(t *testing.T, m Model) Model {
	t.Helper()
	m = update(t, m,
		typeText("Asha Rao"), tab,
		typeText("asha@example.com"), tab,
		typeText("9876543210"), enter,
	)
	require.Equal(t, wizard.StepBackground, m.State().Step)
	m = update(t, m, typeText("B.Tech"), enter)
	require.Equal(t, wizard.StepReview, m.State().Step)
	return m
}

func TestKioskValidatesAndAdvances(t *testing.T) {
	m := New("python", "Python Programming", wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
		return "id", nil
	}))

	m = update(t, m, enter)
	assert.Equal(t, wizard.StepContact, m.State().Step)
	assert.Equal(t, "Name is required", m.State().Errors[wizard.FieldName])
	assert.Contains(t, m.View(), "Name is required")

	m = fillForm(t, m)
	assert.Contains(t, m.View(), "Asha Rao")

	m = update(t, m, esc)
	assert.Equal(t, wizard.StepBackground, m.State().Step)
	assert.Equal(t, "B.Tech", m.inputs[0].Value(), "inputs keep entered values")
}

func TestKioskSubmitsAndStartsOver(t *testing.T) {
	timer := &manualTimer{}
	var got wizard.Record
	gw := wizard.GatewayFunc(func(_ context.Context, rec wizard.Record) (string, error) {
		got = rec
		return "abc123", nil
	})
	m := New("python", "Python Programming", gw, wizard.WithAfterFunc(timer.after))
	first := m.ctrl

	m = fillForm(t, m)
	m = update(t, m, enter)
	first.Wait()
	m = update(t, m, refreshMsg{})

	assert.Equal(t, wizard.StatusSuccess, m.State().Status)
	assert.Equal(t, "abc123", m.State().LeadID)
	assert.Equal(t, "python", got.CourseType)
	assert.Contains(t, m.View(), "Thank you!")

	timer.fire()
	m = update(t, m, refreshMsg{})
	assert.NotSame(t, first, m.ctrl, "a fresh dialog replaces the closed one")
	assert.Equal(t, wizard.StepContact, m.State().Step)
	assert.Empty(t, m.State().Fields[wizard.FieldName])
	assert.Equal(t, 1, m.Enrolled())
}

func TestKioskRetryKeepsFields(t *testing.T) {
	m := New("java", "Java Programming", wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
		return "", errors.New("down")
	}))
	m = fillForm(t, m)
	m = update(t, m, enter)
	m.ctrl.Wait()
	m = update(t, m, refreshMsg{})
	require.Equal(t, wizard.StatusError, m.State().Status)
	assert.Contains(t, m.View(), "ctrl+r")

	m = update(t, m, retry)
	assert.Equal(t, wizard.StepContact, m.State().Step)
	assert.Equal(t, wizard.StatusIdle, m.State().Status)
	assert.Equal(t, "Asha Rao", m.inputs[0].Value())
}

func TestKioskEscOnFirstStepResets(t *testing.T) {
	m := New("ml", "Machine Learning", wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
		return "id", nil
	}))
	first := m.ctrl
	m = update(t, m, typeText("Someone"), esc)

	assert.True(t, first.Snapshot().Closed)
	assert.NotSame(t, first, m.ctrl)
	assert.Empty(t, m.inputs[0].Value())
}

func TestKioskQuitClosesDialog(t *testing.T) {
	m := New("cloud", "Cloud Computing", wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
		return "id", nil
	}))
	next, cmd := m.Update(quit)
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.ctrl.Snapshot().Closed)
	assert.Equal(t, "Kiosk closed.\n", m.View())
}
