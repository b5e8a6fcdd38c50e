package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/notifier"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/timer"
	"github.com/julianstephens/studyday/internal/validation"
)

// tickMsg drives the countdown. Ticks from an earlier run carry a stale gen
// and are dropped.
type tickMsg struct {
	gen int
}

type dayCheckMsg time.Time

type notifiedMsg struct {
	err error
}

type Model struct {
	svc      *routine.Service
	notifier notifier.Notifier

	timer        *timer.Timer
	timerGen     int
	tickInterval time.Duration

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	form     *huh.Form
	addForm  *AddSlotFormModel
	editForm *EditTimeFormModel

	cursor   int
	width    int
	height   int
	quitting bool

	validationWarning   string
	validationConflicts []validation.Conflict
	notice              string
	err                 error
}

// NewModel builds the routine screen for a loaded service. n may be nil, in
// which case timer alerts are only shown on screen.
func NewModel(svc *routine.Service, n notifier.Notifier) Model {
	m := Model{
		svc:          svc,
		notifier:     n,
		timer:        timer.New(),
		tickInterval: constants.TimerTickInterval,
		state:        constants.StateRoutine,
		keys:         DefaultKeyMap(),
		help:         help.New(),
	}
	m.updateValidationStatus()
	return m
}

func (m Model) Init() tea.Cmd {
	return dayCheck()
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) tick() tea.Cmd {
	gen := m.timerGen
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func dayCheck() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dayCheckMsg(t)
	})
}

func (m Model) notify(text string) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	n := m.notifier
	return func() tea.Msg {
		return notifiedMsg{err: n.Notify(text)}
	}
}

func (m Model) selected() (models.RoutineSlot, bool) {
	slots := m.svc.Slots()
	if m.cursor < 0 || m.cursor >= len(slots) {
		return models.RoutineSlot{}, false
	}
	return slots[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.svc.Slots())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectSlot moves the cursor onto id, which may have moved after a re-sort.
func (m *Model) selectSlot(id string) {
	for i, s := range m.svc.Slots() {
		if s.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateSlots(m.svc.Date(), m.svc.Slots())
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
