package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/timer"
	"github.com/julianstephens/studyday/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Background messages are handled in every state so a running countdown
	// keeps ticking behind an open form.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - 4)
		}
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case dayCheckMsg:
		return m.handleDayCheck()

	case notifiedMsg:
		if msg.err != nil {
			logger.Debug("Timer notification not delivered", "error", msg.err)
		}
		return m, nil
	}

	switch m.state {
	case constants.StateAddSlot, constants.StateEditTime:
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.timerGen || m.timer.State() != timer.Running {
		return m, nil
	}
	expired, slotID := m.timer.Tick()
	if !expired {
		return m, m.tick()
	}
	logger.Info("Timer expired", "slot", slotID)
	m.notice = constants.TimerExpiredMessage
	return m, m.notify(constants.TimerExpiredMessage)
}

func (m Model) handleDayCheck() (tea.Model, tea.Cmd) {
	switched, err := m.svc.Refresh()
	if err != nil {
		m.err = err
		return m, dayCheck()
	}
	if switched {
		m.timer.Stop()
		m.timerGen++
		m.cursor = 0
		m.notice = ""
		m.err = nil
		m.updateValidationStatus()
	}
	return m, dayCheck()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.svc.Slots())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Complete):
		slot, ok := m.selected()
		if !ok {
			return m, nil
		}
		if slot.IsCompleted {
			m.notice = constants.SlotDoneNotice
			return m, nil
		}
		if _, m.err = m.svc.Complete(slot.ID); m.err == nil && m.timer.Active() == slot.ID {
			m.timer.Stop()
			m.timerGen++
		}

	case key.Matches(msg, m.keys.Timer):
		slot, ok := m.selected()
		if !ok {
			return m, nil
		}
		if slot.IsCompleted {
			m.notice = constants.SlotDoneNotice
			return m, nil
		}
		running := m.timer.Toggle(slot.ID, slot.DurationMinutes)
		m.timerGen++
		if running {
			m.notice = ""
			return m, m.tick()
		}

	case key.Matches(msg, m.keys.Add):
		m.addForm = &AddSlotFormModel{}
		m.form = newAddSlotForm(m.addForm, m.svc.AddableSubjects())
		m.state = constants.StateAddSlot
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		slot, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editForm = &EditTimeFormModel{SlotID: slot.ID, Time: slot.StartTime}
		title := "New start time for " + m.svc.SubjectName(slot.SubjectID)
		m.form = newEditTimeForm(m.editForm, title)
		m.state = constants.StateEditTime
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyForm()
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) applyForm() {
	m.err = nil
	switch m.state {
	case constants.StateAddSlot:
		slot, err := m.svc.AddCustomSlot(m.addForm.Time, m.addForm.Subject)
		if err != nil {
			m.err = err
			return
		}
		m.selectSlot(slot.ID)
	case constants.StateEditTime:
		if t := strings.TrimSpace(m.editForm.Time); t != "" && !utils.IsClock(t) {
			logger.Warn("Editing slot with a non HH:MM start time", "slot", m.editForm.SlotID, "time", m.editForm.Time)
		}
		if err := m.svc.EditTime(m.editForm.SlotID, m.editForm.Time); err != nil {
			m.err = err
			return
		}
		m.selectSlot(m.editForm.SlotID)
	}
	m.updateValidationStatus()
}

func (m *Model) closeForm() {
	m.state = constants.StateRoutine
	m.form = nil
	m.addForm = nil
	m.editForm = nil
}
