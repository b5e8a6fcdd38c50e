package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddSlot, constants.StateEditTime:
		content = m.form.View()
	default:
		content = m.viewRoutine()
	}

	sections := []string{m.viewHeader(), content, m.viewStats()}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	}
	sections = append(sections, m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewHeader() string {
	user := m.svc.User()
	title := "studyday"
	if user.Name != "" {
		title += " · " + user.Name
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(title),
		"  ",
		dateStyle.Render(fmt.Sprintf("%s · %s %s", m.svc.Heading(), m.svc.Weekday(), m.svc.Date())),
	)
	if m.validationWarning != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, warningStyle.Render(m.validationWarning))
	}
	return header + "\n"
}

func (m Model) viewRoutine() string {
	slots := m.svc.Slots()
	if len(slots) == 0 {
		if m.svc.IsCatchUpDay() {
			return noticeStyle.Render(m.svc.EmptyMessage()) + "\n"
		}
		return dateStyle.Render(m.svc.EmptyMessage()+" Press 'a' to add a slot.") + "\n"
	}

	var b strings.Builder
	for i, slot := range slots {
		row := m.viewSlot(slot)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSlot(slot models.RoutineSlot) string {
	check := "[ ]"
	subject := subjectStyle.Render(m.svc.SubjectName(slot.SubjectID))
	if slot.IsCompleted {
		check = "[x]"
		subject = doneStyle.Render(m.svc.SubjectName(slot.SubjectID))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		check, " ",
		timeStyle.Render(utils.ClockRange(slot.StartTime, slot.DurationMinutes)),
		activityStyle.Render(string(slot.ActivityType)),
		subject, " ",
		topicStyle.Render(slot.Topic),
	)
	if m.timer.Active() == slot.ID {
		row += "  " + timerStyle.Render("⏱ "+m.timer.FormatRemaining())
	}
	return row
}

func (m Model) viewStats() string {
	st := m.svc.Stats()
	return statsStyle.Render(fmt.Sprintf("%d/%d done (%d%%)  ·  %s/%s studied  ·  🔥 %d day streak  ·  %d bonus holidays",
		st.Completed, st.Total, st.Percent,
		hours(st.MinutesStudied), hours(st.TargetMinutes),
		st.Streak, st.BonusHolidays))
}

func hours(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
