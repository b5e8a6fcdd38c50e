package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type TodayCmd struct {
	Plain bool `help:"Print without table borders or colour."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}

	user := svc.User()
	ctx.printf("%s, %s %s\n", greetingName(user), svc.Weekday(), svc.Date())
	if c.Plain {
		ctx.printf("%s\n", svc.Heading())
	} else {
		ctx.printf("%s\n", headerStyle.Render(svc.Heading()))
	}

	slots := svc.Slots()
	if len(slots) == 0 {
		ctx.printf("%s\n", svc.EmptyMessage())
		return nil
	}

	if c.Plain {
		for _, slot := range slots {
			ctx.printf("%s  %-3s %-22s %-10s %s  %s\n",
				utils.ClockRange(slot.StartTime, slot.DurationMinutes),
				checkMark(slot), svc.SubjectName(slot.SubjectID), slot.ActivityType, slot.Topic, slot.ID)
		}
	} else {
		ctx.printf("%s\n", slotTable(svc, slots))
	}
	ctx.printf("%s\n", formatStats(svc.Stats()))
	return nil
}

func greetingName(user models.User) string {
	if user.Name == "" {
		return "Hello"
	}
	return "Hello " + user.Name
}

func checkMark(slot models.RoutineSlot) string {
	if slot.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

func slotTable(svc *routine.Service, slots []models.RoutineSlot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("", "TIME", "SUBJECT", "ACTIVITY", "TOPIC", "ID").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(slots) && slots[row].IsCompleted {
				return doneStyle.Padding(0, 1)
			}
			return cellStyle
		})
	for _, slot := range slots {
		t.Row(
			checkMark(slot),
			utils.ClockRange(slot.StartTime, slot.DurationMinutes),
			svc.SubjectName(slot.SubjectID),
			string(slot.ActivityType),
			slot.Topic,
			slot.ID,
		)
	}
	return t.String()
}

func formatStats(st routine.Stats) string {
	return fmt.Sprintf("Completed %d/%d (%d%%) | Studied %s of %s | Streak %d | Bonus holidays %d",
		st.Completed, st.Total, st.Percent,
		formatMinutes(st.MinutesStudied), formatMinutes(st.TargetMinutes),
		st.Streak, st.BonusHolidays)
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return strconv.Itoa(m/60) + "h"
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
