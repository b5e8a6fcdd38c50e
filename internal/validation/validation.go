package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidTime      ConflictType = "invalid_time"
	ConflictDuplicateSlotID  ConflictType = "duplicate_slot_id"
	ConflictOverlappingSlots ConflictType = "overlapping_slots"
)

// Conflict represents a detected problem in a day's slot list
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	SlotIDs     []string // slots involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks slot lists. Findings are warnings; nothing is rejected.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateSlots reports malformed start times, repeated ids and slots whose
// time ranges overlap.
func (v *Validator) ValidateSlots(date string, slots []models.RoutineSlot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]int)
	var order []string
	for _, slot := range slots {
		if seen[slot.ID] == 0 {
			order = append(order, slot.ID)
		}
		seen[slot.ID]++
	}
	for _, id := range order {
		if n := seen[id]; n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateSlotID,
				Description: fmt.Sprintf("Slot id %q is used %d times", id, n),
				Date:        date,
				SlotIDs:     []string{id},
			})
		}
	}

	type span struct {
		id         string
		start, end int
	}
	var spans []span
	for _, slot := range slots {
		start, err := utils.ClockToMinutes(slot.StartTime)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Slot %s has invalid start time %q (expected HH:MM)", slot.ID, slot.StartTime),
				Date:        date,
				SlotIDs:     []string{slot.ID},
			})
			continue
		}
		spans = append(spans, span{id: slot.ID, start: start, end: start + slot.DurationMinutes})
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans) && spans[j].start < spans[i].end; j++ {
			a, b := spans[i], spans[j]
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOverlappingSlots,
				Description: fmt.Sprintf("Slots %s (%s) and %s (%s) overlap", a.id, clock(a.start, a.end), b.id, clock(b.start, b.end)),
				Date:        date,
				SlotIDs:     []string{a.id, b.id},
			})
		}
	}

	return result
}

func clock(start, end int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", start/60, start%60, (end/60)%24, end%60)
}
