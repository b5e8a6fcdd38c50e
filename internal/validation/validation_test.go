package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/studyday/internal/models"
)

func slot(id, start string) models.RoutineSlot {
	return models.RoutineSlot{ID: id, StartTime: start, DurationMinutes: 60}
}

func countType(result ValidationResult, ct ConflictType) int {
	n := 0
	for _, c := range result.Conflicts {
		if c.Type == ct {
			n++
		}
	}
	return n
}

func TestValidateSlots_DefaultDayIsClean(t *testing.T) {
	slots := []models.RoutineSlot{
		slot("slot-1", "06:00"),
		slot("slot-2", "16:00"),
		slot("slot-3", "17:15"),
		slot("slot-4", "19:00"),
		slot("slot-5", "20:15"),
		slot("slot-6", "21:30"),
	}

	result := New().ValidateSlots("2026-10-19", slots)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidateSlots_InvalidTime(t *testing.T) {
	slots := []models.RoutineSlot{
		slot("slot-1", "6:00"),
		slot("slot-2", "noon"),
		slot("slot-3", "25:00"),
		slot("slot-4", "07:00"),
	}

	result := New().ValidateSlots("2026-10-19", slots)
	if got := countType(result, ConflictInvalidTime); got != 3 {
		t.Errorf("expected 3 invalid_time conflicts, got %d: %s", got, result.FormatReport())
	}
}

func TestValidateSlots_DuplicateID(t *testing.T) {
	slots := []models.RoutineSlot{
		slot("slot-1", "06:00"),
		slot("slot-1", "08:00"),
	}

	result := New().ValidateSlots("2026-10-19", slots)
	if got := countType(result, ConflictDuplicateSlotID); got != 1 {
		t.Fatalf("expected 1 duplicate_slot_id conflict, got %d", got)
	}
	if !strings.Contains(result.Conflicts[0].Description, "2 times") {
		t.Errorf("unexpected description: %s", result.Conflicts[0].Description)
	}
}

func TestValidateSlots_Overlap(t *testing.T) {
	slots := []models.RoutineSlot{
		slot("slot-2", "16:00"),
		slot("custom-1", "16:30"),
		slot("slot-3", "17:00"), // touches slot-2's end, overlaps custom-1
	}

	result := New().ValidateSlots("2026-10-19", slots)
	if got := countType(result, ConflictOverlappingSlots); got != 2 {
		t.Fatalf("expected 2 overlaps, got %d: %s", got, result.FormatReport())
	}
	first := result.Conflicts[0]
	if first.SlotIDs[0] != "slot-2" || first.SlotIDs[1] != "custom-1" {
		t.Errorf("unexpected first overlap: %+v", first)
	}
	if first.Date != "2026-10-19" {
		t.Errorf("conflict date = %q", first.Date)
	}
}

func TestValidateSlots_Empty(t *testing.T) {
	result := New().ValidateSlots("2026-10-18", []models.RoutineSlot{})
	if result.HasConflicts() {
		t.Error("empty Sunday list should have no conflicts")
	}
}
