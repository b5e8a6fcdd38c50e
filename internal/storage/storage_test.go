package storage

import (
	"errors"
	"testing"

	"github.com/julianstephens/studyday/internal/models"
)

func TestRoutineKey(t *testing.T) {
	if got := RoutineKey("u1", "2026-10-19"); got != "routine_u1_2026-10-19" {
		t.Errorf("RoutineKey = %q", got)
	}
}

func TestDecodeDay(t *testing.T) {
	payload, err := EncodeDay(models.DayRecord{UserID: "u1", Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("EncodeDay failed: %v", err)
	}

	t.Run("matching key", func(t *testing.T) {
		rec, err := DecodeDay("u1", "2026-10-19", payload)
		if err != nil {
			t.Fatalf("DecodeDay failed: %v", err)
		}
		if rec.Version != 1 {
			t.Errorf("version = %d, want 1", rec.Version)
		}
		if rec.Slots == nil {
			t.Error("slots should be an empty list, not nil")
		}
	})

	t.Run("other date", func(t *testing.T) {
		_, err := DecodeDay("u1", "2026-10-20", payload)
		if !errors.Is(err, ErrKeyCollision) {
			t.Errorf("err = %v, want ErrKeyCollision", err)
		}
	})

	t.Run("other user", func(t *testing.T) {
		_, err := DecodeDay("u2", "2026-10-19", payload)
		if !errors.Is(err, ErrKeyCollision) {
			t.Errorf("err = %v, want ErrKeyCollision", err)
		}
	})

	t.Run("corrupt payload", func(t *testing.T) {
		_, err := DecodeDay("u1", "2026-10-19", []byte("{not json"))
		if err == nil || errors.Is(err, ErrKeyCollision) {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("newer version", func(t *testing.T) {
		newer, _ := EncodeDay(models.DayRecord{Version: 99, UserID: "u1", Date: "2026-10-19"})
		if _, err := DecodeDay("u1", "2026-10-19", newer); err == nil {
			t.Error("expected error for newer record version")
		}
	})
}

func TestIsJSONPath(t *testing.T) {
	if !IsJSONPath("/tmp/studyday.JSON") {
		t.Error("expected .JSON to select the json backend")
	}
	if IsJSONPath("/tmp/studyday.db") {
		t.Error("expected .db to select sqlite")
	}
}
