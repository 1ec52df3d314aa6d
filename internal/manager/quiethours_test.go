package manager

import (
	"testing"
	"time"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.Local)
}

func TestQuietHoursWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		now        time.Time
		level      model.Level
		force      bool
		want       bool
	}{
		{"inside wrapped window late", "22:00", "08:00", clock(23, 30), model.LevelInfo, false, true},
		{"inside wrapped window early", "22:00", "08:00", clock(6, 15), model.LevelInfo, false, true},
		{"outside wrapped window", "22:00", "08:00", clock(12, 0), model.LevelInfo, false, false},
		{"start bound is inclusive", "22:00", "08:00", clock(22, 0), model.LevelInfo, false, true},
		{"end bound is exclusive", "22:00", "08:00", clock(8, 0), model.LevelInfo, false, false},
		{"plain window inside", "09:00", "17:00", clock(12, 0), model.LevelWarning, false, true},
		{"plain window before start", "09:00", "17:00", clock(8, 59), model.LevelWarning, false, false},
		{"critical bypasses", "22:00", "08:00", clock(23, 30), model.LevelCritical, false, false},
		{"force bypasses", "22:00", "08:00", clock(23, 30), model.LevelInfo, true, false},
		{"degenerate window", "10:00", "10:00", clock(10, 0), model.LevelInfo, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuietHours(config.QuietHoursConfig{Enabled: true, Start: tt.start, End: tt.end})
			if err != nil {
				t.Fatalf("NewQuietHours failed: %v", err)
			}
			if got := q.IsSuppressed(tt.now, tt.level, tt.force); got != tt.want {
				t.Errorf("IsSuppressed(%v, %s, force=%v) = %v, want %v", tt.now, tt.level, tt.force, got, tt.want)
			}
		})
	}
}

func TestQuietHoursDisabled(t *testing.T) {
	q, err := NewQuietHours(config.QuietHoursConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewQuietHours failed: %v", err)
	}
	if q.IsSuppressed(clock(3, 0), model.LevelInfo, false) {
		t.Fatal("disabled policy must never suppress")
	}
}

func TestQuietHoursRejectsBadClock(t *testing.T) {
	if _, err := NewQuietHours(config.QuietHoursConfig{Enabled: true, Start: "25:99", End: "08:00"}); err == nil {
		t.Fatal("expected error for invalid start time")
	}
}
