package manager

import (
	"fmt"
	"time"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
)

// QuietHours decides whether a non-critical, non-forced send falls inside
// the configured local-time suppression window.
type QuietHours struct {
	enabled bool
	start   int // minutes since midnight, inclusive
	end     int // minutes since midnight, exclusive
}

// NewQuietHours parses the configured HH:MM bounds.
func NewQuietHours(cfg config.QuietHoursConfig) (*QuietHours, error) {
	q := &QuietHours{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return q, nil
	}

	var err error
	if q.start, err = parseClock(cfg.Start); err != nil {
		return nil, fmt.Errorf("invalid quiet hours start: %w", err)
	}
	if q.end, err = parseClock(cfg.End); err != nil {
		return nil, fmt.Errorf("invalid quiet hours end: %w", err)
	}
	return q, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsSuppressed reports whether delivery must be held back. Critical
// severity and the force flag each bypass the window unconditionally.
// A window with start > end wraps across midnight.
func (q *QuietHours) IsSuppressed(now time.Time, level model.Level, force bool) bool {
	if !q.enabled || force || level == model.LevelCritical {
		return false
	}
	if q.start == q.end {
		// Degenerate window, nothing is suppressed.
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if q.start < q.end {
		return minute >= q.start && minute < q.end
	}
	return minute >= q.start || minute < q.end
}
