package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/gatewise/vms-backend/internal/models"
)

// Maximum visit durations for capped service purposes. Purposes absent
// from the table have no cap.
var purposeDurationCaps = map[string]time.Duration{
	models.PurposeEHailingDriver: 45 * time.Minute,
	models.PurposeFoodServices:   45 * time.Minute,
	models.PurposeCourier:        45 * time.Minute,
	models.PurposeGarbageTruck:   120 * time.Minute,
	models.PurposeSafeguard:      120 * time.Minute,
}

// LongStayThreshold is the visit span beyond which a pre-registered
// visitor must attach a supporting document.
const LongStayThreshold = 7 * 24 * time.Hour

var (
	// ErrWindowInverted indicates the requested end is not after the start
	ErrWindowInverted = errors.New("visit end must be after visit start")

	// ErrWindowMissing indicates a required visit date is absent or zero
	ErrWindowMissing = errors.New("visit dates are missing or invalid")
)

// DurationCap returns the maximum duration for a purpose, with ok=false
// when the purpose is uncapped.
func DurationCap(purpose string) (time.Duration, bool) {
	d, ok := purposeDurationCaps[purpose]
	return d, ok
}

// AdhocWindow derives the visit window for a walk-in registration. The
// window is the current day in full (00:00–23:59) unless the purpose is
// capped, in which case it is [now, now+cap].
func AdhocWindow(purpose string, now time.Time) (start, end time.Time) {
	if limit, ok := DurationCap(purpose); ok {
		return now, now.Add(limit)
	}
	year, month, day := now.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	end = time.Date(year, month, day, 23, 59, 0, 0, now.Location())
	return start, end
}

// PreregisteredWindow validates a caller-supplied visit window and clamps
// the end to start+cap when the purpose is capped and the request exceeds
// it. Clamping is silent: registration still succeeds with the adjusted
// end. Returns an error for missing or inverted windows.
func PreregisteredWindow(purpose string, start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, ErrWindowMissing
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrWindowInverted
	}
	if limit, ok := DurationCap(purpose); ok && end.Sub(start) > limit {
		end = start.Add(limit)
	}
	return start, end, nil
}

// IsLongStay reports whether the visit window spans more than the
// long-stay threshold.
func IsLongStay(start, end time.Time) bool {
	return end.Sub(start) > LongStayThreshold
}

// FormatDuration renders the dwell time between entry and exit for
// display. A missing exit uses now; inverted or missing ranges render as
// "Not available".
func FormatDuration(entryAt, exitAt *time.Time, now time.Time) string {
	if entryAt == nil {
		return "Not available"
	}
	end := now
	if exitAt != nil {
		end = *exitAt
	}
	d := end.Sub(*entryAt)
	if d < 0 {
		return "Not available"
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
