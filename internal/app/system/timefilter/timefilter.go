// Package timefilter maps a dto.TimeFilter onto a concrete time window.
package timefilter

import (
	"fmt"
	"time"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

var windows = map[dto.TimeFilter]time.Duration{
	dto.TimeDaily:   24 * time.Hour,
	dto.TimeWeekly:  7 * 24 * time.Hour,
	dto.TimeMonthly: 30 * 24 * time.Hour,
	dto.TimeYearly:  365 * 24 * time.Hour,
}

// Parse validates a raw query value. Empty input yields def.
func Parse(raw string, def dto.TimeFilter) (dto.TimeFilter, error) {
	if raw == "" {
		return def, nil
	}
	tf := dto.TimeFilter(raw)
	if !tf.Valid() {
		return "", fmt.Errorf("invalid time_filter %q", raw)
	}
	return tf, nil
}

// Since returns the start of the window ending at now. ok is false for
// "all", which is unbounded.
func Since(tf dto.TimeFilter, now time.Time) (start time.Time, ok bool) {
	d, found := windows[tf]
	if !found {
		return time.Time{}, false
	}
	return now.Add(-d), true
}

// BucketFormat is the $dateToString format used to group trend points.
// Short windows bucket by day; a year or more buckets by month.
func BucketFormat(tf dto.TimeFilter) string {
	switch tf {
	case dto.TimeYearly, dto.TimeAll:
		return "%Y-%m"
	default:
		return "%Y-%m-%d"
	}
}
