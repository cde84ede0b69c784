package irrigation

import (
	"fmt"
	"time"
)

const (
	endTimeLayout = "15:04:05"
	logTimeLayout = "2006-01-02 15:04:05"
)

// StartAt returns today's date (in loc, as seen from now) at hour:minute:00.
func StartAt(now time.Time, hour, minute int, loc *time.Location) (time.Time, error) {
	if hour < 0 || hour > 23 {
		return time.Time{}, invalid("startAt", "hour", fmt.Sprintf("%d not in 0..23", hour))
	}
	if minute < 0 || minute > 59 {
		return time.Time{}, invalid("startAt", "minute", fmt.Sprintf("%d not in 0..59", minute))
	}
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

func FormatEndTime(t time.Time) string { return t.Format(endTimeLayout) }

func FormatLogTime(t time.Time) string { return t.Format(logTimeLayout) }
