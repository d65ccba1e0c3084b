package services

import (
	"fmt"
	"time"
)

const dayLayout = "20060102"

// DayKey is the counter key of the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}

// FormatOrderID builds a display id such as HM-20261017-007. The sequence
// is padded to three digits and grows past 999 without truncation.
func FormatOrderID(prefix, day string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day, seq)
}
