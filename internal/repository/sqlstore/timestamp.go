package sqlstore

import (
	"fmt"
	"time"
)

// TimeLayout is the canonical storage format: RFC3339, millisecond precision, UTC.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// legacyLayouts are accepted on read so rows written by older builds still load.
var legacyLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
