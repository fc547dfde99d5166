package sqlite

import (
	"fmt"
	"strings"
	"time"
)

const storedLayout = time.RFC3339Nano

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
}

var naiveLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
}

func formatTimestamp(t time.Time) string {
	return t.Format(storedLayout)
}

// parseTimestamp decodes a stored timestamp. naive reports that the text
// carried no zone; the returned time then holds the wall clock in UTC.
func parseTimestamp(raw string) (t time.Time, naive bool, err error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range zonedLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			return t, false, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", raw)
}
