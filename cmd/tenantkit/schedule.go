package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/queue"
)

// parseSchedule reads "every@<duration>", "hourly@<minute>" or
// "daily@<hh:mm>".
func parseSchedule(s string) (queue.Schedule, error) {
	kind, arg, ok := strings.Cut(s, "@")
	if !ok {
		return nil, fmt.Errorf("invalid schedule %q", s)
	}
	switch kind {
	case "every":
		d, err := time.ParseDuration(arg)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid schedule %q", s)
		}
		return queue.Every(d), nil
	case "hourly":
		var m int
		if _, err := fmt.Sscanf(arg, "%d", &m); err != nil || m < 0 || m > 59 {
			return nil, fmt.Errorf("invalid schedule %q", s)
		}
		return queue.HourlyAt(m), nil
	case "daily":
		t, err := time.Parse("15:04", arg)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q", s)
		}
		return queue.DailyAt(t.Hour(), t.Minute()), nil
	}
	return nil, fmt.Errorf("invalid schedule %q", s)
}
