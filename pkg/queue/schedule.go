package queue

import (
	"fmt"
	"time"
)

// Schedule computes the next run of a periodic task.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

type every time.Duration

func (e every) Next(from time.Time) time.Time { return from.Add(time.Duration(e)) }
func (e every) String() string                { return fmt.Sprintf("every %v", time.Duration(e)) }

// clock fires at a wall clock time. Fields set to -1 are free.
type clock struct {
	weekday time.Weekday
	hour    int
	minute  int
}

func (c clock) Next(from time.Time) time.Time {
	hour := c.hour
	if hour < 0 {
		hour = from.Hour()
	}
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, c.minute, 0, 0, from.Location())

	switch {
	case c.weekday >= 0:
		next = next.AddDate(0, 0, (int(c.weekday)-int(from.Weekday())+7)%7)
		if !next.After(from) {
			next = next.AddDate(0, 0, 7)
		}
	case c.hour >= 0:
		if !next.After(from) {
			next = next.AddDate(0, 0, 1)
		}
	default:
		if !next.After(from) {
			next = next.Add(time.Hour)
		}
	}
	return next
}

func (c clock) String() string {
	switch {
	case c.weekday >= 0:
		return fmt.Sprintf("weekly on %s at %02d:%02d", c.weekday, c.hour, c.minute)
	case c.hour >= 0:
		return fmt.Sprintf("daily at %02d:%02d", c.hour, c.minute)
	default:
		return fmt.Sprintf("hourly at :%02d", c.minute)
	}
}

// Every runs at a fixed interval after the previous run.
func Every(d time.Duration) Schedule { return every(d) }

// HourlyAt runs every hour at minute.
func HourlyAt(minute int) Schedule { return clock{weekday: -1, hour: -1, minute: minute} }

// DailyAt runs every day at hour:minute.
func DailyAt(hour, minute int) Schedule { return clock{weekday: -1, hour: hour, minute: minute} }

// WeeklyOn runs every week on weekday at hour:minute.
func WeeklyOn(weekday time.Weekday, hour, minute int) Schedule {
	return clock{weekday: weekday, hour: hour, minute: minute}
}
