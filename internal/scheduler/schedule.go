package scheduler

import "time"

// Schedule decides when the next batch fires.
type Schedule interface {
	// Next returns the first trigger time strictly after now.
	Next(now time.Time) time.Time
}

type every time.Duration

// Every fires at a fixed interval measured from the previous trigger.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = DefaultInterval
	}
	return every(d)
}

func (e every) Next(now time.Time) time.Time {
	return now.Add(time.Duration(e))
}

func (e every) String() string {
	return "every " + time.Duration(e).String()
}

type dailyAt struct {
	hour, minute int
	loc          *time.Location
}

// DailyAt fires once a day at hour:minute wall-clock time in loc.
func DailyAt(hour, minute int, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return dailyAt{hour: hour, minute: minute, loc: loc}
}

func (d dailyAt) Next(now time.Time) time.Time {
	local := now.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

func (d dailyAt) String() string {
	return time.Date(2000, 1, 1, d.hour, d.minute, 0, 0, d.loc).Format("daily at 15:04 MST")
}
