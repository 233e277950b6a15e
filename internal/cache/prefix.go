package cache

import "fmt"

type Prefix string

const (
	// ReminderSent marks a call schedule whose reminder was already claimed.
	ReminderSent Prefix = "reminder_sent"
	// JobStats holds notification job outcome counters.
	JobStats Prefix = "job_stats"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
