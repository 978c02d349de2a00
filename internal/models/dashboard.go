package models

import "math"

// DashboardLimit caps the upcoming appointments and recent goals shown.
const DashboardLimit = 3

type Dashboard struct {
	FirstName            string        `json:"firstName"`
	Streak               int           `json:"streak"`
	UpcomingAppointments []Appointment `json:"upcomingAppointments"`
	RecentGoals          []GoalView    `json:"recentGoals"`
	CompletionRate       int           `json:"completionRate"`
	JournalEntries       int           `json:"journalEntries"`
}

// CompletionRate is the share of goals whose stored completed flag is set.
func CompletionRate(goals []Goal) int {
	if len(goals) == 0 {
		return 0
	}
	done := 0
	for _, g := range goals {
		if g.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(goals))))
}
