package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID          string    `json:"id" gorm:"primaryKey" firestore:"-"`
	UserID      string    `json:"userId" gorm:"index;not null" firestore:"userId"`
	Title       string    `json:"title" gorm:"not null" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Date        time.Time `json:"date" gorm:"index;not null" firestore:"date"`
	Duration    int       `json:"duration" gorm:"not null;default:30" firestore:"duration"`
	Coach       string    `json:"coach" firestore:"coach"`
	Status      string    `json:"status" gorm:"not null;default:'scheduled'" firestore:"status"` // scheduled, completed, canceled, rescheduled
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

const (
	AppointmentScheduled   = "scheduled"
	AppointmentCompleted   = "completed"
	AppointmentCanceled    = "canceled"
	AppointmentRescheduled = "rescheduled"
)

const (
	DefaultCoach    = "AI Coach"
	DefaultDuration = 30
)

var Durations = []int{15, 30, 45, 60}

func IsValidDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}

func IsValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCanceled, AppointmentRescheduled:
		return true
	}
	return false
}

// End is the moment the session finishes.
func (a Appointment) End() time.Time {
	return a.Date.Add(time.Duration(a.Duration) * time.Minute)
}

type AppointmentInput struct {
	Title       string
	Description string
	Date        time.Time
	Duration    int
	Coach       string
	Status      string
}

// Normalize trims text and fills defaults for coach, duration and status.
func (in *AppointmentInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Coach = strings.TrimSpace(in.Coach)
	if in.Coach == "" {
		in.Coach = DefaultCoach
	}
	if in.Duration == 0 {
		in.Duration = DefaultDuration
	}
	if in.Status == "" {
		in.Status = AppointmentScheduled
	}
}

// Validate requires a title and a moment strictly after now.
func (in AppointmentInput) Validate(now time.Time) error {
	var v Validation
	if in.Title == "" {
		v.Add("title", "Appointment title is required")
	}
	if in.Date.IsZero() {
		v.Add("date", "Date and time are required")
	} else if !in.Date.After(now) {
		v.Add("date", "Appointment cannot be in the past")
	}
	if !IsValidDuration(in.Duration) {
		v.Add("duration", "Duration must be 15, 30, 45 or 60 minutes")
	}
	if !IsValidAppointmentStatus(in.Status) {
		v.Add("status", "Invalid status selected")
	}
	return v.Err()
}

func (a *Appointment) Apply(in AppointmentInput) {
	a.Title = in.Title
	a.Description = in.Description
	a.Date = in.Date
	a.Duration = in.Duration
	a.Coach = in.Coach
	a.Status = in.Status
}

// SortAppointments orders by date ascending; ties keep their input order.
func SortAppointments(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
}

// UpcomingAppointments returns up to limit appointments at or after now, soonest first.
func UpcomingAppointments(list []Appointment, now time.Time, limit int) []Appointment {
	sorted := append([]Appointment(nil), list...)
	SortAppointments(sorted)
	out := make([]Appointment, 0, limit)
	for _, a := range sorted {
		if a.Date.Before(now) {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

type AppointmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`     // 2006-01-02, or RFC3339 when Time is empty
	Time        string `json:"time"`     // 15:04
	Duration    int    `json:"duration"` // minutes
	Coach       string `json:"coach"`
	Status      string `json:"status"`
}
