package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotifyAppointmentScheduled = "appointment_scheduled"
	NotifyAppointmentUpdated   = "appointment_updated"
	NotifyGoalCompleted        = "goal_completed"
)

type Notification struct {
	ID        string            `json:"id" gorm:"primaryKey" firestore:"-"`
	UserID    string            `json:"userId" gorm:"index;not null" firestore:"userId"`
	Type      string            `json:"type" gorm:"not null" firestore:"type"`
	Title     string            `json:"title" gorm:"not null" firestore:"title"`
	Body      string            `json:"body" firestore:"body"`
	Read      bool              `json:"read" gorm:"default:false" firestore:"read"`
	Data      map[string]string `json:"data,omitempty" gorm:"serializer:json" firestore:"data,omitempty"` // navigation context, e.g. appointmentId
	CreatedAt time.Time         `json:"createdAt" gorm:"index" firestore:"createdAt,serverTimestamp"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationPage is one page of a user's notifications, newest first.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Unread        int64          `json:"unread"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}
