package models

// Event types pushed to a user's open sockets
const (
	EventSignedIn           = "session.signed_in"
	EventSignedOut          = "session.signed_out"
	EventGoalCreated        = "goal.created"
	EventGoalUpdated        = "goal.updated"
	EventGoalDeleted        = "goal.deleted"
	EventAppointmentCreated = "appointment.created"
	EventAppointmentUpdated = "appointment.updated"
	EventAppointmentDeleted = "appointment.deleted"
	EventJournalCreated     = "journal.created"
	EventJournalUpdated     = "journal.updated"
	EventJournalDeleted     = "journal.deleted"
	EventNotification       = "notification"
)

// Event is a change notification for one user.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Data any    `json:"data,omitempty"`
}
