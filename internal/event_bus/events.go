package event_bus

import "time"

const (
	EventCreated       EventType = "calendar.event.created"
	EventStatusChanged EventType = "calendar.event.status_changed"
	EventDeleted       EventType = "calendar.event.deleted"
)

// CalendarEventCreated is published after a booking is stored.
type CalendarEventCreated struct {
	ID        string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	OwnerID   int
	Status    string
}

// CalendarEventStatusChanged is published after an approve/reject transition.
type CalendarEventStatusChanged struct {
	ID        string
	OldStatus string
	NewStatus string
}

// CalendarEventDeleted is published after an event is removed.
type CalendarEventDeleted struct {
	ID string
}
