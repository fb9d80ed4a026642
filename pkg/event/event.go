package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLesson     Type = "LESSON"
	TypeExam       Type = "EXAM"
	TypeWorkshop   Type = "WORKSHOP"
	TypeMeeting    Type = "MEETING"
	TypeAssignment Type = "ASSIGNMENT"
	TypeOther      Type = "OTHER"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
)

type Platform string

const (
	PlatformNone     Platform = "NONE"
	PlatformExamRoom Platform = "EXAM_ROOM"
	PlatformZoom     Platform = "ZOOM"
	PlatformTeams    Platform = "TEAMS"
	PlatformMeets    Platform = "MEETS"
)

// UnknownOwnerName is the display fallback when an event has no owner.
const UnknownOwnerName = "Unknown"

// Event is a normalized calendar event. Start and end carry local wall-clock
// time; the layout projector reads their hour/minute fields directly.
type Event struct {
	ID          uuid.UUID
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Type        Type
	Status      Status
	Platform    Platform
	MeetingLink string
	IsMandatory bool
	Topic       string
	OwnerID     int
	OwnerName   string
	CourseID    int
	AttendeeIDs []int
}

// IsParticipant reports whether the user owns or attends the event.
func (e Event) IsParticipant(userID int) bool {
	if e.OwnerID == userID {
		return true
	}
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ListFilter narrows a listing to given event types and/or a free-text
// search over title and description.
type ListFilter struct {
	Types  []Type
	Search string
}

// Source is where the schedule engine reads events from: either the local
// store or a remote EduFlex deployment.
type Source interface {
	EventsGlobal(ctx context.Context, filter ListFilter) ([]Event, error)
	EventsForUser(ctx context.Context, userID int, filter ListFilter) ([]Event, error)
	EventsForCourse(ctx context.Context, courseID int, filter ListFilter) ([]Event, error)
}
