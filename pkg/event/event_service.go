package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/event_bus"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

// maskedTitle replaces the title of meetings the viewer is not part of.
const maskedTitle = "Busy"

type Service interface {
	Source

	GetEvent(ctx context.Context, id uuid.UUID) (Event, error)
	// EventsForActor is the role-scoped listing behind GET /api/events:
	// admins and principals get the whole school, everyone else their own
	// participation set.
	EventsForActor(ctx context.Context, filter ListFilter) ([]Event, error)
	// EventsForFeed returns everything a user owns or attends within the
	// given window, unmasked, for calendar export.
	EventsForFeed(ctx context.Context, userID int, from, to time.Time) ([]Event, error)

	CreateEvent(ctx context.Context, e Event) (Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next Status) (Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	// IsUserBusy reports whether the user already has a non-rejected event
	// overlapping the window. Advisory only, creation is never blocked.
	IsUserBusy(ctx context.Context, userID int, start, end time.Time, exclude uuid.UUID) (bool, error)
}

type ServiceImpl struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewEventService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *ServiceImpl) EventsGlobal(ctx context.Context, filter ListFilter) ([]Event, error) {
	return s.repo.GetAllEvents(ctx, filter)
}

func (s *ServiceImpl) EventsForUser(ctx context.Context, userID int, filter ListFilter) ([]Event, error) {
	return s.repo.GetEventsForParticipant(ctx, userID, filter)
}

func (s *ServiceImpl) EventsForCourse(ctx context.Context, courseID int, filter ListFilter) ([]Event, error) {
	return s.repo.GetEventsForCourse(ctx, courseID, filter)
}

func (s *ServiceImpl) EventsForActor(ctx context.Context, filter ListFilter) ([]Event, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	var events []Event
	if user.CapabilitiesOf(actor.Role).CanViewAll {
		events, err = s.repo.GetAllEvents(ctx, filter)
	} else {
		events, err = s.repo.GetEventsForParticipant(ctx, actor.ID, filter)
	}
	if err != nil {
		return nil, err
	}
	return maskPrivateEvents(events, actor), nil
}

func (s *ServiceImpl) EventsForFeed(ctx context.Context, userID int, from, to time.Time) ([]Event, error) {
	all, err := s.repo.GetEventsForParticipant(ctx, userID, ListFilter{})
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(all))
	for _, e := range all {
		if e.StartTime.Before(to) && e.EndTime.After(from) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, e Event) (Event, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if e.StartTime.After(e.EndTime) {
		return Event{}, ErrInvalidTimeRange
	}

	if e.OwnerID == 0 {
		e.OwnerID = actor.ID
		e.OwnerName = actor.DisplayName()
	}
	if e.Type == "" {
		e.Type = TypeOther
	}
	if e.Platform == "" {
		e.Platform = PlatformNone
	}
	e.Status = CreationStatus(e.Status, user.CapabilitiesOf(actor.Role))

	stored, err := s.repo.StoreEvent(ctx, e)
	if err != nil {
		return Event{}, err
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventCreated, event_bus.CalendarEventCreated{
		ID:        stored.ID.String(),
		Title:     stored.Title,
		StartTime: stored.StartTime,
		EndTime:   stored.EndTime,
		OwnerID:   stored.OwnerID,
		Status:    string(stored.Status),
	}))
	if err != nil {
		log.Warnf("failed to publish event created: %v", err)
	}
	return stored, nil
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, next Status) (Event, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !user.CapabilitiesOf(actor.Role).CanMutateStatus {
		return Event{}, ErrForbidden
	}

	current, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if !CanTransition(current.Status, next) {
		return Event{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	if err := s.repo.UpdateEventStatus(ctx, id, next); err != nil {
		return Event{}, err
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventStatusChanged, event_bus.CalendarEventStatusChanged{
		ID:        id.String(),
		OldStatus: string(current.Status),
		NewStatus: string(next),
	}))
	if err != nil {
		log.Warnf("failed to publish status change: %v", err)
	}

	current.Status = next
	return current, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if !user.CapabilitiesOf(actor.Role).CanDelete {
		return ErrForbidden
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventDeleted, event_bus.CalendarEventDeleted{
		ID: id.String(),
	}))
	if err != nil {
		log.Warnf("failed to publish event deleted: %v", err)
	}
	return nil
}

func (s *ServiceImpl) IsUserBusy(ctx context.Context, userID int, start, end time.Time, exclude uuid.UUID) (bool, error) {
	overlapping, err := s.repo.GetOverlappingEvents(ctx, userID, start, end, exclude)
	if err != nil {
		return false, err
	}
	return len(overlapping) > 0, nil
}

// maskPrivateEvents hides the details of meetings the viewer does not
// participate in. Admins see everything.
func maskPrivateEvents(events []Event, viewer user.User) []Event {
	if viewer.Role == user.RoleAdmin {
		return events
	}
	masked := make([]Event, len(events))
	for i, e := range events {
		if e.Type == TypeMeeting && !e.IsParticipant(viewer.ID) {
			e.Title = maskedTitle
			e.Description = ""
			e.MeetingLink = ""
			e.Topic = ""
		}
		masked[i] = e
	}
	return masked
}
