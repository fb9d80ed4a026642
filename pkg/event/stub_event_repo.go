package event

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]Event

	// TeacherOf and StudentsOf let tests wire course membership without a
	// course table.
	TeacherOf  map[int]int   // courseID -> teacher userID
	StudentsOf map[int][]int // courseID -> student userIDs
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		events:     make(map[uuid.UUID]Event),
		TeacherOf:  make(map[int]int),
		StudentsOf: make(map[int][]int),
	}
}

func (s *StubRepository) StoreEvent(_ context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *StubRepository) GetEvent(_ context.Context, id uuid.UUID) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (s *StubRepository) GetAllEvents(_ context.Context, filter ListFilter) ([]Event, error) {
	return s.collect(func(Event) bool { return true }, filter), nil
}

func (s *StubRepository) GetEventsForParticipant(_ context.Context, userID int, filter ListFilter) ([]Event, error) {
	return s.collect(func(e Event) bool {
		if e.IsParticipant(userID) {
			return true
		}
		if e.CourseID != 0 {
			if s.TeacherOf[e.CourseID] == userID {
				return true
			}
			for _, id := range s.StudentsOf[e.CourseID] {
				if id == userID {
					return true
				}
			}
		}
		return false
	}, filter), nil
}

func (s *StubRepository) GetEventsForCourse(_ context.Context, courseID int, filter ListFilter) ([]Event, error) {
	return s.collect(func(e Event) bool { return e.CourseID == courseID }, filter), nil
}

func (s *StubRepository) GetOverlappingEvents(_ context.Context, userID int, start, end time.Time, exclude uuid.UUID) ([]Event, error) {
	return s.collect(func(e Event) bool {
		return e.ID != exclude &&
			e.Status != StatusRejected &&
			e.IsParticipant(userID) &&
			e.StartTime.Before(end) && e.EndTime.After(start)
	}, ListFilter{}), nil
}

func (s *StubRepository) UpdateEventStatus(_ context.Context, id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return ErrEventNotFound
	}
	e.Status = status
	s.events[id] = e
	return nil
}

func (s *StubRepository) DeleteEvent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *StubRepository) collect(match func(Event) bool, filter ListFilter) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if match(e) && matchesFilter(e, filter) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events
}

func matchesFilter(e Event, filter ListFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	return true
}
