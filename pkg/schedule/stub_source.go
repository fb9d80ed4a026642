package schedule

import (
	"context"
	"errors"
	"sync"

	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
)

// StubSource is an in-memory event.Source for tests.
type StubSource struct {
	mu           sync.Mutex
	GlobalEvents []event.Event
	UserEvents   map[int][]event.Event
	CourseEvents map[int][]event.Event
	Fail         bool

	// Gate, when set, blocks every fetch until it is closed. Started, when
	// set, receives a signal as each fetch begins. Used to exercise
	// in-flight fetch ordering.
	Gate    chan struct{}
	Started chan struct{}
}

func NewStubSource() *StubSource {
	return &StubSource{
		UserEvents:   make(map[int][]event.Event),
		CourseEvents: make(map[int][]event.Event),
	}
}

func (s *StubSource) wait() {
	s.mu.Lock()
	gate := s.Gate
	started := s.Started
	s.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
}

func (s *StubSource) fetch(pick func() []event.Event) ([]event.Event, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, errors.New("source unavailable")
	}
	events := pick()
	out := make([]event.Event, len(events))
	copy(out, events)
	return out, nil
}

func (s *StubSource) EventsGlobal(_ context.Context, _ event.ListFilter) ([]event.Event, error) {
	return s.fetch(func() []event.Event { return s.GlobalEvents })
}

func (s *StubSource) EventsForUser(_ context.Context, userID int, _ event.ListFilter) ([]event.Event, error) {
	return s.fetch(func() []event.Event { return s.UserEvents[userID] })
}

func (s *StubSource) EventsForCourse(_ context.Context, courseID int, _ event.ListFilter) ([]event.Event, error) {
	return s.fetch(func() []event.Event { return s.CourseEvents[courseID] })
}
