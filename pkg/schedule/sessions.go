package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/event_bus"
	"github.com/alexwest1981/EduFlex-sub004/internal/utils"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

// SessionStore keeps one schedule Controller per user so lens and anchor
// state survive across requests. Idle sessions are swept on a schedule.
type SessionStore struct {
	source    event.Source
	projector Projector
	clock     utils.Clock
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[int]*Controller
}

func NewSessionStore(source event.Source, projector Projector, clock utils.Clock, ttl time.Duration) *SessionStore {
	return &SessionStore{
		source:    source,
		projector: projector,
		clock:     clock,
		ttl:       ttl,
		sessions:  make(map[int]*Controller),
	}
}

// ControllerFor returns the user's session controller, creating and loading
// it on first access.
func (s *SessionStore) ControllerFor(ctx context.Context, viewer user.User) *Controller {
	s.mu.Lock()
	c, ok := s.sessions[viewer.ID]
	if !ok {
		c = NewController(s.source, s.projector, viewer, s.clock.Now())
		s.sessions[viewer.ID] = c
	}
	s.mu.Unlock()

	if !ok {
		c.Load(ctx)
	}
	c.Touch(s.clock.Now())
	return c
}

// SweepExpired drops sessions idle longer than the TTL.
func (s *SessionStore) SweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.ttl)
	for id, c := range s.sessions {
		if c.LastTouched().Before(cutoff) {
			delete(s.sessions, id)
			log.Debugf("expired schedule session for user %d", id)
		}
	}
}

// StartSweeper schedules the expiry sweep on the shared cron runner.
func (s *SessionStore) StartSweeper(runner *cron.Cron) error {
	_, err := runner.AddFunc("@every 5m", s.SweepExpired)
	return err
}

// SubscribeInvalidation refreshes all live sessions whenever the event
// collection changes, so open week views reflect mutations promptly.
func (s *SessionStore) SubscribeInvalidation(bus *event_bus.EventBus) {
	refresh := func(e event_bus.Event) error {
		s.RefreshAll(e.Context())
		return nil
	}
	bus.Subscribe(event_bus.EventCreated, refresh)
	bus.Subscribe(event_bus.EventStatusChanged, refresh)
	bus.Subscribe(event_bus.EventDeleted, refresh)
}

// RefreshAll reloads every live session's event sets.
func (s *SessionStore) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	controllers := make([]*Controller, 0, len(s.sessions))
	for _, c := range s.sessions {
		controllers = append(controllers, c)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		c.Refresh(ctx)
	}
}
