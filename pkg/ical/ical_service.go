package ical

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/alexwest1981/EduFlex-sub004/internal/utils"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

var ErrInvalidToken = errors.New("invalid feed token")

const (
	feedLookBehind = 30 * 24 * time.Hour
	feedLookAhead  = 365 * 24 * time.Hour
)

// FeedSource is the slice of the event service the feed needs.
type FeedSource interface {
	EventsForFeed(ctx context.Context, userID int, from, to time.Time) ([]event.Event, error)
}

type Service interface {
	// TokenForCurrentUser returns the feed path component for the actor.
	TokenForCurrentUser(ctx context.Context) (userID int, token string, err error)
	// Feed renders the user's calendar as an ICS document. The token guards
	// access since feed URLs are fetched without a session.
	Feed(ctx context.Context, userID int, token string) (string, error)
}

type ServiceImpl struct {
	source FeedSource
	clock  utils.Clock
	secret string
}

func NewICalService(source FeedSource, clock utils.Clock, secret string) *ServiceImpl {
	return &ServiceImpl{source: source, clock: clock, secret: secret}
}

func (s *ServiceImpl) TokenForCurrentUser(ctx context.Context) (int, string, error) {
	userID, err := user.CurrentId(ctx)
	if err != nil {
		return 0, "", err
	}
	return userID, FeedToken(s.secret, userID), nil
}

func (s *ServiceImpl) Feed(ctx context.Context, userID int, token string) (string, error) {
	if !ValidToken(s.secret, userID, token) {
		return "", ErrInvalidToken
	}

	now := s.clock.Now()
	events, err := s.source.EventsForFeed(ctx, userID, now.Add(-feedLookBehind), now.Add(feedLookAhead))
	if err != nil {
		return "", fmt.Errorf("failed to load feed events: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//EduFlex//Schedule//EN")

	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		uid := e.ID.String()
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}

		entry := cal.AddEvent(uid)
		entry.SetDtStampTime(now)
		entry.SetStartAt(e.StartTime)
		entry.SetEndAt(e.EndTime)
		entry.SetSummary(e.Title)
		if e.Description != "" {
			entry.SetDescription(e.Description)
		}
		if e.MeetingLink != "" {
			entry.SetLocation(e.MeetingLink)
		}
		entry.SetStatus(icsStatus(e.Status))
	}
	return cal.Serialize(), nil
}

func icsStatus(status event.Status) ics.ObjectStatus {
	switch status {
	case event.StatusConfirmed:
		return ics.ObjectStatusConfirmed
	case event.StatusRejected:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusTentative
	}
}
