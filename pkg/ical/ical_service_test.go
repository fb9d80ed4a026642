package ical

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwest1981/EduFlex-sub004/internal/utils"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

type stubFeedSource struct {
	events []event.Event
	from   time.Time
	to     time.Time
}

func (s *stubFeedSource) EventsForFeed(_ context.Context, _ int, from, to time.Time) ([]event.Event, error) {
	s.from, s.to = from, to
	return s.events, nil
}

func TestFeedTokenStableAndUserBound(t *testing.T) {
	assert.Equal(t, FeedToken("secret", 7), FeedToken("secret", 7))
	assert.NotEqual(t, FeedToken("secret", 7), FeedToken("secret", 8))
	assert.NotEqual(t, FeedToken("secret", 7), FeedToken("other", 7))

	assert.True(t, ValidToken("secret", 7, FeedToken("secret", 7)))
	assert.False(t, ValidToken("secret", 7, FeedToken("secret", 8)))
	assert.False(t, ValidToken("secret", 7, "forged"))
}

func TestTokenForCurrentUser(t *testing.T) {
	service := NewICalService(&stubFeedSource{}, &utils.MockClock{}, "secret")

	ctx := user.WithUser(context.Background(), user.User{ID: 7, Role: user.RoleStudent})
	userID, token, err := service.TokenForCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.Equal(t, FeedToken("secret", 7), token)

	_, _, err = service.TokenForCurrentUser(context.Background())
	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestFeedRejectsBadToken(t *testing.T) {
	service := NewICalService(&stubFeedSource{}, &utils.MockClock{}, "secret")
	_, err := service.Feed(context.Background(), 7, "wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFeedRendersEvents(t *testing.T) {
	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	id := uuid.New()
	source := &stubFeedSource{events: []event.Event{
		{
			ID:        id,
			Title:     "Math lesson",
			StartTime: time.Date(2024, 6, 13, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC),
			Status:    event.StatusConfirmed,
		},
		{
			ID:     id, // duplicate uid, must be emitted once
			Title:  "Math lesson",
			Status: event.StatusConfirmed,
		},
	}}
	service := NewICalService(source, &utils.MockClock{FixedNow: now}, "secret")

	feed, err := service.Feed(context.Background(), 7, FeedToken("secret", 7))
	require.NoError(t, err)

	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.Contains(t, feed, "SUMMARY:Math lesson")
	assert.Contains(t, feed, "STATUS:CONFIRMED")
	assert.Equal(t, 1, strings.Count(feed, "BEGIN:VEVENT"))

	// window: 30 days back, one year ahead
	assert.Equal(t, now.Add(-30*24*time.Hour), source.from)
	assert.Equal(t, now.Add(365*24*time.Hour), source.to)
}
