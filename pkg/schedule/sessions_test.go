package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwest1981/EduFlex-sub004/internal/event_bus"
	"github.com/alexwest1981/EduFlex-sub004/internal/utils"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
)

func TestSessionStoreReusesController(t *testing.T) {
	clock := &utils.MockClock{FixedNow: testNow}
	store := NewSessionStore(NewStubSource(), testProjector(), clock, time.Hour)
	ctx := context.Background()

	first := store.ControllerFor(ctx, scheduleStudent)
	first.Navigate(ctx, 2)

	second := store.ControllerFor(ctx, scheduleStudent)
	assert.Same(t, first, second)
	assert.Equal(t, time.Date(2024, 6, 24, 0, 0, 0, 0, time.Local), second.Page().WeekAnchor)

	other := store.ControllerFor(ctx, scheduleAdmin)
	assert.NotSame(t, first, other)
}

func TestSessionStoreSweepsIdleSessions(t *testing.T) {
	clock := &utils.MockClock{FixedNow: testNow}
	store := NewSessionStore(NewStubSource(), testProjector(), clock, time.Hour)
	ctx := context.Background()

	first := store.ControllerFor(ctx, scheduleStudent)
	first.Navigate(ctx, 1)

	clock.SetNow(testNow.Add(30 * time.Minute))
	store.SweepExpired()
	assert.Same(t, first, store.ControllerFor(ctx, scheduleStudent), "fresh session survives the sweep")

	clock.SetNow(testNow.Add(2 * time.Hour))
	store.SweepExpired()
	replacement := store.ControllerFor(ctx, scheduleStudent)
	assert.NotSame(t, first, replacement, "idle session is dropped and rebuilt")
}

func TestSessionStoreRefreshOnBusEvents(t *testing.T) {
	source := NewStubSource()
	clock := &utils.MockClock{FixedNow: testNow}
	store := NewSessionStore(source, testProjector(), clock, time.Hour)
	bus := event_bus.NewEventBus()
	store.SubscribeInvalidation(bus)
	ctx := context.Background()

	c := store.ControllerFor(ctx, scheduleStudent)
	require.Empty(t, allTitles(c.Page()))

	source.UserEvents[scheduleStudent.ID] = []event.Event{weekEvent("new booking", 10, 9, 3)}
	err := bus.Publish(event_bus.NewEvent(ctx, event_bus.EventCreated, event_bus.CalendarEventCreated{ID: "x"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"new booking"}, allTitles(c.Page()))
}
