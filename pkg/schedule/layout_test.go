package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
)

func testProjector() Projector {
	return Projector{
		Window:       HourRange{StartHour: 8, EndHour: 18},
		HourHeightPx: 80,
		MinHeightPx:  20,
	}
}

func eventAt(title string, start, end time.Time) event.Event {
	return event.Event{Title: title, StartTime: start, EndTime: end, Type: event.TypeLesson}
}

func TestPlaceGeometry(t *testing.T) {
	p := testProjector()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	placed := p.Place(Placement{Event: eventAt("lesson",
		day.Add(9*time.Hour),
		day.Add(10*time.Hour+30*time.Minute))})

	assert.Equal(t, 80.0, placed.Top)
	assert.Equal(t, 120.0, placed.Height)
}

func TestPlaceMinimumHeight(t *testing.T) {
	p := testProjector()
	instant := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

	placed := p.Place(Placement{Event: eventAt("zero", instant, instant)})
	assert.Equal(t, 20.0, placed.Height)

	short := p.Place(Placement{Event: eventAt("short", instant, instant.Add(5*time.Minute))})
	assert.Equal(t, 20.0, short.Height)
}

func TestPlaceBeforeWindowStart(t *testing.T) {
	p := testProjector()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	placed := p.Place(Placement{Event: eventAt("early",
		day.Add(7*time.Hour), day.Add(8*time.Hour))})
	assert.Equal(t, -80.0, placed.Top)
}

func TestProjectWeekBucketsByStartDay(t *testing.T) {
	p := testProjector()
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	placements := []Placement{
		{Event: eventAt("monday", monday.Add(9*time.Hour), monday.Add(10*time.Hour))},
		{Event: eventAt("wednesday", monday.AddDate(0, 0, 2).Add(13*time.Hour), monday.AddDate(0, 0, 2).Add(14*time.Hour))},
		{Event: eventAt("next week", monday.AddDate(0, 0, 7).Add(9*time.Hour), monday.AddDate(0, 0, 7).Add(10*time.Hour))},
	}

	days := p.ProjectWeek(monday, placements)

	require.Len(t, days[0].Events, 1)
	assert.Equal(t, "monday", days[0].Events[0].Event.Title)
	require.Len(t, days[2].Events, 1)
	assert.Equal(t, "wednesday", days[2].Events[0].Event.Title)

	total := 0
	for _, d := range days {
		total += len(d.Events)
	}
	assert.Equal(t, 2, total, "out-of-week events are dropped, nothing doubles")
}

func TestProjectWeekOverlappingEventsBothPlaced(t *testing.T) {
	p := testProjector()
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	placements := []Placement{
		{Event: eventAt("first", monday.Add(9*time.Hour), monday.Add(10*time.Hour))},
		{Event: eventAt("second", monday.Add(9*time.Hour+30*time.Minute), monday.Add(10*time.Hour+30*time.Minute))},
	}

	days := p.ProjectWeek(monday, placements)
	require.Len(t, days[0].Events, 2)

	first, second := days[0].Events[0], days[0].Events[1]
	assert.Equal(t, 80.0, first.Top)
	assert.Equal(t, 80.0, first.Height)
	assert.Equal(t, 120.0, second.Top)
	assert.Equal(t, 80.0, second.Height)
}

func TestProjectWeekSecondariesSortFirst(t *testing.T) {
	p := testProjector()
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	placements := []Placement{
		{Event: eventAt("primary", monday.Add(9*time.Hour), monday.Add(10*time.Hour))},
		{Event: eventAt("secondary", monday.Add(11*time.Hour), monday.Add(12*time.Hour)), IsSecondary: true},
	}

	days := p.ProjectWeek(monday, placements)
	require.Len(t, days[0].Events, 2)
	assert.True(t, days[0].Events[0].IsSecondary)
	assert.False(t, days[0].Events[1].IsSecondary)
}
