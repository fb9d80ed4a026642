package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := RawEvent{
		ID:        "6a7f1f64-9f44-4b1a-8a43-0a9b0f6a1d11",
		Title:     "Math lesson",
		StartTime: "2024-06-10T09:00:00",
		EndTime:   "2024-06-10T10:30:00",
		Type:      "LESSON",
		Status:    "CONFIRMED",
		Owner:     &RawOwner{ID: 7, FirstName: "Anna", LastName: "Berg"},
		Course:    &RawCourse{ID: 3},
		Attendees: []RawOwner{{ID: 11}, {ID: 12}},
	}

	e, err := raw.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "Math lesson", e.Title)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local), e.StartTime)
	assert.Equal(t, time.Date(2024, 6, 10, 10, 30, 0, 0, time.Local), e.EndTime)
	assert.Equal(t, TypeLesson, e.Type)
	assert.Equal(t, StatusConfirmed, e.Status)
	assert.Equal(t, 7, e.OwnerID)
	assert.Equal(t, "Anna Berg", e.OwnerName)
	assert.Equal(t, 3, e.CourseID)
	assert.Equal(t, []int{11, 12}, e.AttendeeIDs)
}

func TestNormalizeOwnerFallback(t *testing.T) {
	raw := RawEvent{
		Title:     "Orphan event",
		StartTime: "2024-06-10T09:00:00",
		EndTime:   "2024-06-10T10:00:00",
	}

	e, err := raw.Normalize()
	require.NoError(t, err)

	assert.Equal(t, 0, e.OwnerID)
	assert.Equal(t, UnknownOwnerName, e.OwnerName)
	assert.Equal(t, TypeOther, e.Type)
	assert.Equal(t, StatusPending, e.Status)
	assert.Equal(t, PlatformNone, e.Platform)
}

func TestNormalizeRejectsBadTimestamps(t *testing.T) {
	_, err := RawEvent{Title: "x", StartTime: "not-a-date", EndTime: "2024-06-10T10:00:00"}.Normalize()
	assert.Error(t, err)

	_, err = RawEvent{Title: "x", StartTime: "2024-06-10T09:00:00", EndTime: ""}.Normalize()
	assert.Error(t, err)
}

func TestNormalizeAcceptsRFC3339(t *testing.T) {
	e, err := RawEvent{
		Title:     "zoned",
		StartTime: "2024-06-10T09:00:00Z",
		EndTime:   "2024-06-10T10:00:00Z",
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), e.StartTime)
}

func TestDecodeEventsQuarantinesBadRecords(t *testing.T) {
	payload := `[
		{"title": "good", "startTime": "2024-06-10T09:00:00", "endTime": "2024-06-10T10:00:00"},
		{"title": "bad", "startTime": "garbage", "endTime": "2024-06-10T10:00:00"},
		{"title": "also good", "startTime": "2024-06-11T09:00:00", "endTime": "2024-06-11T10:00:00"}
	]`

	events := DecodeEvents(strings.NewReader(payload))
	require.Len(t, events, 2)
	assert.Equal(t, "good", events[0].Title)
	assert.Equal(t, "also good", events[1].Title)
}

func TestDecodeEventsMalformedPayload(t *testing.T) {
	assert.Empty(t, DecodeEvents(strings.NewReader(`{"not": "an array"}`)))
	assert.Empty(t, DecodeEvents(strings.NewReader(`garbage`)))
}
