package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwest1981/EduFlex-sub004/internal/event_bus"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

var (
	adminUser   = user.User{ID: 1, Username: "admin", FirstName: "Alva", LastName: "Admin", Role: user.RoleAdmin}
	teacherUser = user.User{ID: 2, Username: "teacher", FirstName: "Tomas", LastName: "Tell", Role: user.RoleTeacher}
	studentUser = user.User{ID: 3, Username: "student", FirstName: "Stina", LastName: "Strand", Role: user.RoleStudent}
)

func serviceFixture(t *testing.T) (*ServiceImpl, *StubRepository, *event_bus.EventBus) {
	t.Helper()
	repo := NewStubRepository()
	bus := event_bus.NewEventBus()
	return NewEventService(repo, bus), repo, bus
}

func ctxFor(u user.User) context.Context {
	return user.WithUser(context.Background(), u)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.Local)
}

func TestCreateEventStudentForcedPending(t *testing.T) {
	service, _, _ := serviceFixture(t)

	created, err := service.CreateEvent(ctxFor(studentUser), Event{
		Title:     "Extra help",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
		Status:    StatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, studentUser.ID, created.OwnerID)
	assert.Equal(t, "Stina Strand", created.OwnerName)
}

func TestCreateEventTeacherConfirmed(t *testing.T) {
	service, _, _ := serviceFixture(t)

	created, err := service.CreateEvent(ctxFor(teacherUser), Event{
		Title:     "Math lesson",
		Type:      TypeLesson,
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, created.Status)
}

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	service, _, _ := serviceFixture(t)

	_, err := service.CreateEvent(ctxFor(teacherUser), Event{
		Title:     "backwards",
		StartTime: at(10, 10, 0),
		EndTime:   at(10, 9, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateEventAcceptsZeroLength(t *testing.T) {
	service, _, _ := serviceFixture(t)

	// start == end is a valid booking, it renders at minimum height
	created, err := service.CreateEvent(ctxFor(teacherUser), Event{
		Title:     "deadline",
		Type:      TypeAssignment,
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 9, 0),
	})
	require.NoError(t, err)
	assert.True(t, created.StartTime.Equal(created.EndTime))
}

func TestCreateEventPublishesToBus(t *testing.T) {
	service, _, bus := serviceFixture(t)

	var published []event_bus.Event
	bus.Subscribe(event_bus.EventCreated, func(e event_bus.Event) error {
		published = append(published, e)
		return nil
	})

	created, err := service.CreateEvent(ctxFor(teacherUser), Event{
		Title:     "Lesson",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
	})
	require.NoError(t, err)

	require.Len(t, published, 1)
	payload, ok := published[0].Data.(event_bus.CalendarEventCreated)
	require.True(t, ok)
	assert.Equal(t, created.ID.String(), payload.ID)
}

func TestUpdateStatusApproveFlow(t *testing.T) {
	service, _, _ := serviceFixture(t)

	created, err := service.CreateEvent(ctxFor(studentUser), Event{
		Title:     "Booking",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)

	updated, err := service.UpdateStatus(ctxFor(teacherUser), created.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	// settled bookings cannot be reopened or flipped
	_, err = service.UpdateStatus(ctxFor(teacherUser), created.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = service.UpdateStatus(ctxFor(teacherUser), created.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusStudentForbidden(t *testing.T) {
	service, _, _ := serviceFixture(t)

	created, err := service.CreateEvent(ctxFor(studentUser), Event{
		Title:     "Booking",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
	})
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctxFor(studentUser), created.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteEvent(t *testing.T) {
	service, repo, _ := serviceFixture(t)

	created, err := service.CreateEvent(ctxFor(teacherUser), Event{
		Title:     "To delete",
		StartTime: at(10, 9, 0),
		EndTime:   at(10, 10, 0),
	})
	require.NoError(t, err)

	err = service.DeleteEvent(ctxFor(studentUser), created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, service.DeleteEvent(ctxFor(teacherUser), created.ID))
	_, err = repo.GetEvent(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventsForActorScoping(t *testing.T) {
	service, repo, _ := serviceFixture(t)

	_, err := repo.StoreEvent(context.Background(), Event{
		Title: "teacher only", Type: TypeLesson, Status: StatusConfirmed,
		StartTime: at(10, 9, 0), EndTime: at(10, 10, 0), OwnerID: teacherUser.ID,
	})
	require.NoError(t, err)
	_, err = repo.StoreEvent(context.Background(), Event{
		Title: "student attends", Type: TypeWorkshop, Status: StatusConfirmed,
		StartTime: at(11, 9, 0), EndTime: at(11, 10, 0), OwnerID: teacherUser.ID,
		AttendeeIDs: []int{studentUser.ID},
	})
	require.NoError(t, err)

	adminEvents, err := service.EventsForActor(ctxFor(adminUser), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, adminEvents, 2)

	studentEvents, err := service.EventsForActor(ctxFor(studentUser), ListFilter{})
	require.NoError(t, err)
	require.Len(t, studentEvents, 1)
	assert.Equal(t, "student attends", studentEvents[0].Title)
}

func TestEventsForActorMasksForeignMeetings(t *testing.T) {
	service, repo, _ := serviceFixture(t)

	_, err := repo.StoreEvent(context.Background(), Event{
		Title: "Salary talk", Description: "confidential", Type: TypeMeeting,
		Status: StatusConfirmed, MeetingLink: "https://meet/x",
		StartTime: at(10, 9, 0), EndTime: at(10, 10, 0), OwnerID: 99,
		CourseID: 5,
	})
	require.NoError(t, err)
	repo.StudentsOf[5] = []int{studentUser.ID}

	events, err := service.EventsForActor(ctxFor(studentUser), ListFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Busy", events[0].Title)
	assert.Empty(t, events[0].Description)
	assert.Empty(t, events[0].MeetingLink)

	adminEvents, err := service.EventsForActor(ctxFor(adminUser), ListFilter{})
	require.NoError(t, err)
	require.Len(t, adminEvents, 1)
	assert.Equal(t, "Salary talk", adminEvents[0].Title)
}

func TestIsUserBusy(t *testing.T) {
	service, repo, _ := serviceFixture(t)

	stored, err := repo.StoreEvent(context.Background(), Event{
		Title: "Lesson", Type: TypeLesson, Status: StatusConfirmed,
		StartTime: at(10, 9, 0), EndTime: at(10, 10, 0), OwnerID: teacherUser.ID,
	})
	require.NoError(t, err)

	busy, err := service.IsUserBusy(context.Background(), teacherUser.ID, at(10, 9, 30), at(10, 10, 30), uuid.Nil)
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = service.IsUserBusy(context.Background(), teacherUser.ID, at(10, 10, 0), at(10, 11, 0), uuid.Nil)
	require.NoError(t, err)
	assert.False(t, busy, "touching ranges do not overlap")

	busy, err = service.IsUserBusy(context.Background(), teacherUser.ID, at(10, 9, 30), at(10, 10, 30), stored.ID)
	require.NoError(t, err)
	assert.False(t, busy, "the event itself is excluded")
}
