package course

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

func TestCoursesForActor(t *testing.T) {
	repo := NewStubRepo()
	repo.AddCourse(Course{ID: 1, Name: "Math", TeacherID: 2}, 3)
	repo.AddCourse(Course{ID: 2, Name: "History", TeacherID: 2})
	repo.AddCourse(Course{ID: 3, Name: "Art", TeacherID: 9})
	service := NewCourseService(repo)

	adminCtx := user.WithUser(context.Background(), user.User{ID: 1, Role: user.RoleAdmin})
	all, err := service.CoursesForActor(adminCtx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "admins see every course")

	teacherCtx := user.WithUser(context.Background(), user.User{ID: 2, Role: user.RoleTeacher})
	teaching, err := service.CoursesForActor(teacherCtx)
	require.NoError(t, err)
	assert.Len(t, teaching, 2, "teachers see the courses they teach")

	studentCtx := user.WithUser(context.Background(), user.User{ID: 3, Role: user.RoleStudent})
	enrolled, err := service.CoursesForActor(studentCtx)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "Math", enrolled[0].Name)

	_, err = service.CoursesForActor(context.Background())
	assert.ErrorIs(t, err, user.ErrNoUser)
}
