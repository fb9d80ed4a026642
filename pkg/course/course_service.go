package course

import (
	"context"
	"fmt"

	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

type Service interface {
	GetCourse(ctx context.Context, id int) (Course, error)
	// CoursesForActor returns the courses the current user may pick as a
	// filter target: admins and principals see everything, teachers the
	// courses they teach, everyone else their enrollments.
	CoursesForActor(ctx context.Context) ([]Course, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewCourseService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCourse(ctx context.Context, id int) (Course, error) {
	return s.repo.GetCourse(ctx, id)
}

func (s *ServiceImpl) CoursesForActor(ctx context.Context) ([]Course, error) {
	actor, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	switch {
	case user.CapabilitiesOf(actor.Role).CanViewAll:
		return s.repo.GetAllCourses(ctx)
	case actor.Role == user.RoleTeacher:
		return s.repo.GetCoursesForTeacher(ctx, actor.ID)
	default:
		return s.repo.GetCoursesForStudent(ctx, actor.ID)
	}
}
