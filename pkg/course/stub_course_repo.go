package course

import (
	"context"
	"sync"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	mu       sync.RWMutex
	courses  map[int]Course
	students map[int][]int // courseID -> student ids
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		courses:  make(map[int]Course),
		students: make(map[int][]int),
	}
}

func (r *StubRepo) AddCourse(c Course, studentIDs ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[c.ID] = c
	r.students[c.ID] = studentIDs
}

func (r *StubRepo) GetCourse(_ context.Context, id int) (Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrCourseNotFound
	}
	return c, nil
}

func (r *StubRepo) GetAllCourses(_ context.Context) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	courses := make([]Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *StubRepo) GetCoursesForStudent(_ context.Context, studentID int) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var courses []Course
	for id, c := range r.courses {
		for _, sid := range r.students[id] {
			if sid == studentID {
				courses = append(courses, c)
				break
			}
		}
	}
	return courses, nil
}

func (r *StubRepo) GetCoursesForTeacher(_ context.Context, teacherID int) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var courses []Course
	for _, c := range r.courses {
		if c.TeacherID == teacherID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}
