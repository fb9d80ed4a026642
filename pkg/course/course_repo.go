package course

import (
	"context"
	"database/sql"
	"errors"

	log "github.com/sirupsen/logrus"
)

var ErrCourseNotFound = errors.New("course not found")

type Repo interface {
	GetCourse(ctx context.Context, id int) (Course, error)
	GetAllCourses(ctx context.Context) ([]Course, error)
	GetCoursesForStudent(ctx context.Context, studentID int) ([]Course, error)
	GetCoursesForTeacher(ctx context.Context, teacherID int) ([]Course, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewCourseRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetCourse(ctx context.Context, id int) (Course, error) {
	query := `SELECT id, name, teacher_id FROM courses WHERE id = $1`
	var c Course
	var teacherID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &teacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrCourseNotFound
	} else if err != nil {
		log.Errorf("failed to get course: %v", err)
		return Course{}, err
	}
	c.TeacherID = int(teacherID.Int64)
	return c, nil
}

func (r *RepoImpl) GetAllCourses(ctx context.Context) ([]Course, error) {
	query := `SELECT id, name, teacher_id FROM courses ORDER BY name`
	return r.queryCourses(ctx, query)
}

func (r *RepoImpl) GetCoursesForStudent(ctx context.Context, studentID int) ([]Course, error) {
	query := `SELECT c.id, c.name, c.teacher_id FROM courses c
	          JOIN course_students cs ON cs.course_id = c.id
	          WHERE cs.student_id = $1 ORDER BY c.name`
	return r.queryCourses(ctx, query, studentID)
}

func (r *RepoImpl) GetCoursesForTeacher(ctx context.Context, teacherID int) ([]Course, error) {
	query := `SELECT id, name, teacher_id FROM courses WHERE teacher_id = $1 ORDER BY name`
	return r.queryCourses(ctx, query, teacherID)
}

func (r *RepoImpl) queryCourses(ctx context.Context, query string, args ...any) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Errorf("could not query courses: %v", err)
		return nil, err
	}
	defer rows.Close()

	courses := make([]Course, 0, 10)
	for rows.Next() {
		var c Course
		var teacherID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &teacherID); err != nil {
			log.Errorf("could not scan course row: %v", err)
			return nil, err
		}
		c.TeacherID = int(teacherID.Int64)
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
