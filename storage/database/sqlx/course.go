package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseRow struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	TeacherID   string    `db:"teacher_id"`
	TeacherName string    `db:"teacher_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r courseRow) course() course.Course {
	return course.Course{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type enrollmentRow struct {
	ID          int       `db:"id"`
	CourseID    int       `db:"course_id"`
	StudentID   string    `db:"student_id"`
	CourseName  string    `db:"course_name"`
	StudentName string    `db:"student_name"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r enrollmentRow) enrollment() course.Enrollment {
	return course.Enrollment{
		ID:          r.ID,
		CourseID:    r.CourseID,
		StudentID:   r.StudentID,
		CourseName:  r.CourseName,
		StudentName: r.StudentName,
		CreatedAt:   r.CreatedAt,
	}
}

const courseSelect = `
SELECT c.*, TRIM(CONCAT(u.first_name, ' ', u.last_name)) AS teacher_name
FROM course c
         JOIN "user" u ON u.id = c.teacher_id`

const enrollmentSelect = `
SELECT e.*, c.name AS course_name, TRIM(CONCAT(u.first_name, ' ', u.last_name)) AS student_name
FROM enrollment e
         JOIN course c ON c.id = e.course_id
         JOIN "user" u ON u.id = e.student_id`

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query := `
INSERT INTO course (name, description, teacher_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.GetContext(ctx, &crs.ID, query,
		crs.Name, crs.Description, crs.TeacherID, crs.CreatedAt.UTC(), crs.UpdatedAt.UTC())
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]course.Course, error) {
	query := courseSelect + orderBy(ordering, "c.created_at DESC")
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courseSlice(rows), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, courseSelect+" WHERE c.id = $1", id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, course.ErrNotFound, "finding course")
	}
	return row.course(), nil
}

func (repo courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]course.Course, error) {
	query := courseSelect + " WHERE c.teacher_id = $1 ORDER BY c.created_at DESC"
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher courses")
	}
	return courseSlice(rows), nil
}

func (repo courseRepository) QueryCoursesByStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	query := courseSelect + `
JOIN enrollment e ON e.course_id = c.id
WHERE e.student_id = $1
ORDER BY e.created_at DESC`
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	return courseSlice(rows), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query := `UPDATE course SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query, crs.Name, crs.Description, crs.UpdatedAt.UTC(), crs.ID)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM course WHERE id = $1", id); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pgForeignKeyViolation {
			return course.ErrHasEnrollments
		}
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	query := `
INSERT INTO enrollment (course_id, student_id, created_at)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.GetContext(ctx, &enr.ID, query, enr.CourseID, enr.StudentID, enr.CreatedAt.UTC())
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return course.Enrollment{}, course.ErrEnrollmentExists
		}
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo courseRepository) GetEnrollment(ctx context.Context, studentID string, courseID int) (course.Enrollment, error) {
	var row enrollmentRow
	query := enrollmentSelect + " WHERE e.student_id = $1 AND e.course_id = $2"
	if err := repo.db.GetContext(ctx, &row, query, studentID, courseID); err != nil {
		return course.Enrollment{}, repo.trapNoRowsErr(err, course.ErrEnrollmentNotFound, "finding enrollment")
	}
	return row.enrollment(), nil
}

func (repo courseRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID int) ([]course.Enrollment, error) {
	query := enrollmentSelect + " WHERE e.course_id = $1 ORDER BY e.created_at"
	var rows []enrollmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrollments := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.enrollment())
	}
	return enrollments, nil
}

func (repo courseRepository) DeleteEnrollment(ctx context.Context, studentID string, courseID int) error {
	res, err := repo.db.ExecContext(ctx,
		"DELETE FROM enrollment WHERE student_id = $1 AND course_id = $2", studentID, courseID)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.ErrEnrollmentNotFound
	}
	return nil
}

func (repo courseRepository) HasEnrollments(ctx context.Context, courseID int) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM enrollment WHERE course_id = $1)"
	if err := repo.db.GetContext(ctx, &exists, query, courseID); err != nil {
		return false, errors.Wrap(err, "checking enrollments")
	}
	return exists, nil
}

func courseSlice(rows []courseRow) []course.Course {
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses
}

func orderBy(ordering []core.DBOrdering, deflt string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + deflt
	}
	clause := " ORDER BY "
	for i, ord := range ordering {
		if i > 0 {
			clause += ", "
		}
		clause += ord.String()
	}
	return clause
}
