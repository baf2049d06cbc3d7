package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/assignment"
)

type assignmentRow struct {
	ID              int       `db:"id"`
	CourseID        int       `db:"course_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	DueDate         time.Time `db:"due_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CourseName      string    `db:"course_name"`
	CourseTeacherID string    `db:"course_teacher_id"`
}

func (r assignmentRow) assignment() assignment.Assignment {
	return assignment.Assignment{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r assignmentRow) detail() assignment.Detail {
	return assignment.Detail{
		Assignment:      r.assignment(),
		CourseName:      r.CourseName,
		CourseTeacherID: r.CourseTeacherID,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	query := `
INSERT INTO assignment (course_id, title, description, due_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.GetContext(ctx, &asg.ID, query,
		asg.CourseID, asg.Title, asg.Description, asg.DueDate.UTC(), asg.CreatedAt.UTC(), asg.UpdatedAt.UTC())
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id int) (assignment.Detail, error) {
	query := `
SELECT a.*, c.name AS course_name, c.teacher_id AS course_teacher_id
FROM assignment a
         JOIN course c ON c.id = a.course_id
WHERE a.id = $1`
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Detail{}, assignment.ErrNotFound
		}
		return assignment.Detail{}, errors.Wrap(err, "finding assignment")
	}
	return row.detail(), nil
}

func (repo assignmentRepository) QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]assignment.Assignment, error) {
	query := "SELECT * FROM assignment WHERE course_id = $1 ORDER BY due_date"
	var rows []assignmentRow
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.assignment())
	}
	return assignments, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	query := `UPDATE assignment SET title = $1, description = $2, due_date = $3, updated_at = $4 WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query,
		asg.Title, asg.Description, asg.DueDate.UTC(), asg.UpdatedAt.UTC(), asg.ID)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM assignment WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
