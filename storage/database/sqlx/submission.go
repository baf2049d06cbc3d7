package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/submission"
)

type submissionRow struct {
	ID              int         `db:"id"`
	AssignmentID    int         `db:"assignment_id"`
	StudentID       string      `db:"student_id"`
	Content         string      `db:"content"`
	Grade           null.Int    `db:"grade"`
	Feedback        null.String `db:"feedback"`
	GradedAt        null.Time   `db:"graded_at"`
	GradedByID      null.String `db:"graded_by_id"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
	StudentName     string      `db:"student_name"`
	GraderName      null.String `db:"grader_name"`
	CourseID        int         `db:"course_id"`
	CourseTeacherID string      `db:"course_teacher_id"`
}

func (r submissionRow) submission() submission.Submission {
	return submission.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		StudentID:    r.StudentID,
		Content:      r.Content,
		Grade:        r.Grade,
		Feedback:     r.Feedback,
		GradedAt:     r.GradedAt,
		GradedByID:   r.GradedByID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r submissionRow) detail() submission.Detail {
	return submission.Detail{
		Submission:      r.submission(),
		StudentName:     r.StudentName,
		GraderName:      r.GraderName.String,
		CourseID:        r.CourseID,
		CourseTeacherID: r.CourseTeacherID,
	}
}

const submissionSelect = `
SELECT s.*,
       TRIM(CONCAT(u.first_name, ' ', u.last_name))  AS student_name,
       TRIM(CONCAT(g.first_name, ' ', g.last_name))  AS grader_name,
       a.course_id,
       c.teacher_id                                  AS course_teacher_id
FROM submission s
         JOIN "user" u ON u.id = s.student_id
         LEFT JOIN "user" g ON g.id = s.graded_by_id
         JOIN assignment a ON a.id = s.assignment_id
         JOIN course c ON c.id = a.course_id`

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	query := `
INSERT INTO submission (assignment_id, student_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := repo.db.GetContext(ctx, &sub.ID, query,
		sub.AssignmentID, sub.StudentID, sub.Content, sub.CreatedAt.UTC(), sub.UpdatedAt.UTC())
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo submissionRepository) GetSubmission(ctx context.Context, id int) (submission.Detail, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, submissionSelect+" WHERE s.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return submission.Detail{}, submission.ErrNotFound
		}
		return submission.Detail{}, errors.Wrap(err, "finding submission")
	}
	return row.detail(), nil
}

func (repo submissionRepository) GetSubmissionByStudent(ctx context.Context, studentID string, assignmentID int) (submission.Submission, error) {
	var row submissionRow
	query := "SELECT * FROM submission WHERE student_id = $1 AND assignment_id = $2"
	if err := repo.db.GetContext(ctx, &row, query, studentID, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "finding submission")
	}
	return row.submission(), nil
}

func (repo submissionRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]submission.Detail, error) {
	query := submissionSelect + " WHERE s.assignment_id = $1 ORDER BY s.created_at"
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	details := make([]submission.Detail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail())
	}
	return details, nil
}

func (repo submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	query := `
UPDATE submission
SET grade = $1, feedback = $2, graded_at = $3, graded_by_id = $4, updated_at = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		sub.Grade, sub.Feedback, sub.GradedAt, sub.GradedByID, sub.UpdatedAt.UTC(), sub.ID)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}
