package submission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
)

type (
	Submission struct {
		ID           int         `json:"id"`
		AssignmentID int         `json:"assignment_id"`
		StudentID    string      `json:"student_id"`
		Content      string      `json:"content"`
		Grade        null.Int    `json:"grade,omitempty"`
		Feedback     null.String `json:"feedback,omitempty"`
		GradedAt     null.Time   `json:"graded_at,omitempty"`
		GradedByID   null.String `json:"graded_by_id,omitempty"`
		CreatedAt    time.Time   `json:"created_at"`
		UpdatedAt    time.Time   `json:"updated_at"`
	}

	// Detail carries the facts callers need to authorize access.
	Detail struct {
		Submission
		StudentName     string `json:"student_name"`
		GraderName      string `json:"grader_name,omitempty"`
		CourseID        int    `json:"course_id"`
		CourseTeacherID string `json:"-"`
	}

	NewSubmission struct {
		Content string `json:"content" validate:"required,max=5000"`
	}

	GradeSubmission struct {
		Grade    int    `json:"grade" validate:"min=0,max=100"`
		Feedback string `json:"feedback" validate:"max=1000"`
	}
)

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Content = core.CleanString(ns.Content)
	return validate.Struct(ns)
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	gs.Feedback = core.CleanString(gs.Feedback)
	return validate.Struct(gs)
}

func (s Submission) Graded() bool { return s.Grade.Valid }
