package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

type (
	Assignment struct {
		ID          int       `json:"id"`
		CourseID    int       `json:"course_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	// Detail carries course facts needed by callers and API shaping.
	Detail struct {
		Assignment
		CourseName      string `json:"course_name"`
		CourseTeacherID string `json:"-"`
	}

	NewAssignment struct {
		Title       string    `json:"title" validate:"required,max=200"`
		Description string    `json:"description" validate:"max=1000"`
		DueDate     time.Time `json:"due_date" validate:"required"`
	}

	UpdateAssignment struct {
		Title       string    `json:"title" validate:"omitempty,max=200"`
		Description string    `json:"description" validate:"omitempty,max=1000"`
		DueDate     time.Time `json:"due_date" validate:"omitempty"`
	}
)

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

func (ua *UpdateAssignment) Validate(orig Assignment, validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	if ua.Title == "" {
		ua.Title = orig.Title
	}
	if ua.Description == "" {
		ua.Description = orig.Description
	}
	if ua.DueDate.IsZero() {
		ua.DueDate = orig.DueDate
	}
	return validate.Struct(ua)
}
