package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeacherID   string    `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"` // shaped by repositories, not stored
	CreatedAt   time.Time `json:"created_at"`             // UTC
	UpdatedAt   time.Time `json:"updated_at"`             // UTC
}

// NewCourse contains information needed to create a new Course.
// TeacherID may only be set by an admin creating a course on a teacher's behalf;
// it defaults to the acting principal.
type NewCourse struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
	TeacherID   string `json:"teacher_id" validate:"omitempty,uuid4"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. Ownership is fixed at creation and cannot be changed here.
type UpdateCourse struct {
	Name        string `json:"name" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

func (uc *UpdateCourse) Validate(origCrs Course, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCrs.Name
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = origCrs.Description
	}
	return validate.Struct(uc)
}

type Enrollment struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"` // UTC

	// shaped by repositories, not stored
	CourseName  string `json:"course_name,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}

// NewEnrollment contains information needed to enroll a student in a course.
type NewEnrollment struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.StudentID = core.CleanString(ne.StudentID, true /* lower */)
	return validate.Struct(ne)
}
