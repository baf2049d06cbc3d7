package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/policy"
	"github.com/darasahq/darasa/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentExists   = errors.New("student is already enrolled in this course")
	ErrHasEnrollments     = errors.New("course still has enrolled students")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		QueryCoursesByStudent(ctx context.Context, studentID string) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// DeleteCourse fails with ErrHasEnrollments while enrollments reference
		// the course; assignments and their submissions cascade.
		DeleteCourse(ctx context.Context, id int) error

		// CreateEnrollment fails with ErrEnrollmentExists on a duplicate
		// (student, course) pair; the store enforces uniqueness.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, studentID string, courseID int) (Enrollment, error)
		QueryEnrollmentsByCourse(ctx context.Context, courseID int) ([]Enrollment, error)
		DeleteEnrollment(ctx context.Context, studentID string, courseID int) error
		HasEnrollments(ctx context.Context, courseID int) (bool, error)
	}

	Service interface {
		Create(ctx context.Context, prin policy.Principal, nc NewCourse) (Course, error)
		Query(ctx context.Context, prin policy.Principal, ordering []core.DBOrdering) ([]Course, error)
		// QueryMine lists courses owned by a teacher or enrolled in by a student.
		QueryMine(ctx context.Context, prin policy.Principal) ([]Course, error)
		GetByID(ctx context.Context, prin policy.Principal, id int) (Course, error)
		Update(ctx context.Context, prin policy.Principal, id int, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, prin policy.Principal, id int) error

		Enroll(ctx context.Context, prin policy.Principal, courseID int, ne NewEnrollment) (Enrollment, error)
		Unenroll(ctx context.Context, prin policy.Principal, courseID int, studentID string) error
		QueryEnrollments(ctx context.Context, prin policy.Principal, courseID int) ([]Enrollment, error)

		// Fact providers for sibling services; they perform no authorization.
		GetCourse(ctx context.Context, id int) (Course, error)
		IsEnrolled(ctx context.Context, studentID string, courseID int) (bool, error)
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc}
}

func (svc *service) Create(ctx context.Context, prin policy.Principal, nc NewCourse) (Course, error) {
	ownerID := nc.TeacherID
	if ownerID == "" {
		ownerID = prin.ID
	}
	if err := policy.CanCreateCourse(prin, ownerID).Err(); err != nil {
		return Course{}, err
	}

	// the owner must exist and hold the Teacher role
	owner, err := svc.usrSvc.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: "teacher not found"})
		}
		return Course{}, errors.Wrap(err, "finding course owner")
	}
	if !owner.IsTeacher() && !owner.IsAdmin() {
		return Course{}, core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "user is not a teacher"})
	}

	now := time.Now().UTC()
	crs := Course{
		Name:        nc.Name,
		Description: nc.Description,
		TeacherID:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	crs, err = svc.repo.CreateCourse(ctx, crs)
	if err != nil {
		return Course{}, err
	}
	crs.TeacherName = owner.FullName()
	return crs, nil
}

func (svc *service) Query(ctx context.Context, prin policy.Principal, ordering []core.DBOrdering) ([]Course, error) {
	if err := policy.CanReadCourse(prin).Err(); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourses(ctx, ordering)
}

func (svc *service) QueryMine(ctx context.Context, prin policy.Principal) ([]Course, error) {
	if err := policy.CanReadCourse(prin).Err(); err != nil {
		return nil, err
	}
	if prin.IsTeacher() {
		return svc.repo.QueryCoursesByTeacher(ctx, prin.ID)
	}
	if prin.IsStudent() {
		return svc.repo.QueryCoursesByStudent(ctx, prin.ID)
	}
	return svc.repo.QueryCourses(ctx, nil)
}

func (svc *service) GetByID(ctx context.Context, prin policy.Principal, id int) (Course, error) {
	if err := policy.CanReadCourse(prin).Err(); err != nil {
		return Course{}, err
	}
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, prin policy.Principal, id int, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if err = policy.CanUpdateCourse(prin, crs.TeacherID).Err(); err != nil {
		return Course{}, err
	}

	crs.Name = uc.Name
	crs.Description = uc.Description
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, prin policy.Principal, id int) error {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	if err = policy.CanDeleteCourse(prin).Err(); err != nil {
		return err
	}

	// enrollment references are restricted; unenroll everyone first
	hasEnrollments, err := svc.repo.HasEnrollments(ctx, crs.ID)
	if err != nil {
		return errors.Wrap(err, "checking course enrollments")
	}
	if hasEnrollments {
		return policy.NewError(policy.ReasonConflict)
	}

	if err = svc.repo.DeleteCourse(ctx, crs.ID); err != nil {
		if errors.Cause(err) == ErrHasEnrollments {
			return policy.NewError(policy.ReasonConflict)
		}
		return err
	}
	return nil
}

func (svc *service) Enroll(ctx context.Context, prin policy.Principal, courseID int, ne NewEnrollment) (Enrollment, error) {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if err = policy.CanManageEnrollments(prin, crs.TeacherID).Err(); err != nil {
		return Enrollment{}, err
	}

	// the enrollee must exist and hold the Student role
	std, err := svc.usrSvc.GetByID(ctx, ne.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Enrollment{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "student not found"})
		}
		return Enrollment{}, errors.Wrap(err, "finding student")
	}
	if !std.IsStudent() {
		return Enrollment{}, core.NewValidationError(user.ErrNotStudent, core.FieldError{Field: "student_id", Error: user.ErrNotStudent.Error()})
	}

	// fresh duplicate pre-check; the store's unique index is the race backstop
	if _, err = svc.repo.GetEnrollment(ctx, ne.StudentID, courseID); err == nil {
		return Enrollment{}, policy.NewError(policy.ReasonConflict)
	} else if errors.Cause(err) != ErrEnrollmentNotFound {
		return Enrollment{}, errors.Wrap(err, "checking enrollment")
	}

	enr := Enrollment{
		CourseID:  courseID,
		StudentID: ne.StudentID,
		CreatedAt: time.Now().UTC(),
	}
	enr, err = svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		if errors.Cause(err) == ErrEnrollmentExists {
			return Enrollment{}, policy.NewError(policy.ReasonConflict)
		}
		return Enrollment{}, err
	}
	enr.CourseName = crs.Name
	enr.StudentName = std.FullName()
	return enr, nil
}

func (svc *service) Unenroll(ctx context.Context, prin policy.Principal, courseID int, studentID string) error {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err = policy.CanManageEnrollments(prin, crs.TeacherID).Err(); err != nil {
		return err
	}
	return svc.repo.DeleteEnrollment(ctx, studentID, courseID)
}

func (svc *service) QueryEnrollments(ctx context.Context, prin policy.Principal, courseID int) ([]Enrollment, error) {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err = policy.CanManageEnrollments(prin, crs.TeacherID).Err(); err != nil {
		return nil, err
	}
	return svc.repo.QueryEnrollmentsByCourse(ctx, courseID)
}

func (svc *service) GetCourse(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) IsEnrolled(ctx context.Context, studentID string, courseID int) (bool, error) {
	if _, err := svc.repo.GetEnrollment(ctx, studentID, courseID); err != nil {
		if errors.Cause(err) == ErrEnrollmentNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
