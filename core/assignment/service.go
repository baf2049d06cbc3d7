package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/policy"
)

var ErrNotFound = errors.New("assignment not found")

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		// GetAssignment returns the assignment with its course facts.
		GetAssignment(ctx context.Context, id int) (Detail, error)
		QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id int) error
	}

	Service interface {
		Create(ctx context.Context, prin policy.Principal, courseID int, na NewAssignment) (Assignment, error)
		QueryByCourse(ctx context.Context, prin policy.Principal, courseID int) ([]Assignment, error)
		GetByID(ctx context.Context, prin policy.Principal, id int) (Detail, error)
		Update(ctx context.Context, prin policy.Principal, id int, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, prin policy.Principal, id int) error

		// GetAssignment is a fact provider for sibling services; no authorization.
		GetAssignment(ctx context.Context, id int) (Detail, error)
	}

	service struct {
		repo   Repository
		crsSvc course.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, crsSvc course.Service) Service {
	return &service{repo: repo, crsSvc: crsSvc}
}

func (svc *service) Create(ctx context.Context, prin policy.Principal, courseID int, na NewAssignment) (Assignment, error) {
	crs, err := svc.crsSvc.GetCourse(ctx, courseID)
	if err != nil {
		return Assignment{}, err
	}
	if err = policy.CanEditAssignments(prin, crs.TeacherID).Err(); err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	asg := Assignment{
		CourseID:    courseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *service) QueryByCourse(ctx context.Context, prin policy.Principal, courseID int) ([]Assignment, error) {
	crs, err := svc.crsSvc.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if prin.IsStudent() {
		if enrolled, err = svc.crsSvc.IsEnrolled(ctx, prin.ID, courseID); err != nil {
			return nil, errors.Wrap(err, "checking enrollment")
		}
	}
	if err = policy.CanReadAssignment(prin, crs.TeacherID, enrolled).Err(); err != nil {
		return nil, err
	}
	return svc.repo.QueryAssignmentsByCourse(ctx, courseID)
}

func (svc *service) GetByID(ctx context.Context, prin policy.Principal, id int) (Detail, error) {
	detail, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	enrolled := false
	if prin.IsStudent() {
		if enrolled, err = svc.crsSvc.IsEnrolled(ctx, prin.ID, detail.CourseID); err != nil {
			return Detail{}, errors.Wrap(err, "checking enrollment")
		}
	}
	if err = policy.CanReadAssignment(prin, detail.CourseTeacherID, enrolled).Err(); err != nil {
		return Detail{}, err
	}
	return detail, nil
}

func (svc *service) Update(ctx context.Context, prin policy.Principal, id int, ua UpdateAssignment) (Assignment, error) {
	detail, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if err = policy.CanEditAssignments(prin, detail.CourseTeacherID).Err(); err != nil {
		return Assignment{}, err
	}

	asg := detail.Assignment
	asg.Title = ua.Title
	asg.Description = ua.Description
	asg.DueDate = ua.DueDate.UTC()
	asg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, asg)
}

func (svc *service) Delete(ctx context.Context, prin policy.Principal, id int) error {
	detail, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if err = policy.CanEditAssignments(prin, detail.CourseTeacherID).Err(); err != nil {
		return err
	}
	// submissions cascade with the assignment
	return svc.repo.DeleteAssignment(ctx, id)
}

func (svc *service) GetAssignment(ctx context.Context, id int) (Detail, error) {
	return svc.repo.GetAssignment(ctx, id)
}
