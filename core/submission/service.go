package submission

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/policy"
	"github.com/darasahq/darasa/core/user"
)

var (
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
)

// nowFunc is mockable for due-date tests.
var nowFunc = time.Now

type (
	Repository interface {
		// CreateSubmission fails with ErrAlreadySubmitted on a duplicate
		// (student, assignment) pair; the store enforces uniqueness.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmission(ctx context.Context, id int) (Detail, error)
		GetSubmissionByStudent(ctx context.Context, studentID string, assignmentID int) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]Detail, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	Service interface {
		Submit(ctx context.Context, prin policy.Principal, assignmentID int, ns NewSubmission) (Submission, error)
		QueryByAssignment(ctx context.Context, prin policy.Principal, assignmentID int) ([]Detail, error)
		GetByID(ctx context.Context, prin policy.Principal, id int) (Detail, error)
		Grade(ctx context.Context, prin policy.Principal, id int, gs GradeSubmission) (Detail, error)
	}

	service struct {
		repo    Repository
		asgSvc  assignment.Service
		crsSvc  course.Service
		usrSvc  user.Service
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, asgSvc assignment.Service, crsSvc course.Service, usrSvc user.Service, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		asgSvc:  asgSvc,
		crsSvc:  crsSvc,
		usrSvc:  usrSvc,
		mailSvc: mailSvc,
	}
}

func (svc *service) Submit(ctx context.Context, prin policy.Principal, assignmentID int, ns NewSubmission) (Submission, error) {
	facts := policy.SubmissionFacts{Now: nowFunc().UTC()}

	asg, err := svc.asgSvc.GetAssignment(ctx, assignmentID)
	switch errors.Cause(err) {
	case nil:
		facts.AssignmentFound = true
		facts.DueDate = asg.DueDate
	case assignment.ErrNotFound, course.ErrNotFound:
	default:
		return Submission{}, err
	}

	if facts.AssignmentFound {
		if facts.Enrolled, err = svc.crsSvc.IsEnrolled(ctx, prin.ID, asg.CourseID); err != nil {
			return Submission{}, errors.Wrap(err, "checking enrollment")
		}
		if _, err = svc.repo.GetSubmissionByStudent(ctx, prin.ID, assignmentID); err == nil {
			facts.AlreadySubmitted = true
		} else if errors.Cause(err) != ErrNotFound {
			return Submission{}, errors.Wrap(err, "checking existing submission")
		}
	}

	if err = policy.CanCreateSubmission(prin, facts).Err(); err != nil {
		return Submission{}, err
	}

	now := facts.Now
	sub := Submission{
		AssignmentID: assignmentID,
		StudentID:    prin.ID,
		Content:      ns.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	sub, err = svc.repo.CreateSubmission(ctx, sub)
	if err != nil {
		// race backstop; the unique index catches concurrent submits
		if errors.Cause(err) == ErrAlreadySubmitted {
			return Submission{}, policy.NewError(policy.ReasonConflict)
		}
		return Submission{}, err
	}
	return sub, nil
}

func (svc *service) QueryByAssignment(ctx context.Context, prin policy.Principal, assignmentID int) ([]Detail, error) {
	asg, err := svc.asgSvc.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err = policy.CanGradeSubmission(prin, asg.CourseTeacherID).Err(); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
}

func (svc *service) GetByID(ctx context.Context, prin policy.Principal, id int) (Detail, error) {
	detail, err := svc.repo.GetSubmission(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if err = policy.CanReadSubmission(prin, detail.CourseTeacherID, detail.StudentID).Err(); err != nil {
		return Detail{}, err
	}
	return detail, nil
}

func (svc *service) Grade(ctx context.Context, prin policy.Principal, id int, gs GradeSubmission) (Detail, error) {
	detail, err := svc.repo.GetSubmission(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if err = policy.CanGradeSubmission(prin, detail.CourseTeacherID).Err(); err != nil {
		return Detail{}, err
	}

	// last write wins
	sub := detail.Submission
	sub.Grade = null.IntFrom(gs.Grade)
	sub.Feedback = null.StringFrom(gs.Feedback)
	sub.GradedAt = null.TimeFrom(nowFunc().UTC())
	sub.GradedByID = null.StringFrom(prin.ID)
	sub.UpdatedAt = sub.GradedAt.Time
	if sub, err = svc.repo.UpdateSubmission(ctx, sub); err != nil {
		return Detail{}, err
	}

	detail.Submission = sub
	svc.sendGradedMail(ctx, detail)
	return detail, nil
}

func (svc *service) sendGradedMail(ctx context.Context, detail Detail) {
	std, err := svc.usrSvc.GetByID(ctx, detail.StudentID)
	if err != nil {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: std.FullName(), Address: std.Email}},
		Subject:      fmt.Sprintf("Your submission has been graded: %d/100", detail.Grade.Int),
		TemplateName: "submission-graded",
		TemplateData: struct {
			User       user.User
			Submission Detail
		}{std, detail},
	}
	svc.mailSvc.SendMessages(msg)
}
