package inmemdb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) detail(sub submission.Submission) submission.Detail {
	detail := submission.Detail{Submission: sub}

	repo.db.user.mutex.RLock()
	if usr, ok := repo.db.user.table[sub.StudentID]; ok {
		detail.StudentName = usr.FullName()
	}
	if sub.GradedByID.Valid {
		if usr, ok := repo.db.user.table[sub.GradedByID.String]; ok {
			detail.GraderName = usr.FullName()
		}
	}
	repo.db.user.mutex.RUnlock()

	repo.db.assignment.mutex.RLock()
	asg, ok := repo.db.assignment.table[sub.AssignmentID]
	repo.db.assignment.mutex.RUnlock()
	if ok {
		detail.CourseID = asg.CourseID

		repo.db.course.mutex.RLock()
		if crs, ok := repo.db.course.table[asg.CourseID]; ok {
			detail.CourseTeacherID = crs.TeacherID
		}
		repo.db.course.mutex.RUnlock()
	}
	return detail
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.submission.mutex.Lock()
	defer repo.db.submission.mutex.Unlock()

	for _, existing := range repo.db.submission.table {
		if existing.StudentID == sub.StudentID && existing.AssignmentID == sub.AssignmentID {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
	}

	repo.db.submission.pkCount++
	sub.ID = repo.db.submission.pkCount
	repo.db.submission.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmission(ctx context.Context, id int) (submission.Detail, error) {
	repo.db.submission.mutex.RLock()
	sub, ok := repo.db.submission.table[id]
	repo.db.submission.mutex.RUnlock()
	if !ok {
		return submission.Detail{}, submission.ErrNotFound
	}
	return repo.detail(*sub), nil
}

func (repo *submissionRepository) GetSubmissionByStudent(ctx context.Context, studentID string, assignmentID int) (submission.Submission, error) {
	repo.db.submission.mutex.RLock()
	defer repo.db.submission.mutex.RUnlock()

	for _, sub := range repo.db.submission.table {
		if sub.StudentID == studentID && sub.AssignmentID == assignmentID {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID int) ([]submission.Detail, error) {
	repo.db.submission.mutex.RLock()
	subs := make([]submission.Submission, 0)
	for _, sub := range repo.db.submission.table {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, *sub)
		}
	}
	repo.db.submission.mutex.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	details := make([]submission.Detail, 0, len(subs))
	for _, sub := range subs {
		details = append(details, repo.detail(sub))
	}
	return details, nil
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.submission.mutex.Lock()
	defer repo.db.submission.mutex.Unlock()

	orig, ok := repo.db.submission.table[sub.ID]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	orig.Grade = sub.Grade
	orig.Feedback = sub.Feedback
	orig.GradedAt = sub.GradedAt
	orig.GradedByID = sub.GradedByID
	orig.UpdatedAt = sub.UpdatedAt
	return *orig, nil
}
