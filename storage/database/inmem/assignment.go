package inmemdb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.assignment.mutex.Lock()
	defer repo.db.assignment.mutex.Unlock()

	repo.db.assignment.pkCount++
	asg.ID = repo.db.assignment.pkCount
	repo.db.assignment.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, id int) (assignment.Detail, error) {
	repo.db.assignment.mutex.RLock()
	asg, ok := repo.db.assignment.table[id]
	repo.db.assignment.mutex.RUnlock()
	if !ok {
		return assignment.Detail{}, assignment.ErrNotFound
	}

	detail := assignment.Detail{Assignment: *asg}

	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()
	if crs, ok := repo.db.course.table[asg.CourseID]; ok {
		detail.CourseName = crs.Name
		detail.CourseTeacherID = crs.TeacherID
	}
	return detail, nil
}

func (repo *assignmentRepository) QueryAssignmentsByCourse(ctx context.Context, courseID int) ([]assignment.Assignment, error) {
	repo.db.assignment.mutex.RLock()
	defer repo.db.assignment.mutex.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignment.table {
		if asg.CourseID == courseID {
			assignments = append(assignments, *asg)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].DueDate.Before(assignments[j].DueDate) })
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.assignment.mutex.Lock()
	defer repo.db.assignment.mutex.Unlock()

	orig, ok := repo.db.assignment.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	orig.Title = asg.Title
	orig.Description = asg.Description
	orig.DueDate = asg.DueDate
	orig.UpdatedAt = asg.UpdatedAt
	return *orig, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id int) error {
	repo.db.assignment.mutex.Lock()
	if _, ok := repo.db.assignment.table[id]; !ok {
		repo.db.assignment.mutex.Unlock()
		return assignment.ErrNotFound
	}
	delete(repo.db.assignment.table, id)
	repo.db.assignment.mutex.Unlock()

	// submissions cascade
	repo.db.submission.mutex.Lock()
	defer repo.db.submission.mutex.Unlock()
	for subID, sub := range repo.db.submission.table {
		if sub.AssignmentID == id {
			delete(repo.db.submission.table, subID)
		}
	}
	return nil
}
