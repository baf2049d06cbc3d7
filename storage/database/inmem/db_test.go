package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/submission"
)

var ctx = context.Background()

func seedCourse(t *testing.T, db *DB, teacherID string) course.Course {
	t.Helper()
	now := time.Now().UTC()
	crs, err := NewCourseRepository(db).CreateCourse(ctx, course.Course{
		Name:      "Algebra I",
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	return crs
}

func seedAssignment(t *testing.T, db *DB, courseID int) assignment.Assignment {
	t.Helper()
	now := time.Now().UTC()
	asg, err := NewAssignmentRepository(db).CreateAssignment(ctx, assignment.Assignment{
		CourseID:  courseID,
		Title:     "Homework",
		DueDate:   now.Add(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed, %v", err)
	}
	return asg
}

func seedSubmission(t *testing.T, db *DB, assignmentID int, studentID string) submission.Submission {
	t.Helper()
	now := time.Now().UTC()
	sub, err := NewSubmissionRepository(db).CreateSubmission(ctx, submission.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      "my answer",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed, %v", err)
	}
	return sub
}

func Test_courseRepository_CreateEnrollment_unique(t *testing.T) {
	db := Open()
	repo := NewCourseRepository(db)
	crs := seedCourse(t, db, "t1")

	enr := course.Enrollment{StudentID: "s1", CourseID: crs.ID, CreatedAt: time.Now().UTC()}
	if _, err := repo.CreateEnrollment(ctx, enr); err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}
	if _, err := repo.CreateEnrollment(ctx, enr); err != course.ErrEnrollmentExists {
		t.Errorf("CreateEnrollment() duplicate error = %v, want %v", err, course.ErrEnrollmentExists)
	}

	// same student, another course is fine
	crs2 := seedCourse(t, db, "t1")
	if _, err := repo.CreateEnrollment(ctx, course.Enrollment{StudentID: "s1", CourseID: crs2.ID}); err != nil {
		t.Errorf("CreateEnrollment() on another course failed, %v", err)
	}
}

func Test_submissionRepository_CreateSubmission_unique(t *testing.T) {
	db := Open()
	crs := seedCourse(t, db, "t1")
	asg := seedAssignment(t, db, crs.ID)

	seedSubmission(t, db, asg.ID, "s1")
	_, err := NewSubmissionRepository(db).CreateSubmission(ctx, submission.Submission{AssignmentID: asg.ID, StudentID: "s1"})
	if err != submission.ErrAlreadySubmitted {
		t.Errorf("CreateSubmission() duplicate error = %v, want %v", err, submission.ErrAlreadySubmitted)
	}

	// another student may still submit
	if _, err = NewSubmissionRepository(db).CreateSubmission(ctx, submission.Submission{AssignmentID: asg.ID, StudentID: "s2"}); err != nil {
		t.Errorf("CreateSubmission() for another student failed, %v", err)
	}
}

func Test_courseRepository_DeleteCourse(t *testing.T) {
	db := Open()
	crsRepo := NewCourseRepository(db)
	asgRepo := NewAssignmentRepository(db)
	subRepo := NewSubmissionRepository(db)

	crs := seedCourse(t, db, "t1")
	asg1 := seedAssignment(t, db, crs.ID)
	asg2 := seedAssignment(t, db, crs.ID)
	sub := seedSubmission(t, db, asg1.ID, "s1")

	other := seedCourse(t, db, "t2")
	otherAsg := seedAssignment(t, db, other.ID)

	if _, err := crsRepo.CreateEnrollment(ctx, course.Enrollment{StudentID: "s1", CourseID: crs.ID}); err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}

	// enrolled students block deletion
	if err := crsRepo.DeleteCourse(ctx, crs.ID); err != course.ErrHasEnrollments {
		t.Fatalf("DeleteCourse() error = %v, want %v", err, course.ErrHasEnrollments)
	}

	if err := crsRepo.DeleteEnrollment(ctx, "s1", crs.ID); err != nil {
		t.Fatalf("DeleteEnrollment() failed, %v", err)
	}
	if err := crsRepo.DeleteCourse(ctx, crs.ID); err != nil {
		t.Fatalf("DeleteCourse() failed, %v", err)
	}

	// assignments and submissions are gone with the course
	for _, asgID := range []int{asg1.ID, asg2.ID} {
		if _, err := asgRepo.GetAssignment(ctx, asgID); err != assignment.ErrNotFound {
			t.Errorf("GetAssignment(%d) error = %v, want %v", asgID, err, assignment.ErrNotFound)
		}
	}
	if _, err := subRepo.GetSubmission(ctx, sub.ID); err != submission.ErrNotFound {
		t.Errorf("GetSubmission() error = %v, want %v", err, submission.ErrNotFound)
	}

	// the other course is untouched
	if _, err := crsRepo.GetCourseByID(ctx, other.ID); err != nil {
		t.Errorf("GetCourseByID() failed, %v", err)
	}
	if _, err := asgRepo.GetAssignment(ctx, otherAsg.ID); err != nil {
		t.Errorf("GetAssignment() failed, %v", err)
	}

	if err := crsRepo.DeleteCourse(ctx, crs.ID); err != course.ErrNotFound {
		t.Errorf("DeleteCourse() repeat error = %v, want %v", err, course.ErrNotFound)
	}
}

func Test_assignmentRepository_DeleteAssignment(t *testing.T) {
	db := Open()
	asgRepo := NewAssignmentRepository(db)
	subRepo := NewSubmissionRepository(db)

	crs := seedCourse(t, db, "t1")
	asg1 := seedAssignment(t, db, crs.ID)
	asg2 := seedAssignment(t, db, crs.ID)
	sub1 := seedSubmission(t, db, asg1.ID, "s1")
	sub2 := seedSubmission(t, db, asg2.ID, "s1")

	if err := asgRepo.DeleteAssignment(ctx, asg1.ID); err != nil {
		t.Fatalf("DeleteAssignment() failed, %v", err)
	}

	if _, err := subRepo.GetSubmission(ctx, sub1.ID); err != submission.ErrNotFound {
		t.Errorf("GetSubmission() error = %v, want %v", err, submission.ErrNotFound)
	}
	// the sibling assignment's submission survives
	if _, err := subRepo.GetSubmission(ctx, sub2.ID); err != nil {
		t.Errorf("GetSubmission() failed, %v", err)
	}

	if err := asgRepo.DeleteAssignment(ctx, asg1.ID); err != assignment.ErrNotFound {
		t.Errorf("DeleteAssignment() repeat error = %v, want %v", err, assignment.ErrNotFound)
	}
}
