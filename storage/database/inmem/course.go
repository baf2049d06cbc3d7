package inmemdb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) userName(id string) string {
	repo.db.user.mutex.RLock()
	defer repo.db.user.mutex.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return usr.FullName()
	}
	return ""
}

func (repo *courseRepository) shape(crs course.Course) course.Course {
	crs.TeacherName = repo.userName(crs.TeacherID)
	return crs
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.course.table))
	for _, crs := range repo.db.course.table {
		courses = append(courses, repo.shape(*crs))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()

	repo.db.course.pkCount++
	crs.ID = repo.db.course.pkCount
	repo.db.course.table[crs.ID] = &crs
	return repo.shape(crs), nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()

	if crs, ok := repo.db.course.table[id]; ok {
		return repo.shape(*crs), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]course.Course, error) {
	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()

	var courses []course.Course
	for _, crs := range repo.query() {
		if crs.TeacherID == teacherID {
			courses = append(courses, crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	repo.db.enrollment.mutex.RLock()
	courseIDs := make(map[int]bool)
	for _, enr := range repo.db.enrollment.table {
		if enr.StudentID == studentID {
			courseIDs[enr.CourseID] = true
		}
	}
	repo.db.enrollment.mutex.RUnlock()

	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()

	var courses []course.Course
	for _, crs := range repo.query() {
		if courseIDs[crs.ID] {
			courses = append(courses, crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()

	orig, ok := repo.db.course.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	orig.Name = crs.Name
	orig.Description = crs.Description
	orig.UpdatedAt = crs.UpdatedAt
	return repo.shape(*orig), nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id int) error {
	if has, _ := repo.HasEnrollments(ctx, id); has {
		return course.ErrHasEnrollments
	}

	repo.db.course.mutex.Lock()
	if _, ok := repo.db.course.table[id]; !ok {
		repo.db.course.mutex.Unlock()
		return course.ErrNotFound
	}
	delete(repo.db.course.table, id)
	repo.db.course.mutex.Unlock()

	// assignments and their submissions cascade
	repo.db.assignment.mutex.Lock()
	var asgIDs []int
	for asgID, asg := range repo.db.assignment.table {
		if asg.CourseID == id {
			asgIDs = append(asgIDs, asgID)
			delete(repo.db.assignment.table, asgID)
		}
	}
	repo.db.assignment.mutex.Unlock()

	repo.db.submission.mutex.Lock()
	for subID, sub := range repo.db.submission.table {
		for _, asgID := range asgIDs {
			if sub.AssignmentID == asgID {
				delete(repo.db.submission.table, subID)
				break
			}
		}
	}
	repo.db.submission.mutex.Unlock()
	return nil
}

func (repo *courseRepository) shapeEnrollment(enr course.Enrollment) course.Enrollment {
	repo.db.course.mutex.RLock()
	if crs, ok := repo.db.course.table[enr.CourseID]; ok {
		enr.CourseName = crs.Name
	}
	repo.db.course.mutex.RUnlock()
	enr.StudentName = repo.userName(enr.StudentID)
	return enr
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	repo.db.enrollment.mutex.Lock()
	defer repo.db.enrollment.mutex.Unlock()

	for _, existing := range repo.db.enrollment.table {
		if existing.StudentID == enr.StudentID && existing.CourseID == enr.CourseID {
			return course.Enrollment{}, course.ErrEnrollmentExists
		}
	}

	repo.db.enrollment.pkCount++
	enr.ID = repo.db.enrollment.pkCount
	repo.db.enrollment.table[enr.ID] = &enr
	return repo.shapeEnrollment(enr), nil
}

func (repo *courseRepository) GetEnrollment(ctx context.Context, studentID string, courseID int) (course.Enrollment, error) {
	repo.db.enrollment.mutex.RLock()
	defer repo.db.enrollment.mutex.RUnlock()

	for _, enr := range repo.db.enrollment.table {
		if enr.StudentID == studentID && enr.CourseID == courseID {
			return repo.shapeEnrollment(*enr), nil
		}
	}
	return course.Enrollment{}, course.ErrEnrollmentNotFound
}

func (repo *courseRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID int) ([]course.Enrollment, error) {
	repo.db.enrollment.mutex.RLock()
	defer repo.db.enrollment.mutex.RUnlock()

	enrollments := make([]course.Enrollment, 0)
	for _, enr := range repo.db.enrollment.table {
		if enr.CourseID == courseID {
			enrollments = append(enrollments, repo.shapeEnrollment(*enr))
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (repo *courseRepository) DeleteEnrollment(ctx context.Context, studentID string, courseID int) error {
	repo.db.enrollment.mutex.Lock()
	defer repo.db.enrollment.mutex.Unlock()

	for id, enr := range repo.db.enrollment.table {
		if enr.StudentID == studentID && enr.CourseID == courseID {
			delete(repo.db.enrollment.table, id)
			return nil
		}
	}
	return course.ErrEnrollmentNotFound
}

func (repo *courseRepository) HasEnrollments(ctx context.Context, courseID int) (bool, error) {
	repo.db.enrollment.mutex.RLock()
	defer repo.db.enrollment.mutex.RUnlock()

	for _, enr := range repo.db.enrollment.table {
		if enr.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}
