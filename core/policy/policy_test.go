package policy

import (
	"testing"
	"time"
)

var (
	admin        = Principal{ID: "adm-1", Roles: []Role{RoleAdmin}}
	teacher      = Principal{ID: "tch-1", Roles: []Role{RoleTeacher}}
	otherTeacher = Principal{ID: "tch-2", Roles: []Role{RoleTeacher}}
	student      = Principal{ID: "std-1", Roles: []Role{RoleStudent}}
	otherStudent = Principal{ID: "std-2", Roles: []Role{RoleStudent}}
	anonymous    = Principal{ID: "who-1"}
)

func checkDecision(t *testing.T, got Decision, wantAllow bool, wantReason Reason) {
	t.Helper()
	if got.Allow != wantAllow {
		t.Errorf("Allow = %v; want %v", got.Allow, wantAllow)
	}
	if got.Reason != wantReason {
		t.Errorf("Reason = %v; want %v", got.Reason, wantReason)
	}
}

func TestCourseDecisions(t *testing.T) {
	tests := []struct {
		name       string
		got        Decision
		wantAllow  bool
		wantReason Reason
	}{
		// create
		{name: "create: admin", got: CanCreateCourse(admin, "tch-9"), wantAllow: true, wantReason: ReasonOK},
		{name: "create: teacher for self", got: CanCreateCourse(teacher, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "create: teacher for another", got: CanCreateCourse(teacher, otherTeacher.ID), wantReason: ReasonForbidden},
		{name: "create: student", got: CanCreateCourse(student, student.ID), wantReason: ReasonForbidden},
		{name: "create: no role", got: CanCreateCourse(anonymous, anonymous.ID), wantReason: ReasonForbidden},

		// read
		{name: "read: admin", got: CanReadCourse(admin), wantAllow: true, wantReason: ReasonOK},
		{name: "read: teacher", got: CanReadCourse(teacher), wantAllow: true, wantReason: ReasonOK},
		{name: "read: student", got: CanReadCourse(student), wantAllow: true, wantReason: ReasonOK},
		{name: "read: no role", got: CanReadCourse(anonymous), wantReason: ReasonForbidden},

		// update: allow iff admin or owner, never otherwise
		{name: "update: admin", got: CanUpdateCourse(admin, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "update: owning teacher", got: CanUpdateCourse(teacher, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "update: other teacher", got: CanUpdateCourse(otherTeacher, teacher.ID), wantReason: ReasonForbidden},
		{name: "update: student", got: CanUpdateCourse(student, teacher.ID), wantReason: ReasonForbidden},
		{name: "update: owner id without teacher role", got: CanUpdateCourse(Principal{ID: teacher.ID}, teacher.ID), wantReason: ReasonForbidden},

		// delete
		{name: "delete: admin", got: CanDeleteCourse(admin), wantAllow: true, wantReason: ReasonOK},
		{name: "delete: owning teacher", got: CanDeleteCourse(teacher), wantReason: ReasonForbidden},
		{name: "delete: student", got: CanDeleteCourse(student), wantReason: ReasonForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecision(t, tt.got, tt.wantAllow, tt.wantReason)
		})
	}
}

func TestAssignmentDecisions(t *testing.T) {
	tests := []struct {
		name       string
		got        Decision
		wantAllow  bool
		wantReason Reason
	}{
		{name: "edit: admin", got: CanEditAssignments(admin, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "edit: owning teacher", got: CanEditAssignments(teacher, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "edit: other teacher", got: CanEditAssignments(otherTeacher, teacher.ID), wantReason: ReasonForbidden},
		{name: "edit: enrolled student", got: CanEditAssignments(student, teacher.ID), wantReason: ReasonForbidden},

		{name: "read: admin", got: CanReadAssignment(admin, teacher.ID, false), wantAllow: true, wantReason: ReasonOK},
		{name: "read: owning teacher", got: CanReadAssignment(teacher, teacher.ID, false), wantAllow: true, wantReason: ReasonOK},
		{name: "read: other teacher", got: CanReadAssignment(otherTeacher, teacher.ID, false), wantReason: ReasonForbidden},
		{name: "read: enrolled student", got: CanReadAssignment(student, teacher.ID, true), wantAllow: true, wantReason: ReasonOK},
		{name: "read: unenrolled student", got: CanReadAssignment(student, teacher.ID, false), wantReason: ReasonForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecision(t, tt.got, tt.wantAllow, tt.wantReason)
		})
	}
}

func TestEnrollmentDecisions(t *testing.T) {
	tests := []struct {
		name       string
		got        Decision
		wantAllow  bool
		wantReason Reason
	}{
		{name: "admin", got: CanManageEnrollments(admin, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "owning teacher", got: CanManageEnrollments(teacher, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "other teacher", got: CanManageEnrollments(otherTeacher, teacher.ID), wantReason: ReasonForbidden},
		{name: "student", got: CanManageEnrollments(student, teacher.ID), wantReason: ReasonForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecision(t, tt.got, tt.wantAllow, tt.wantReason)
		})
	}
}

func TestCanCreateSubmission(t *testing.T) {
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	okFacts := SubmissionFacts{AssignmentFound: true, Enrolled: true, DueDate: tomorrow, Now: now}

	tests := []struct {
		name       string
		p          Principal
		facts      SubmissionFacts
		wantAllow  bool
		wantReason Reason
	}{
		{name: "enrolled student before due", p: student, facts: okFacts, wantAllow: true, wantReason: ReasonOK},
		{name: "teacher cannot submit", p: teacher, facts: okFacts, wantReason: ReasonForbidden},
		{name: "admin cannot submit", p: admin, facts: okFacts, wantReason: ReasonForbidden},
		{
			name: "missing assignment",
			p:    student,
			facts: SubmissionFacts{
				AssignmentFound: false, Enrolled: true, DueDate: tomorrow, Now: now,
			},
			wantReason: ReasonNotFound,
		},
		{
			name: "unenrolled student",
			p:    otherStudent,
			facts: SubmissionFacts{
				AssignmentFound: true, Enrolled: false, DueDate: tomorrow, Now: now,
			},
			wantReason: ReasonForbidden,
		},
		{
			name: "due date passed",
			p:    student,
			facts: SubmissionFacts{
				AssignmentFound: true, Enrolled: true, DueDate: yesterday, Now: now,
			},
			wantReason: ReasonRuleViolation,
		},
		{
			name: "duplicate submission",
			p:    student,
			facts: SubmissionFacts{
				AssignmentFound: true, Enrolled: true, DueDate: tomorrow, AlreadySubmitted: true, Now: now,
			},
			wantReason: ReasonConflict,
		},
		{
			name: "submitting exactly at due date",
			p:    student,
			facts: SubmissionFacts{
				AssignmentFound: true, Enrolled: true, DueDate: now, Now: now,
			},
			wantAllow:  true,
			wantReason: ReasonOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecision(t, CanCreateSubmission(tt.p, tt.facts), tt.wantAllow, tt.wantReason)
		})
	}
}

// The failure kind reported for a malformed submission attempt follows a fixed
// precedence: missing assignment beats missing enrollment beats a passed due
// date beats a duplicate.
func TestCanCreateSubmission_checkOrdering(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	allWrong := SubmissionFacts{
		AssignmentFound:  false,
		Enrolled:         false,
		DueDate:          yesterday,
		AlreadySubmitted: true,
		Now:              now,
	}
	checkDecision(t, CanCreateSubmission(student, allWrong), false, ReasonNotFound)

	allWrong.AssignmentFound = true
	checkDecision(t, CanCreateSubmission(student, allWrong), false, ReasonForbidden)

	allWrong.Enrolled = true
	checkDecision(t, CanCreateSubmission(student, allWrong), false, ReasonRuleViolation)

	allWrong.DueDate = now.Add(24 * time.Hour)
	checkDecision(t, CanCreateSubmission(student, allWrong), false, ReasonConflict)

	allWrong.AlreadySubmitted = false
	checkDecision(t, CanCreateSubmission(student, allWrong), true, ReasonOK)
}

func TestSubmissionReadAndGradeDecisions(t *testing.T) {
	tests := []struct {
		name       string
		got        Decision
		wantAllow  bool
		wantReason Reason
	}{
		{name: "read: admin", got: CanReadSubmission(admin, teacher.ID, student.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "read: owning teacher", got: CanReadSubmission(teacher, teacher.ID, student.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "read: other teacher", got: CanReadSubmission(otherTeacher, teacher.ID, student.ID), wantReason: ReasonForbidden},
		{name: "read: author student", got: CanReadSubmission(student, teacher.ID, student.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "read: other student", got: CanReadSubmission(otherStudent, teacher.ID, student.ID), wantReason: ReasonForbidden},

		{name: "grade: admin", got: CanGradeSubmission(admin, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "grade: owning teacher", got: CanGradeSubmission(teacher, teacher.ID), wantAllow: true, wantReason: ReasonOK},
		{name: "grade: other teacher", got: CanGradeSubmission(otherTeacher, teacher.ID), wantReason: ReasonForbidden},
		{name: "grade: author student", got: CanGradeSubmission(student, teacher.ID), wantReason: ReasonForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDecision(t, tt.got, tt.wantAllow, tt.wantReason)
		})
	}
}

func TestDecisionErr(t *testing.T) {
	if err := (Decision{Allow: true, Reason: ReasonOK}).Err(); err != nil {
		t.Errorf("Err() on ALLOW = %v; want nil", err)
	}

	err := (Decision{Reason: ReasonConflict}).Err()
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Err() on DENY = %T; want *Error", err)
	}
	if perr.Reason != ReasonConflict {
		t.Errorf("Reason = %v; want %v", perr.Reason, ReasonConflict)
	}
}

func TestPrincipalRoles(t *testing.T) {
	multi := Principal{ID: "u1", Roles: []Role{RoleTeacher, RoleStudent}}
	if !multi.IsTeacher() || !multi.IsStudent() || multi.IsAdmin() {
		t.Errorf("unexpected role flags for %v", multi.Roles)
	}
	if anonymous.IsAdmin() || anonymous.IsTeacher() || anonymous.IsStudent() {
		t.Errorf("principal with no roles must hold none")
	}
}
