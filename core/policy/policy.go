// Package policy is the single access-control decision point.
//
// Every decision function is pure: it maps an authenticated principal and
// the relationship facts supplied by the caller to an ALLOW/DENY decision.
// Facts (ownership, enrollment, due dates, prior records) are fetched by the
// caller; the evaluator performs no I/O and never reads the clock.
package policy

import "time"

// Role is the closed set of roles a principal may hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Principal is the authenticated actor making a request.
type Principal struct {
	ID    string
	Roles []Role
}

func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool   { return p.HasRole(RoleAdmin) }
func (p Principal) IsTeacher() bool { return p.HasRole(RoleTeacher) }
func (p Principal) IsStudent() bool { return p.HasRole(RoleStudent) }

// Reason classifies why an operation was denied (or that it was not).
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonNotFound      Reason = "not_found"
	ReasonForbidden     Reason = "forbidden"
	ReasonConflict      Reason = "conflict"
	ReasonRuleViolation Reason = "business_rule_violation"
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allow  bool
	Reason Reason
}

func allow() Decision            { return Decision{Allow: true, Reason: ReasonOK} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Err returns nil for an ALLOW decision, or an *Error carrying the DENY reason.
func (d Decision) Err() error {
	if d.Allow {
		return nil
	}
	return &Error{Reason: d.Reason}
}

// Error is a DENY decision surfaced as an error.
// The transport layer maps the reason to a status code.
type Error struct {
	Reason Reason
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonNotFound:
		return "not found"
	case ReasonForbidden:
		return "permission denied"
	case ReasonConflict:
		return "conflict"
	case ReasonRuleViolation:
		return "operation not allowed"
	}
	return string(e.Reason)
}

func NewError(reason Reason) *Error { return &Error{Reason: reason} }

// Course

// CanCreateCourse: Admin or Teacher. A Teacher may only create courses they
// will own themselves; Admin may create on behalf of any teacher.
func CanCreateCourse(p Principal, ownerID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && ownerID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanReadCourse: any authenticated principal holding a known role.
func CanReadCourse(p Principal) Decision {
	if p.IsAdmin() || p.IsTeacher() || p.IsStudent() {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanUpdateCourse: Admin, or the Teacher owning the course. Holding the
// Teacher role is never sufficient by itself; ownership is always re-checked.
func CanUpdateCourse(p Principal, teacherID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && teacherID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanDeleteCourse: Admin only.
func CanDeleteCourse(p Principal) Decision {
	if p.IsAdmin() {
		return allow()
	}
	return deny(ReasonForbidden)
}

// Assignment

// CanEditAssignments covers assignment create/update/delete:
// Admin, or the Teacher owning the parent course.
func CanEditAssignments(p Principal, courseTeacherID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && courseTeacherID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanReadAssignment: Admin, the owning Teacher, or a Student enrolled in the
// parent course. A Student with no enrollment is denied regardless of role.
func CanReadAssignment(p Principal, courseTeacherID string, enrolled bool) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && courseTeacherID == p.ID {
		return allow()
	}
	if p.IsStudent() && enrolled {
		return allow()
	}
	return deny(ReasonForbidden)
}

// Enrollment

// CanManageEnrollments covers enrollment create/delete/list:
// Admin, or the Teacher owning the course.
func CanManageEnrollments(p Principal, courseTeacherID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && courseTeacherID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}

// Submission

// SubmissionFacts is the snapshot needed to decide a submission-create.
// Now is passed in so the evaluation stays deterministic.
type SubmissionFacts struct {
	AssignmentFound  bool
	Enrolled         bool
	DueDate          time.Time
	AlreadySubmitted bool
	Now              time.Time
}

// CanCreateSubmission decides a Student's attempt to submit work.
// Checks run in a fixed order so callers can rely on the failure kind:
// assignment existence, then role, then enrollment, then due date,
// then prior submission.
func CanCreateSubmission(p Principal, facts SubmissionFacts) Decision {
	if !facts.AssignmentFound {
		return deny(ReasonNotFound)
	}
	if !p.IsStudent() {
		return deny(ReasonForbidden)
	}
	if !facts.Enrolled {
		return deny(ReasonForbidden)
	}
	if facts.Now.After(facts.DueDate) {
		return deny(ReasonRuleViolation)
	}
	if facts.AlreadySubmitted {
		return deny(ReasonConflict)
	}
	return allow()
}

// CanReadSubmission: Admin, the Teacher owning the course, or the Student who
// authored the submission.
func CanReadSubmission(p Principal, courseTeacherID, authorID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && courseTeacherID == p.ID {
		return allow()
	}
	if p.IsStudent() && authorID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanGradeSubmission: Admin, or the Teacher owning the course.
func CanGradeSubmission(p Principal, courseTeacherID string) Decision {
	if p.IsAdmin() {
		return allow()
	}
	if p.IsTeacher() && courseTeacherID == p.ID {
		return allow()
	}
	return deny(ReasonForbidden)
}
