package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_assignmentApi_assignmentCreate(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	otherTeacher := testutil.CreateUser(t, usrRepo, "Other", "other1", "other@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra I", teacher.ID)
	dueDate := time.Now().Add(7 * 24 * time.Hour).UTC()

	type extraTest struct {
		wantTitle string
	}
	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/courses/1/assignments",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Students cannot create assignments", path: "/v1/courses/1/assignments", token: getToken(t, student),
			body:     marchallObj(t, assignment.NewAssignment{Title: "Homework 1", DueDate: dueDate}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Only the owner can create", path: "/v1/courses/1/assignments", token: getToken(t, otherTeacher),
			body:     marchallObj(t, assignment.NewAssignment{Title: "Homework 1", DueDate: dueDate}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Unknown course", path: "/v1/courses/999/assignments", token: getToken(t, teacher),
			body:     marchallObj(t, assignment.NewAssignment{Title: "Homework 1", DueDate: dueDate}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "required fields", path: "/v1/courses/1/assignments", token: getToken(t, teacher),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required", "due_date": "this field is required"}),
		},
		{
			name: "Owner creates", path: "/v1/courses/1/assignments", token: getToken(t, teacher),
			body:     marchallObj(t, assignment.NewAssignment{Title: "Homework 1", Description: "Chapter 1", DueDate: dueDate}),
			wantCode: http.StatusCreated, extra: extraTest{wantTitle: "Homework 1"},
		},
		{
			name: "Admin creates on any course", path: "/v1/courses/1/assignments", token: getToken(t, admin),
			body:     marchallObj(t, assignment.NewAssignment{Title: "Homework 2", DueDate: dueDate}),
			wantCode: http.StatusCreated, extra: extraTest{wantTitle: "Homework 2"},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var asg assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &asg); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if asg.ID == 0 {
					t.Error("failed! assignment not persisted")
				}
				if asg.Title != extra.wantTitle || asg.CourseID != algebra.ID {
					t.Errorf("failed! assignment = %+v", asg)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_assignmentQuery(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	otherTeacher := testutil.CreateUser(t, usrRepo, "Other", "other1", "other@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	otherStudent := testutil.CreateUser(t, usrRepo, "Vilain", "vilain", "vilain@test.cd", "", []string{user.RoleStudent}, true)

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra I", teacher.ID)
	testutil.CreateEnrollment(t, crsRepo, student.ID, algebra.ID)

	hw1 := testutil.CreateAssignment(t, asgRepo, algebra.ID, "Homework 1", time.Now().Add(24*time.Hour))
	hw2 := testutil.CreateAssignment(t, asgRepo, algebra.ID, "Homework 2", time.Now().Add(48*time.Hour))
	all := marchallList(t, hw1, hw2)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Non-enrolled students are denied", token: getToken(t, otherStudent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Non-owner teachers are denied", token: getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Enrolled student lists", token: getToken(t, student), wantCode: http.StatusOK, wantData: all},
		{name: "Owner lists", token: getToken(t, teacher), wantCode: http.StatusOK, wantData: all},
		{name: "Admin lists", token: getToken(t, admin), wantCode: http.StatusOK, wantData: all},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/courses/1/assignments"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_assignmentRetrieve(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	otherStudent := testutil.CreateUser(t, usrRepo, "Vilain", "vilain", "vilain@test.cd", "", []string{user.RoleStudent}, true)

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra I", teacher.ID)
	testutil.CreateEnrollment(t, crsRepo, student.ID, algebra.ID)
	hw1 := testutil.CreateAssignment(t, asgRepo, algebra.ID, "Homework 1", time.Now().Add(24*time.Hour))

	detail := assignment.Detail{Assignment: hw1, CourseName: algebra.Name}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Non-enrolled students are denied", token: getToken(t, otherStudent),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Enrolled student gets detail", token: getToken(t, student), wantCode: http.StatusOK, wantData: marchallObj(t, detail)},
		{name: "Owner gets detail", token: getToken(t, teacher), wantCode: http.StatusOK, wantData: marchallObj(t, detail)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/assignments/1"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Unknown assignment", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/v1/assignments/999", token: getToken(t, teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_assignmentApi_assignmentUpdate(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	otherTeacher := testutil.CreateUser(t, usrRepo, "Other", "other1", "other@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra I", teacher.ID)
	hw1 := testutil.CreateAssignment(t, asgRepo, algebra.ID, "Homework 1", time.Now().Add(24*time.Hour))
	newDue := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

	type extraTest struct {
		wantTitle   string
		wantDueDate time.Time
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Students cannot update", token: getToken(t, student),
			body:     marchallObj(t, assignment.UpdateAssignment{Title: "Hacked"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Only the owner can update", token: getToken(t, otherTeacher),
			body:     marchallObj(t, assignment.UpdateAssignment{Title: "Not mine"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Owner pushes back the due date", token: getToken(t, teacher),
			body:     marchallObj(t, assignment.UpdateAssignment{DueDate: newDue}),
			wantCode: http.StatusOK, extra: extraTest{wantTitle: hw1.Title, wantDueDate: newDue},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = "/v1/assignments/1"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var asg assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &asg); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if asg.Title != extra.wantTitle {
					t.Errorf("failed! Title = %v; want %v", asg.Title, extra.wantTitle)
				}
				if !asg.DueDate.Equal(extra.wantDueDate) {
					t.Errorf("failed! DueDate = %v; want %v", asg.DueDate, extra.wantDueDate)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_assignmentDestroy(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	otherTeacher := testutil.CreateUser(t, usrRepo, "Other", "other1", "other@test.cd", "", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)

	algebra := testutil.CreateCourse(t, crsRepo, "Algebra I", teacher.ID)
	testutil.CreateAssignment(t, asgRepo, algebra.ID, "Homework 1", time.Now().Add(24*time.Hour))

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Students cannot delete", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Only the owner can delete", token: getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Owner deletes", token: getToken(t, teacher), wantCode: http.StatusNoContent},
		{
			name: "Already deleted", token: getToken(t, teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete
		tt.path = "/v1/assignments/1"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
