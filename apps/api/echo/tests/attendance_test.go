package tests

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/user"
	testutil "github.com/phoenixdev100/tap/tests"
)

func Test_attendanceApi_mark(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent, true)
	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin, true)
	teacherToken := getToken(t, teacher)

	record := func(studentID, date, status string) []byte {
		return marshallObj(t, attendance.NewRecord{
			StudentID: studentID,
			ClassName: "Mathematics",
			Date:      date,
			Status:    status,
		})
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			name: "student not allowed", token: getToken(t, student),
			body: record(student.ID, "2024-03-01", attendance.StatusPresent),
			wantCode: http.StatusForbidden, wantData: failMsg(t, deniedMsg),
		},
		{
			name: "required fields", token: teacherToken, wantCode: http.StatusBadRequest,
			wantData: failFields(t, map[string]string{
				"student_id": reqMsg, "class_name": reqMsg, "date": reqMsg, "status": reqMsg,
			}),
		},
		{
			name: "invalid student id", token: teacherToken,
			body:     record("not-a-uuid", "2024-03-01", attendance.StatusPresent),
			wantCode: http.StatusBadRequest,
			wantData: failFields(t, map[string]string{"student_id": "student_id must be a valid version 4 UUID"}),
		},
		{
			name: "invalid date", token: teacherToken,
			body:     record(student.ID, "03/01/2024", attendance.StatusPresent),
			wantCode: http.StatusBadRequest,
			wantData: failFields(t, map[string]string{"date": "date does not match the 2006-01-02 format"}),
		},
		{
			name: "invalid status", token: teacherToken,
			body:     record(student.ID, "2024-03-01", "sleeping"),
			wantCode: http.StatusBadRequest,
			wantData: failFields(t, map[string]string{"status": "invalid attendance status"}),
		},
		{
			name: "target must be a student", token: teacherToken,
			body:     record(teacher.ID, "2024-03-01", attendance.StatusPresent),
			wantCode: http.StatusNotFound, wantData: failMsg(t, "student not found"),
		},
		{
			name: "unknown student", token: teacherToken,
			body:     record("b4b2f9f0-0000-4000-8000-000000000000", "2024-03-01", attendance.StatusPresent),
			wantCode: http.StatusNotFound, wantData: failMsg(t, "student not found"),
		},
		{
			name: "attendance marked", token: teacherToken,
			body:     record(student.ID, "2024-03-01", attendance.StatusPresent),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate mark conflicts", token: teacherToken,
			body:     record(student.ID, "2024-03-01", attendance.StatusAbsent),
			wantCode: http.StatusConflict,
			wantData: failMsg(t, "attendance already marked for this student, class and date"),
		},
		{
			name: "admin may mark too", token: getToken(t, admin),
			body:     record(student.ID, "2024-03-02", attendance.StatusLate),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/attendance/mark", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData attendance.Record
				parseData(t, rec.Body, &respData)
				if respData.Semester != conf.Attendance.CurrentSemester {
					t.Errorf("failed! semester = %v; want %v", respData.Semester, conf.Attendance.CurrentSemester)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_records(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", user.RoleTeacher, true)
	teacher2 := testutil.CreateUser(t, usrRepo, "prof2", "prof2@test.cd", "", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent, true)
	student2 := testutil.CreateUser(t, usrRepo, "hero2", "hero2@test.cd", "", user.RoleStudent, true)
	loner := testutil.CreateUser(t, usrRepo, "hero3", "hero3@test.cd", "", user.RoleStudent, true)
	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin, true)

	// records sort by date, newest first
	day1 := testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-01", attendance.StatusPresent, teacher.ID)
	day2 := testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-02", attendance.StatusAbsent, teacher.ID)
	day3 := testutil.CreateAttendanceRecord(t, attRepo, student2.ID, "Physics", "2024-03-03", attendance.StatusLate, teacher2.ID)

	tests := []httpTest{
		{name: "Auth required", path: "/api/attendance/records", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			name: "student sees own records", path: "/api/attendance/records",
			token: getToken(t, student), wantCode: http.StatusOK,
			wantData: okData(t, []attendance.Record{day2, day1}),
		},
		{
			name: "teacher must name a student", path: "/api/attendance/records",
			token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			wantData: failMsg(t, "Student ID is required for teachers and admins"),
		},
		{
			name: "teacher fetches a student's records", path: "/api/attendance/records?studentId=" + student.ID,
			token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: okData(t, []attendance.Record{day2, day1}),
		},
		{
			name: "admin fetches a student's records", path: "/api/attendance/records?studentId=" + student2.ID,
			token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: okData(t, []attendance.Record{day3}),
		},
		{
			name: "unmarked student gets an empty list", path: "/api/attendance/records",
			token: getToken(t, loner), wantCode: http.StatusOK,
			wantData: okData(t, []attendance.Record{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_stats(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", user.RoleTeacher, true)
	teacher2 := testutil.CreateUser(t, usrRepo, "prof2", "prof2@test.cd", "", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent, true)
	student2 := testutil.CreateUser(t, usrRepo, "hero2", "hero2@test.cd", "", user.RoleStudent, true)
	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin, true)

	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-01", attendance.StatusPresent, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-02", attendance.StatusAbsent, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student2.ID, "Mathematics", "2024-03-01", attendance.StatusPresent, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student2.ID, "Physics", "2024-03-01", attendance.StatusLate, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Physics", "2024-03-02", attendance.StatusExcused, teacher2.ID)
	// prior-semester history stays out of every role's stats
	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "History", "2023-10-01", attendance.StatusAbsent, teacher.ID, "Fall 2023")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			// 1 present out of 3 current-semester records
			name: "student stats", token: getToken(t, student), wantCode: http.StatusOK,
			wantData: okData(t, attendance.Stats{
				TotalRecords: 3, Present: 1, Absent: 1, Excused: 1,
				AttendanceRate: 33, GPA: 2.0, StudyHours: 6.6,
			}),
		},
		{
			// 2 present out of the 4 current-semester records this teacher marked
			name: "teacher stats", token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: okData(t, attendance.Stats{
				TotalRecords: 4, Present: 2, Absent: 1, Late: 1,
				AttendanceRate: 50, GPA: 3.0, StudyHours: 12.5, TotalStudents: 2,
			}),
		},
		{
			// 2 present out of the 5 current-semester records
			name: "admin stats", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: okData(t, attendance.Stats{
				TotalRecords: 5, Present: 2, Absent: 1, Late: 1, Excused: 1,
				AttendanceRate: 40, GPA: 3.1, StudyHours: 10, TotalStudents: 2, TotalClasses: 2,
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/attendance/stats", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_export(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", user.RoleTeacher, true)
	teacher2 := testutil.CreateUser(t, usrRepo, "prof2", "prof2@test.cd", "", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent, true)
	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin, true)

	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-01", attendance.StatusPresent, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Mathematics", "2024-03-02", attendance.StatusAbsent, teacher.ID)
	testutil.CreateAttendanceRecord(t, attRepo, student.ID, "Physics", "2024-03-03", attendance.StatusLate, teacher2.ID)

	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	rowCount := func(t *testing.T, body []byte) int {
		t.Helper()
		f, err := excelize.OpenReader(bytes.NewReader(body))
		if err != nil {
			t.Fatalf("OpenReader() failed: %v", err)
		}
		rows, err := f.GetRows("Attendance")
		if err != nil {
			t.Fatalf("GetRows() failed: %v", err)
		}
		return len(rows)
	}

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/attendance/export")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: errMissingToken}, rec)
	})

	t.Run("student not allowed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/attendance/export", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: failMsg(t, deniedMsg)}, rec)
	})

	t.Run("teacher exports their own register", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/attendance/export", getToken(t, teacher))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != xlsxType {
			t.Errorf("failed! Content-Type = %v; want %v", got, xlsxType)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, `attachment; filename="attendance-`) {
			t.Errorf("failed! Content-Disposition = %v", got)
		}
		if got := rowCount(t, rec.Body.Bytes()); got != 3 { // header + 2 records
			t.Errorf("failed! rows = %d; want 3", got)
		}
	})

	t.Run("admin exports everything", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/attendance/export", getToken(t, admin))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if got := rowCount(t, rec.Body.Bytes()); got != 4 { // header + 3 records
			t.Errorf("failed! rows = %d; want 4", got)
		}
	})
}
