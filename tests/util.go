package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/phoenixdev100/tap/core/assignment"
	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/schedule"
	"github.com/phoenixdev100/tap/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateScheduleEntry(
	t *testing.T,
	repo schedule.Repository,
	ownerID, className, day, start, end string,
) schedule.Entry {
	t.Helper()

	now := time.Now().UTC()
	entry, err := repo.CreateEntry(context.Background(), schedule.Entry{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		ClassName:  className,
		Instructor: "Prof. Moyo",
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		Room:       "B12",
		Color:      schedule.DefaultColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateScheduleEntry() failed: %v", err)
	}
	return entry
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	teacherID, title, status string,
	dueDate time.Time,
	assignedTo ...string,
) assignment.Assignment {
	t.Helper()

	now := time.Now().UTC()
	a, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		ID:         uuid.New().String(),
		TeacherID:  teacherID,
		Title:      title,
		ClassName:  "Mathematics",
		DueDate:    dueDate.UTC(),
		AssignedTo: assignedTo,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateSubmission(
	t *testing.T,
	repo assignment.Repository,
	assignmentID, studentID, comment string,
) assignment.Submission {
	t.Helper()

	sub, err := repo.UpsertSubmission(context.Background(), assignment.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Comment:      comment,
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}

func CreateAttendanceRecord(
	t *testing.T,
	repo attendance.Repository,
	studentID, className, date, status, markedBy string,
	semester ...string,
) attendance.Record {
	t.Helper()

	sem := "Spring 2024"
	if len(semester) > 0 {
		sem = semester[0]
	}
	rec, err := repo.CreateRecord(context.Background(), attendance.Record{
		ID:        uuid.New().String(),
		StudentID: studentID,
		ClassName: className,
		Date:      date,
		Status:    status,
		MarkedBy:  markedBy,
		Semester:  sem,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAttendanceRecord() failed: %v", err)
	}
	return rec
}

func CreateNote(
	t *testing.T,
	repo note.Repository,
	uploaderID, title string,
	isPublic bool,
	tags ...string,
) note.Note {
	t.Helper()

	now := time.Now().UTC()
	n, err := repo.CreateNote(context.Background(), note.Note{
		ID:          uuid.New().String(),
		UploaderID:  uploaderID,
		Title:       title,
		Subject:     "Physics",
		Tags:        tags,
		FileName:    "notes.pdf",
		FileType:    "application/pdf",
		FileSize:    4,
		FileContent: []byte("%PDF"),
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}
	return n
}
