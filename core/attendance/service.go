package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/user"
)

var (
	// ErrDuplicate is returned by repositories when a (student,
	// class, date) triple is already marked.
	ErrDuplicate = errors.New("attendance already marked for this student, class and date")

	ErrStudentNotFound = errors.New("student not found")
)

// UserDirectory is the slice of the user service needed to resolve
// students.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type (
	Service interface {
		Mark(ctx context.Context, markerID string, nr NewRecord) (Record, error)
		RecordsForStudent(ctx context.Context, studentID string) ([]Record, error)
		RecordsForMarker(ctx context.Context, markerID string) ([]Record, error)
		AllRecords(ctx context.Context) ([]Record, error)
		StatsForStudent(ctx context.Context, studentID string) (Stats, error)
		StatsForTeacher(ctx context.Context, teacherID string) (Stats, error)
		StatsForAdmin(ctx context.Context) (Stats, error)
	}

	service struct {
		repo   Repository
		usrSvc UserDirectory
		conf   *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc UserDirectory, conf *core.Config) Service {
	return &service{
		repo:   repo,
		usrSvc: usrSvc,
		conf:   conf,
	}
}

func (svc *service) Mark(ctx context.Context, markerID string, nr NewRecord) (Record, error) {
	usr, err := svc.usrSvc.GetByID(ctx, nr.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Record{}, ErrStudentNotFound
		}
		return Record{}, err
	}
	if !usr.IsStudent() {
		return Record{}, ErrStudentNotFound
	}

	semester := nr.Semester
	if semester == "" {
		semester = svc.conf.Attendance.CurrentSemester
	}
	rec := Record{
		ID:        uuid.New().String(),
		StudentID: nr.StudentID,
		ClassName: nr.ClassName,
		Date:      nr.Date,
		Status:    nr.Status,
		MarkedBy:  markerID,
		Notes:     nr.Notes,
		Semester:  semester,
		CreatedAt: time.Now().UTC(),
	}
	rec, err = svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		if errors.Cause(err) == ErrDuplicate {
			return Record{}, core.NewConflictError(ErrDuplicate.Error())
		}
		return Record{}, err
	}
	return rec, nil
}

func (svc *service) RecordsForStudent(ctx context.Context, studentID string) ([]Record, error) {
	return svc.repo.GetRecordsByStudent(ctx, studentID)
}

func (svc *service) RecordsForMarker(ctx context.Context, markerID string) ([]Record, error) {
	return svc.repo.GetRecordsByMarker(ctx, markerID)
}

func (svc *service) AllRecords(ctx context.Context) ([]Record, error) {
	return svc.repo.GetAllRecords(ctx)
}

func (svc *service) StatsForStudent(ctx context.Context, studentID string) (Stats, error) {
	records, err := svc.repo.GetRecordsByStudent(ctx, studentID)
	if err != nil {
		return Stats{}, err
	}
	stats := ComputeStats(svc.currentSemester(records), studentDerivation)
	stats.TotalStudents = 0
	stats.TotalClasses = 0
	return stats, nil
}

func (svc *service) StatsForTeacher(ctx context.Context, teacherID string) (Stats, error) {
	records, err := svc.repo.GetRecordsByMarker(ctx, teacherID)
	if err != nil {
		return Stats{}, err
	}
	stats := ComputeStats(svc.currentSemester(records), teacherDerivation)
	stats.TotalClasses = 0
	return stats, nil
}

func (svc *service) StatsForAdmin(ctx context.Context) (Stats, error) {
	records, err := svc.repo.GetAllRecords(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(svc.currentSemester(records), adminDerivation), nil
}

// currentSemester keeps only the records tagged with the configured
// reporting semester; stats never mix periods.
func (svc *service) currentSemester(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Semester == svc.conf.Attendance.CurrentSemester {
			out = append(out, rec)
		}
	}
	return out
}
