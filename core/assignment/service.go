package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotAssigned        = errors.New("you are not assigned to this assignment")
	ErrNotOpen            = errors.New("assignment is not open for submissions")
)

type (
	// StudentView is an assignment as a student sees it, with their
	// own submission state folded in.
	StudentView struct {
		Assignment
		Submitted   bool       `json:"submitted"`
		SubmittedAt *time.Time `json:"submitted_at"`
		Score       *int       `json:"score"`
		Feedback    string     `json:"feedback,omitempty"`
	}

	// TeacherView is an assignment with submission counters for its
	// owner.
	TeacherView struct {
		Assignment
		SubmissionCount int `json:"submission_count"`
		GradedCount     int `json:"graded_count"`
	}

	// AdminView is the system-wide listing with the owning teacher
	// resolved.
	AdminView struct {
		Assignment
		TeacherName     string `json:"teacher_name"`
		SubmissionCount int    `json:"submission_count"`
	}

	// UserDirectory is the slice of the user service needed to
	// resolve teacher names.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service interface {
		GetByID(ctx context.Context, id string) (Assignment, error)
		ListForStudent(ctx context.Context, studentID string) ([]StudentView, error)
		ListForTeacher(ctx context.Context, teacherID string) ([]TeacherView, error)
		ListAll(ctx context.Context) ([]AdminView, error)
		StatsForStudent(ctx context.Context, studentID string) (StudentStats, error)
		StatsForTeacher(ctx context.Context, teacherID string) (TeacherStats, error)
		StatsForAdmin(ctx context.Context) (AdminStats, error)
		Create(ctx context.Context, teacherID string, na NewAssignment) (Assignment, error)
		Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, id string) error
		Submit(ctx context.Context, a Assignment, studentID string, ns NewSubmission) (Submission, error)
		GradeSubmission(ctx context.Context, a Assignment, studentID, graderID string, g Grade) (Submission, error)
		GetSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error)
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

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

// visibleToStudent keeps published assignments the student is
// assigned to, plus any they already submitted to.
func (svc *service) visibleToStudent(ctx context.Context, studentID string) ([]Assignment, []Submission, error) {
	all, err := svc.repo.GetAllAssignments(ctx)
	if err != nil {
		return nil, nil, err
	}
	subs, err := svc.repo.GetSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	submitted := make(map[string]bool, len(subs))
	for _, sub := range subs {
		submitted[sub.AssignmentID] = true
	}

	visible := make([]Assignment, 0, len(all))
	for _, a := range all {
		if a.Status != StatusPublished && !submitted[a.ID] {
			continue
		}
		if a.IsAssignedTo(studentID, svc.conf.Assignment.OpenEnrollment) || submitted[a.ID] {
			visible = append(visible, a)
		}
	}
	return visible, subs, nil
}

func (svc *service) ListForStudent(ctx context.Context, studentID string) ([]StudentView, error) {
	visible, subs, err := svc.visibleToStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	subByID := make(map[string]Submission, len(subs))
	for _, sub := range subs {
		subByID[sub.AssignmentID] = sub
	}

	views := make([]StudentView, 0, len(visible))
	for _, a := range visible {
		view := StudentView{Assignment: a}
		if sub, ok := subByID[a.ID]; ok {
			submittedAt := sub.SubmittedAt
			view.Submitted = true
			view.SubmittedAt = &submittedAt
			view.Score = sub.Score
			view.Feedback = sub.Feedback
		}
		views = append(views, view)
	}
	return views, nil
}

func (svc *service) ListForTeacher(ctx context.Context, teacherID string) ([]TeacherView, error) {
	owned, err := svc.repo.GetAssignmentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	views := make([]TeacherView, 0, len(owned))
	for _, a := range owned {
		subs, err := svc.repo.GetSubmissionsByAssignment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		view := TeacherView{Assignment: a, SubmissionCount: len(subs)}
		for _, sub := range subs {
			if sub.IsGraded() {
				view.GradedCount++
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (svc *service) ListAll(ctx context.Context) ([]AdminView, error) {
	all, err := svc.repo.GetAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	teacherNames := make(map[string]string)
	views := make([]AdminView, 0, len(all))
	for _, a := range all {
		name, ok := teacherNames[a.TeacherID]
		if !ok {
			if usr, err := svc.usrSvc.GetByID(ctx, a.TeacherID); err == nil {
				name = usr.Username
			}
			teacherNames[a.TeacherID] = name
		}
		subs, err := svc.repo.GetSubmissionsByAssignment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, AdminView{Assignment: a, TeacherName: name, SubmissionCount: len(subs)})
	}
	return views, nil
}

func (svc *service) StatsForStudent(ctx context.Context, studentID string) (StudentStats, error) {
	visible, subs, err := svc.visibleToStudent(ctx, studentID)
	if err != nil {
		return StudentStats{}, err
	}
	return ComputeStudentStats(visible, subs, time.Now().UTC()), nil
}

func (svc *service) StatsForTeacher(ctx context.Context, teacherID string) (TeacherStats, error) {
	owned, err := svc.repo.GetAssignmentsByTeacher(ctx, teacherID)
	if err != nil {
		return TeacherStats{}, err
	}
	var subs []Submission
	for _, a := range owned {
		aSubs, err := svc.repo.GetSubmissionsByAssignment(ctx, a.ID)
		if err != nil {
			return TeacherStats{}, err
		}
		subs = append(subs, aSubs...)
	}
	return ComputeTeacherStats(owned, subs), nil
}

func (svc *service) StatsForAdmin(ctx context.Context) (AdminStats, error) {
	all, err := svc.repo.GetAllAssignments(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	subs, err := svc.repo.GetAllSubmissions(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	return ComputeAdminStats(all, subs), nil
}

func (svc *service) Create(ctx context.Context, teacherID string, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	a := Assignment{
		ID:          uuid.New().String(),
		TeacherID:   teacherID,
		Title:       na.Title,
		Description: na.Description,
		ClassName:   na.ClassName,
		DueDate:     na.DueDate.UTC(),
		AssignedTo:  na.AssignedTo,
		Status:      StatusPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *service) Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error) {
	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.Description != "" {
		a.Description = ua.Description
	}
	if ua.ClassName != "" {
		a.ClassName = ua.ClassName
	}
	if ua.DueDate != nil {
		a.DueDate = ua.DueDate.UTC()
	}
	if ua.AssignedTo != nil {
		a.AssignedTo = ua.AssignedTo
	}
	if ua.Status != "" {
		a.Status = ua.Status
	}
	a.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, a)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

// Submit records a student's submission. Resubmission replaces the
// previous one until it has been graded, after which it is rejected.
func (svc *service) Submit(ctx context.Context, a Assignment, studentID string, ns NewSubmission) (Submission, error) {
	if a.Status != StatusPublished {
		return Submission{}, ErrNotOpen
	}
	if !a.IsAssignedTo(studentID, svc.conf.Assignment.OpenEnrollment) {
		return Submission{}, ErrNotAssigned
	}

	if prev, err := svc.repo.GetSubmission(ctx, a.ID, studentID); err == nil {
		if prev.IsGraded() {
			return Submission{}, core.NewConflictError("submission has already been graded")
		}
	} else if errors.Cause(err) != ErrSubmissionNotFound {
		return Submission{}, err
	}

	sub := Submission{
		AssignmentID: a.ID,
		StudentID:    studentID,
		Comment:      ns.Comment,
		SubmittedAt:  time.Now().UTC(),
	}
	if ns.File != nil {
		sub.FileName = ns.File.Name
		sub.FileType = ns.File.ContentType
		sub.FileSize = ns.File.Size
		sub.FileContent = ns.File.Content
	}
	return svc.repo.UpsertSubmission(ctx, sub)
}

// GradeSubmission scores a submission. Re-grading overwrites the
// previous score.
func (svc *service) GradeSubmission(ctx context.Context, a Assignment, studentID, graderID string, g Grade) (Submission, error) {
	sub, err := svc.repo.GetSubmission(ctx, a.ID, studentID)
	if err != nil {
		return Submission{}, err
	}
	now := time.Now().UTC()
	sub.Score = g.Score
	sub.Feedback = g.Feedback
	sub.GradedBy = graderID
	sub.GradedAt = &now
	return svc.repo.UpsertSubmission(ctx, sub)
}

func (svc *service) GetSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error) {
	return svc.repo.GetSubmission(ctx, assignmentID, studentID)
}
