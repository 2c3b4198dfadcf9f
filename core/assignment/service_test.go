package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenixdev100/tap/core"
)

type fakeRepo struct {
	assignments map[string]Assignment
	subs        map[string]Submission // key assignmentID+"/"+studentID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assignments: make(map[string]Assignment),
		subs:        make(map[string]Submission),
	}
}

func subKey(assignmentID, studentID string) string { return assignmentID + "/" + studentID }

func (r *fakeRepo) CreateAssignment(_ context.Context, a Assignment) (Assignment, error) {
	r.assignments[a.ID] = a
	return a, nil
}
func (r *fakeRepo) GetAssignmentByID(_ context.Context, id string) (Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return Assignment{}, ErrNotFound
	}
	return a, nil
}
func (r *fakeRepo) GetAllAssignments(_ context.Context) ([]Assignment, error) {
	all := make([]Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		all = append(all, a)
	}
	return all, nil
}
func (r *fakeRepo) GetAssignmentsByTeacher(_ context.Context, teacherID string) ([]Assignment, error) {
	var res []Assignment
	for _, a := range r.assignments {
		if a.TeacherID == teacherID {
			res = append(res, a)
		}
	}
	return res, nil
}
func (r *fakeRepo) UpdateAssignment(_ context.Context, a Assignment) (Assignment, error) {
	if _, ok := r.assignments[a.ID]; !ok {
		return Assignment{}, ErrNotFound
	}
	r.assignments[a.ID] = a
	return a, nil
}
func (r *fakeRepo) DeleteAssignment(_ context.Context, id string) error {
	delete(r.assignments, id)
	return nil
}
func (r *fakeRepo) UpsertSubmission(_ context.Context, sub Submission) (Submission, error) {
	r.subs[subKey(sub.AssignmentID, sub.StudentID)] = sub
	return sub, nil
}
func (r *fakeRepo) GetSubmission(_ context.Context, assignmentID, studentID string) (Submission, error) {
	sub, ok := r.subs[subKey(assignmentID, studentID)]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return sub, nil
}
func (r *fakeRepo) GetSubmissionsByAssignment(_ context.Context, assignmentID string) ([]Submission, error) {
	var res []Submission
	for _, sub := range r.subs {
		if sub.AssignmentID == assignmentID {
			res = append(res, sub)
		}
	}
	return res, nil
}
func (r *fakeRepo) GetSubmissionsByStudent(_ context.Context, studentID string) ([]Submission, error) {
	var res []Submission
	for _, sub := range r.subs {
		if sub.StudentID == studentID {
			res = append(res, sub)
		}
	}
	return res, nil
}
func (r *fakeRepo) GetAllSubmissions(_ context.Context) ([]Submission, error) {
	all := make([]Submission, 0, len(r.subs))
	for _, sub := range r.subs {
		all = append(all, sub)
	}
	return all, nil
}

func testConf(openEnrollment bool) *core.Config {
	return &core.Config{Assignment: core.AssignmentConfig{OpenEnrollment: openEnrollment}}
}

func TestServiceSubmit(t *testing.T) {
	ctx := context.Background()
	due := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name           string
		openEnrollment bool
		assignedTo     []string
		status         string
		studentID      string
		wantErr        error
	}{
		{name: "assigned student", assignedTo: []string{"s1"}, status: StatusPublished, studentID: "s1"},
		{name: "unassigned student", assignedTo: []string{"s2"}, status: StatusPublished, studentID: "s1", wantErr: ErrNotAssigned},
		{name: "open enrollment on", openEnrollment: true, status: StatusPublished, studentID: "s1"},
		{name: "open enrollment off", status: StatusPublished, studentID: "s1", wantErr: ErrNotAssigned},
		{name: "draft assignment", assignedTo: []string{"s1"}, status: StatusDraft, studentID: "s1", wantErr: ErrNotOpen},
		{name: "closed assignment", assignedTo: []string{"s1"}, status: StatusClosed, studentID: "s1", wantErr: ErrNotOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo, nil, testConf(tt.openEnrollment))
			a, _ := repo.CreateAssignment(ctx, Assignment{
				ID: "a1", TeacherID: "t1", Title: "Essay", DueDate: due,
				AssignedTo: tt.assignedTo, Status: tt.status,
			})

			_, err := svc.Submit(ctx, a, tt.studentID, NewSubmission{Comment: "done"})
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServiceResubmission(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConf(true))
	a, _ := repo.CreateAssignment(ctx, Assignment{ID: "a1", TeacherID: "t1", Status: StatusPublished})

	first, err := svc.Submit(ctx, a, "s1", NewSubmission{Comment: "v1"})
	require.NoError(t, err)

	// ungraded: replaces
	second, err := svc.Submit(ctx, a, "s1", NewSubmission{Comment: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", second.Comment)
	assert.True(t, second.SubmittedAt.After(first.SubmittedAt) || second.SubmittedAt.Equal(first.SubmittedAt))

	// graded: rejected, grade untouched
	_, err = svc.GradeSubmission(ctx, a, "s1", "t1", Grade{Score: intPtr(88), Feedback: "good"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, a, "s1", NewSubmission{Comment: "v3"})
	assert.True(t, core.IsConflict(err), "want conflict, got %v", err)

	sub, err := svc.GetSubmission(ctx, a.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, 88, *sub.Score)
	assert.Equal(t, "v2", sub.Comment)
}

func TestServiceGradeOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConf(true))
	a, _ := repo.CreateAssignment(ctx, Assignment{ID: "a1", TeacherID: "t1", Status: StatusPublished})
	_, err := svc.Submit(ctx, a, "s1", NewSubmission{})
	require.NoError(t, err)

	_, err = svc.GradeSubmission(ctx, a, "s1", "t1", Grade{Score: intPtr(60)})
	require.NoError(t, err)
	sub, err := svc.GradeSubmission(ctx, a, "s1", "t1", Grade{Score: intPtr(75), Feedback: "revised"})
	require.NoError(t, err)
	assert.Equal(t, 75, *sub.Score)
	assert.Equal(t, "revised", sub.Feedback)

	// grading a missing submission
	_, err = svc.GradeSubmission(ctx, a, "nobody", "t1", Grade{Score: intPtr(50)})
	assert.Equal(t, ErrSubmissionNotFound, err)
}

func TestServiceListForStudent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConf(false))
	due := time.Now().Add(24 * time.Hour)

	_, _ = repo.CreateAssignment(ctx, Assignment{ID: "a1", Status: StatusPublished, AssignedTo: []string{"s1"}, DueDate: due})
	_, _ = repo.CreateAssignment(ctx, Assignment{ID: "a2", Status: StatusPublished, AssignedTo: []string{"s2"}, DueDate: due})
	_, _ = repo.CreateAssignment(ctx, Assignment{ID: "a3", Status: StatusDraft, AssignedTo: []string{"s1"}, DueDate: due})

	views, err := svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a1", views[0].ID)
	assert.False(t, views[0].Submitted)

	a1, _ := repo.GetAssignmentByID(ctx, "a1")
	_, err = svc.Submit(ctx, a1, "s1", NewSubmission{})
	require.NoError(t, err)

	views, err = svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Submitted)
}
