package dummydb

import (
	"context"
	"sort"

	"github.com/phoenixdev100/tap/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func subKey(assignmentID, studentID string) string { return assignmentID + "/" + studentID }

func (repo *assignmentRepository) query(keep func(assignment.Assignment) bool) []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		if keep == nil || keep(*a) {
			assignments = append(assignments, *a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].DueDate.Before(assignments[j].DueDate)
	})
	return assignments
}

func (repo *assignmentRepository) querySubs(keep func(assignment.Submission) bool) []assignment.Submission {
	subs := make([]assignment.Submission, 0, len(repo.db.subs))
	for _, sub := range repo.db.subs {
		if keep == nil || keep(*sub) {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) GetAllAssignments(_ context.Context) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(nil), nil
}

func (repo *assignmentRepository) GetAssignmentsByTeacher(_ context.Context, teacherID string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(a assignment.Assignment) bool { return a.TeacherID == teacherID }), nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[a.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	for key, sub := range repo.db.subs {
		if sub.AssignmentID == id {
			delete(repo.db.subs, key)
		}
	}
	return nil
}

func (repo *assignmentRepository) UpsertSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.subs[subKey(sub.AssignmentID, sub.StudentID)] = &sub
	return sub, nil
}

func (repo *assignmentRepository) GetSubmission(_ context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.subs[subKey(assignmentID, studentID)]; ok {
		return *sub, nil
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) GetSubmissionsByAssignment(_ context.Context, assignmentID string) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubs(func(s assignment.Submission) bool { return s.AssignmentID == assignmentID }), nil
}

func (repo *assignmentRepository) GetSubmissionsByStudent(_ context.Context, studentID string) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubs(func(s assignment.Submission) bool { return s.StudentID == studentID }), nil
}

func (repo *assignmentRepository) GetAllSubmissions(_ context.Context) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubs(nil), nil
}
