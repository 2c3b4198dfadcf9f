package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/phoenixdev100/tap/core/assignment"
)

type dbAssignment struct {
	ID          string         `db:"id"`
	TeacherID   string         `db:"teacher_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	ClassName   string         `db:"class_name"`
	DueDate     null.Time      `db:"due_date"`
	AssignedTo  pq.StringArray `db:"assigned_to"`
	Status      string         `db:"status"`
	CreatedAt   null.Time      `db:"created_at"`
	UpdatedAt   null.Time      `db:"updated_at"`
}

func (a dbAssignment) unpack() assignment.Assignment {
	return assignment.Assignment{
		ID:          a.ID,
		TeacherID:   a.TeacherID,
		Title:       a.Title,
		Description: a.Description,
		ClassName:   a.ClassName,
		DueDate:     a.DueDate.Time,
		AssignedTo:  a.AssignedTo,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt.Time,
		UpdatedAt:   a.UpdatedAt.Time,
	}
}

func packAssignment(a assignment.Assignment) dbAssignment {
	assignedTo := a.AssignedTo
	if assignedTo == nil {
		assignedTo = []string{}
	}
	return dbAssignment{
		ID:          a.ID,
		TeacherID:   a.TeacherID,
		Title:       a.Title,
		Description: a.Description,
		ClassName:   a.ClassName,
		DueDate:     null.NewTime(a.DueDate.UTC(), !a.DueDate.IsZero()),
		AssignedTo:  assignedTo,
		Status:      a.Status,
		CreatedAt:   null.NewTime(a.CreatedAt.UTC(), !a.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(a.UpdatedAt.UTC(), !a.UpdatedAt.IsZero()),
	}
}

type dbSubmission struct {
	AssignmentID string      `db:"assignment_id"`
	StudentID    string      `db:"student_id"`
	Comment      string      `db:"comment"`
	FileName     null.String `db:"file_name"`
	FileType     null.String `db:"file_type"`
	FileSize     null.Int64  `db:"file_size"`
	FileContent  null.Bytes  `db:"file_content"`
	SubmittedAt  null.Time   `db:"submitted_at"`
	Score        null.Int    `db:"score"`
	Feedback     string      `db:"feedback"`
	GradedBy     null.String `db:"graded_by"`
	GradedAt     null.Time   `db:"graded_at"`
}

func (s dbSubmission) unpack() assignment.Submission {
	sub := assignment.Submission{
		AssignmentID: s.AssignmentID,
		StudentID:    s.StudentID,
		Comment:      s.Comment,
		FileName:     s.FileName.String,
		FileType:     s.FileType.String,
		FileSize:     s.FileSize.Int64,
		FileContent:  s.FileContent.Bytes,
		SubmittedAt:  s.SubmittedAt.Time,
		Feedback:     s.Feedback,
		GradedBy:     s.GradedBy.String,
	}
	if s.Score.Valid {
		score := s.Score.Int
		sub.Score = &score
	}
	if s.GradedAt.Valid {
		gradedAt := s.GradedAt.Time
		sub.GradedAt = &gradedAt
	}
	return sub
}

func packSubmission(sub assignment.Submission) dbSubmission {
	row := dbSubmission{
		AssignmentID: sub.AssignmentID,
		StudentID:    sub.StudentID,
		Comment:      sub.Comment,
		FileName:     null.NewString(sub.FileName, sub.FileName != ""),
		FileType:     null.NewString(sub.FileType, sub.FileType != ""),
		FileSize:     null.NewInt64(sub.FileSize, sub.FileSize > 0),
		FileContent:  null.NewBytes(sub.FileContent, sub.FileContent != nil),
		SubmittedAt:  null.NewTime(sub.SubmittedAt.UTC(), !sub.SubmittedAt.IsZero()),
		Feedback:     sub.Feedback,
		GradedBy:     null.NewString(sub.GradedBy, sub.GradedBy != ""),
	}
	if sub.Score != nil {
		row.Score = null.IntFrom(*sub.Score)
	}
	if sub.GradedAt != nil {
		row.GradedAt = null.TimeFrom(sub.GradedAt.UTC())
	}
	return row
}

func unpackSubmissions(rows []dbSubmission) []assignment.Submission {
	subs := make([]assignment.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.unpack())
	}
	return subs
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	const query = `
INSERT INTO assignments (id, teacher_id, title, description, class_name, due_date, assigned_to, status, created_at, updated_at)
VALUES (:id, :teacher_id, :title, :description, :class_name, :due_date, :assigned_to, :status, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, packAssignment(a)); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var row dbAssignment
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM assignments WHERE id = $1`, id); err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment")
	}
	return row.unpack(), nil
}

func (repo assignmentRepository) GetAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []dbAssignment
	const query = `SELECT * FROM assignments ORDER BY due_date`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.unpack())
	}
	return assignments, nil
}

func (repo assignmentRepository) GetAssignmentsByTeacher(ctx context.Context, teacherID string) ([]assignment.Assignment, error) {
	var rows []dbAssignment
	const query = `SELECT * FROM assignments WHERE teacher_id = $1 ORDER BY due_date`
	if err := repo.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying assignments by teacher")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.unpack())
	}
	return assignments, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	const query = `
UPDATE assignments
SET title = :title, description = :description, class_name = :class_name, due_date = :due_date,
    assigned_to = :assigned_to, status = :status, updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, packAssignment(a))
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo assignmentRepository) UpsertSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	const query = `
INSERT INTO submissions (assignment_id, student_id, comment, file_name, file_type, file_size, file_content, submitted_at, score, feedback, graded_by, graded_at)
VALUES (:assignment_id, :student_id, :comment, :file_name, :file_type, :file_size, :file_content, :submitted_at, :score, :feedback, :graded_by, :graded_at)
ON CONFLICT (assignment_id, student_id) DO UPDATE
SET comment = EXCLUDED.comment, file_name = EXCLUDED.file_name, file_type = EXCLUDED.file_type,
    file_size = EXCLUDED.file_size, file_content = EXCLUDED.file_content, submitted_at = EXCLUDED.submitted_at,
    score = EXCLUDED.score, feedback = EXCLUDED.feedback, graded_by = EXCLUDED.graded_by, graded_at = EXCLUDED.graded_at`
	if _, err := repo.db.NamedExecContext(ctx, query, packSubmission(sub)); err != nil {
		return assignment.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return sub, nil
}

func (repo assignmentRepository) GetSubmission(ctx context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	var row dbSubmission
	const query = `SELECT * FROM submissions WHERE assignment_id = $1 AND student_id = $2`
	if err := repo.db.GetContext(ctx, &row, query, assignmentID, studentID); err != nil {
		return assignment.Submission{}, repo.trapNoRowsErr(err, assignment.ErrSubmissionNotFound, "getting submission")
	}
	return row.unpack(), nil
}

func (repo assignmentRepository) GetSubmissionsByAssignment(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	var rows []dbSubmission
	const query = `SELECT * FROM submissions WHERE assignment_id = $1 ORDER BY submitted_at`
	if err := repo.db.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions by assignment")
	}
	return unpackSubmissions(rows), nil
}

func (repo assignmentRepository) GetSubmissionsByStudent(ctx context.Context, studentID string) ([]assignment.Submission, error) {
	var rows []dbSubmission
	const query = `SELECT * FROM submissions WHERE student_id = $1 ORDER BY submitted_at`
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions by student")
	}
	return unpackSubmissions(rows), nil
}

func (repo assignmentRepository) GetAllSubmissions(ctx context.Context) ([]assignment.Submission, error) {
	var rows []dbSubmission
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM submissions`); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return unpackSubmissions(rows), nil
}
