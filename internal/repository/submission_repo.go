package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// SubmissionRepository stores the single submission a student may make per assignment.
type SubmissionRepository interface {
	// ForStudent returns the student's submissions keyed by assignment ID.
	ForStudent(ctx context.Context, studentID uint, assignmentIDs []uint) (map[uint]models.Submission, error)
	Find(ctx context.Context, assignmentID, studentID uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ForStudent(ctx context.Context, studentID uint, assignmentIDs []uint) (map[uint]models.Submission, error) {
	result := make(map[uint]models.Submission, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return result, nil
	}

	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	for _, submission := range submissions {
		result[submission.AssignmentID] = submission
	}
	return result, nil
}

func (r *submissionRepository) Find(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Take(&submission).Error
	return submission, err
}

// Create inserts the submission. A second insert for the same assignment and
// student fails with ErrDuplicateSubmission.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	err := r.db.WithContext(ctx).Create(submission).Error
	if isUniqueViolation(err) {
		return ErrDuplicateSubmission
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
