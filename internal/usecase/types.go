package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

// ResumeAPI is the subset of the backend the synchronizer writes through.
type ResumeAPI interface {
	CreateResume(ctx context.Context, in model.ProfileInput) (model.ResumeRecord, error)
	UpdateResume(ctx context.Context, id int64, in model.ProfileInput) (model.ResumeRecord, error)
	CreateSection(ctx context.Context, resumeID int64, in model.SectionInput) (model.SectionRecord, error)
	UpdateSection(ctx context.Context, resumeID, sectionID int64, in model.SectionInput) (model.SectionRecord, error)
	CreateEntry(ctx context.Context, sectionID int64, in model.EntryInput) (model.EntryRecord, error)
	UpdateEntry(ctx context.Context, sectionID, entryID int64, in model.EntryInput) (model.EntryRecord, error)
}

// Notifier receives the single user-facing message of an operation.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

type RunRecorder interface {
	Record(ctx context.Context, run *domain.SyncRun) error
}

var ErrProfileWrite = errors.New("profile write failed")

// ValidationError lists required profile fields that were blank. It is
// raised before any network call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required profile fields: " + strings.Join(e.Fields, ", ")
}
