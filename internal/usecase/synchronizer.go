package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// Synchronizer saves an editing document to the backend: one profile write,
// then one write per non-empty section, then one per entry, strictly in that
// order. Authored sections go education, experience, projects, skills; any
// other sections follow in document order. Only the profile write is fatal. Section and entry failures are
// logged and the save carries on; nothing is rolled back.
type Synchronizer struct {
	api      ResumeAPI
	recorder RunRecorder
	logger   *log.Logger
}

func NewSynchronizer(api ResumeAPI, recorder RunRecorder, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synchronizer{api: api, recorder: recorder, logger: logger}
}

type SaveRequest struct {
	SessionID string
	Document  *domain.Document
	Notifier  Notifier
}

type Outcome struct {
	RunID    uuid.UUID `json:"run_id"`
	Success  bool      `json:"success"`
	ResumeID *int64    `json:"resume_id,omitempty"`
	Writes   int       `json:"writes"`
	Failed   int       `json:"failed"`
	Err      error     `json:"-"`
}

// Save runs the write sequence against req.Document and writes confirmed
// identities back into it so the next save updates instead of creating.
func (s *Synchronizer) Save(ctx context.Context, req SaveRequest) Outcome {
	out := Outcome{RunID: uuid.New()}
	doc := req.Document
	if doc == nil {
		doc = domain.NewDocument()
	}

	if missing := missingProfileFields(doc.Profile); len(missing) > 0 {
		out.Err = &ValidationError{Fields: missing}
		s.finish(ctx, req, &out)
		return out
	}

	resumeID, err := s.writeProfile(ctx, &doc.Profile)
	out.Writes++
	if err != nil {
		out.Err = err
		s.logger.Printf("[Sync] run=%s profile write failed: %v", out.RunID, err)
		s.finish(ctx, req, &out)
		return out
	}
	out.ResumeID = domain.ID(resumeID)

	for _, i := range sectionWriteOrder(doc) {
		sec := &doc.Sections[i]
		if len(sec.Entries) == 0 {
			continue
		}

		sectionID, err := s.writeSection(ctx, resumeID, sec)
		out.Writes++
		if err != nil {
			out.Failed += 1 + len(sec.Entries)
			s.logger.Printf("[Sync] run=%s section %q write failed, skipping %d entries (non-fatal): %v",
				out.RunID, sec.Category, len(sec.Entries), err)
			continue
		}

		for _, j := range entryWriteOrder(sec.Entries) {
			err := s.writeEntry(ctx, sectionID, &sec.Entries[j])
			out.Writes++
			if err != nil {
				out.Failed++
				s.logger.Printf("[Sync] run=%s section=%d entry order=%d write failed (non-fatal): %v",
					out.RunID, sectionID, sec.Entries[j].Order, err)
			}
		}
	}

	out.Success = true
	s.finish(ctx, req, &out)
	return out
}

func missingProfileFields(p domain.Profile) []string {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, string(domain.ProfileFullName))
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, string(domain.ProfileEmail))
	}
	return missing
}

func (s *Synchronizer) writeProfile(ctx context.Context, p *domain.Profile) (int64, error) {
	in := model.NewProfileInput(*p)

	var rec model.ResumeRecord
	var err error
	if p.ID == nil {
		rec, err = s.api.CreateResume(ctx, in)
	} else {
		rec, err = s.api.UpdateResume(ctx, *p.ID, in)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProfileWrite, err)
	}

	id := rec.ID
	if id == 0 && p.ID != nil {
		id = *p.ID
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: backend returned no resume id", ErrProfileWrite)
	}
	p.ID = domain.ID(id)
	return id, nil
}

func (s *Synchronizer) writeSection(ctx context.Context, resumeID int64, sec *domain.Section) (int64, error) {
	in := model.NewSectionInput(resumeID, *sec)
	if sec.ID != nil {
		if _, err := s.api.UpdateSection(ctx, resumeID, *sec.ID, in); err != nil {
			return 0, err
		}
		return *sec.ID, nil
	}

	rec, err := s.api.CreateSection(ctx, resumeID, in)
	if err != nil {
		return 0, err
	}
	if rec.ID == 0 {
		return 0, errors.New("backend returned no section id")
	}
	sec.ID = domain.ID(rec.ID)
	return rec.ID, nil
}

func (s *Synchronizer) writeEntry(ctx context.Context, sectionID int64, e *domain.Entry) error {
	in := model.NewEntryInput(sectionID, *e)
	if e.ID != nil {
		_, err := s.api.UpdateEntry(ctx, sectionID, *e.ID, in)
		return err
	}

	rec, err := s.api.CreateEntry(ctx, sectionID, in)
	if err != nil {
		return err
	}
	if rec.ID != 0 {
		e.ID = domain.ID(rec.ID)
	}
	return nil
}

// sectionWriteOrder returns section indices with the authored categories
// first in their fixed order, whatever their position in the document.
func sectionWriteOrder(doc *domain.Document) []int {
	idx := make([]int, 0, len(doc.Sections))
	seen := make(map[int]bool, len(doc.Sections))
	for _, c := range domain.AuthoredCategories {
		if i := doc.SectionIndex(c); i >= 0 {
			idx = append(idx, i)
			seen[i] = true
		}
	}
	for i := range doc.Sections {
		if !seen[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// entryWriteOrder returns entry indices sorted by ascending Order.
func entryWriteOrder(entries []domain.Entry) []int {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return entries[idx[a]].Order < entries[idx[b]].Order })
	return idx
}

func (s *Synchronizer) finish(ctx context.Context, req SaveRequest, out *Outcome) {
	if req.Notifier != nil {
		if msg, ok := outcomeMessage(out); ok {
			req.Notifier.Success(msg)
		} else {
			req.Notifier.Failure(msg)
		}
	}

	if s.recorder == nil {
		return
	}
	run := &domain.SyncRun{
		ID:        out.RunID,
		SessionID: req.SessionID,
		ResumeID:  out.ResumeID,
		Writes:    out.Writes,
		Failed:    out.Failed,
		Metadata:  map[string]interface{}{},
		CreatedAt: time.Now().UTC(),
	}
	var vErr *ValidationError
	switch {
	case out.Success:
		run.Status = domain.SyncStatusSucceeded
	case errors.As(out.Err, &vErr):
		run.Status = domain.SyncStatusInvalid
		run.Metadata["missing_fields"] = vErr.Fields
	default:
		run.Status = domain.SyncStatusFailed
	}
	if out.Err != nil {
		run.Error = out.Err.Error()
	}
	if err := s.recorder.Record(ctx, run); err != nil {
		s.logger.Printf("[Sync] run=%s unable to record outcome (non-fatal): %v", out.RunID, err)
	}
}

func outcomeMessage(out *Outcome) (string, bool) {
	var vErr *ValidationError
	switch {
	case out.Success && out.Failed > 0:
		return fmt.Sprintf("Resume saved, but %d items failed to save", out.Failed), true
	case out.Success:
		return "Resume saved successfully", true
	case errors.As(out.Err, &vErr):
		return "Please fill in the required fields: " + strings.Join(vErr.Fields, ", "), false
	default:
		return "Failed to save resume", false
	}
}

// Message is the user-facing text of the outcome.
func (o Outcome) Message() string {
	msg, _ := outcomeMessage(&o)
	return msg
}
