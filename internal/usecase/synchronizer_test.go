package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

type call struct {
	op     string
	parent int64
	id     int64
}

type fakeAPI struct {
	calls  []call
	nextID int64
	// failOn maps "op#n" (1-based per op) to an error.
	failOn map[string]error
	counts map[string]int

	entryInputs []model.EntryInput
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 100, failOn: map[string]error{}, counts: map[string]int{}}
}

func (f *fakeAPI) record(op string, parent, id int64) error {
	f.counts[op]++
	f.calls = append(f.calls, call{op: op, parent: parent, id: id})
	return f.failOn[fmt.Sprintf("%s#%d", op, f.counts[op])]
}

func (f *fakeAPI) newID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) CreateResume(_ context.Context, in model.ProfileInput) (model.ResumeRecord, error) {
	if err := f.record("create_resume", 0, 0); err != nil {
		return model.ResumeRecord{}, err
	}
	return model.ResumeRecord{ID: f.newID(), FullName: in.FullName, Email: in.Email}, nil
}

func (f *fakeAPI) UpdateResume(_ context.Context, id int64, in model.ProfileInput) (model.ResumeRecord, error) {
	if err := f.record("update_resume", 0, id); err != nil {
		return model.ResumeRecord{}, err
	}
	return model.ResumeRecord{ID: id, FullName: in.FullName, Email: in.Email}, nil
}

func (f *fakeAPI) CreateSection(_ context.Context, resumeID int64, in model.SectionInput) (model.SectionRecord, error) {
	if in.Resume != resumeID {
		return model.SectionRecord{}, errors.New("parent mismatch")
	}
	if err := f.record("create_section", resumeID, 0); err != nil {
		return model.SectionRecord{}, err
	}
	return model.SectionRecord{ID: f.newID(), SectionType: in.SectionType}, nil
}

func (f *fakeAPI) UpdateSection(_ context.Context, resumeID, sectionID int64, _ model.SectionInput) (model.SectionRecord, error) {
	if err := f.record("update_section", resumeID, sectionID); err != nil {
		return model.SectionRecord{}, err
	}
	return model.SectionRecord{ID: sectionID}, nil
}

func (f *fakeAPI) CreateEntry(_ context.Context, sectionID int64, in model.EntryInput) (model.EntryRecord, error) {
	if in.Section != sectionID {
		return model.EntryRecord{}, errors.New("parent mismatch")
	}
	if err := f.record("create_entry", sectionID, 0); err != nil {
		return model.EntryRecord{}, err
	}
	f.entryInputs = append(f.entryInputs, in)
	return model.EntryRecord{ID: f.newID(), Title: in.Title, IsActive: in.IsActive}, nil
}

func (f *fakeAPI) UpdateEntry(_ context.Context, sectionID, entryID int64, _ model.EntryInput) (model.EntryRecord, error) {
	if err := f.record("update_entry", sectionID, entryID); err != nil {
		return model.EntryRecord{}, err
	}
	return model.EntryRecord{ID: entryID}, nil
}

type fakeNotifier struct {
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(m string) { n.successes = append(n.successes, m) }
func (n *fakeNotifier) Failure(m string) { n.failures = append(n.failures, m) }

func (n *fakeNotifier) total() int { return len(n.successes) + len(n.failures) }

type fakeRecorder struct {
	runs []*domain.SyncRun
	err  error
}

func (r *fakeRecorder) Record(_ context.Context, run *domain.SyncRun) error {
	r.runs = append(r.runs, run)
	return r.err
}

func validDocument() *domain.Document {
	d := domain.NewDocument()
	_ = d.UpdateProfileField(domain.ProfileFullName, "Ada Lovelace")
	_ = d.UpdateProfileField(domain.ProfileEmail, "ada@example.com")
	return d
}

func newTestSynchronizer(api ResumeAPI, rec RunRecorder) (*Synchronizer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewSynchronizer(api, rec, log.New(&buf, "", 0)), &buf
}

func TestSave_BlankEmailMakesNoCalls(t *testing.T) {
	api := newFakeAPI()
	rec := &fakeRecorder{}
	n := &fakeNotifier{}
	s, _ := newTestSynchronizer(api, rec)

	d := validDocument()
	_ = d.UpdateProfileField(domain.ProfileEmail, "   ")
	_, _ = d.AddEntry(0)

	out := s.Save(context.Background(), SaveRequest{SessionID: "s1", Document: d, Notifier: n})
	if out.Success {
		t.Fatalf("expected failure")
	}
	var vErr *ValidationError
	if !errors.As(out.Err, &vErr) || len(vErr.Fields) != 1 || vErr.Fields[0] != "email" {
		t.Fatalf("expected validation error for email, got %v", out.Err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected zero network calls, got %d", len(api.calls))
	}
	if len(n.failures) != 1 || n.total() != 1 {
		t.Fatalf("expected exactly one failure notice, got %+v", n)
	}
	if len(rec.runs) != 1 || rec.runs[0].Status != domain.SyncStatusInvalid {
		t.Fatalf("expected one invalid run recorded, got %+v", rec.runs)
	}
}

func TestSave_OneSectionTwoEntries_Order(t *testing.T) {
	api := newFakeAPI()
	n := &fakeNotifier{}
	s, _ := newTestSynchronizer(api, nil)

	d := validDocument()
	exp := d.SectionIndex(domain.CategoryExperience)
	_, _ = d.AddEntry(exp)
	_, _ = d.AddEntry(exp)

	out := s.Save(context.Background(), SaveRequest{Document: d, Notifier: n})
	if !out.Success || out.Err != nil {
		t.Fatalf("expected success, got %+v", out)
	}

	wantOps := []string{"create_resume", "create_section", "create_entry", "create_entry"}
	if len(api.calls) != len(wantOps) {
		t.Fatalf("expected %d calls, got %+v", len(wantOps), api.calls)
	}
	for i, op := range wantOps {
		if api.calls[i].op != op {
			t.Fatalf("call %d: expected %s, got %s", i, op, api.calls[i].op)
		}
	}

	resumeID := *d.Profile.ID
	sectionID := *d.Sections[exp].ID
	if api.calls[1].parent != resumeID {
		t.Fatalf("section write must use the confirmed resume id")
	}
	if api.calls[2].parent != sectionID || api.calls[3].parent != sectionID {
		t.Fatalf("entry writes must use the confirmed section id")
	}
	if out.Writes != 4 || out.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if len(n.successes) != 1 || n.total() != 1 {
		t.Fatalf("expected exactly one success notice, got %+v", n)
	}
}

func TestSave_EmptySectionIsSkipped(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSynchronizer(api, nil)

	out := s.Save(context.Background(), SaveRequest{Document: validDocument()})
	if !out.Success {
		t.Fatalf("expected success, got %v", out.Err)
	}
	if len(api.calls) != 1 || api.calls[0].op != "create_resume" {
		t.Fatalf("expected only the profile write, got %+v", api.calls)
	}
}

func TestSave_SecondEntryFailureStillSucceeds(t *testing.T) {
	api := newFakeAPI()
	api.failOn["create_entry#2"] = errors.New("connection reset")
	n := &fakeNotifier{}
	s, logs := newTestSynchronizer(api, nil)

	d := validDocument()
	_, _ = d.AddEntry(0)
	_, _ = d.AddEntry(0)
	_, _ = d.AddEntry(0)

	out := s.Save(context.Background(), SaveRequest{Document: d, Notifier: n})
	if !out.Success {
		t.Fatalf("entry failure must not fail the save: %v", out.Err)
	}
	if out.Failed != 1 {
		t.Fatalf("expected 1 failed write, got %d", out.Failed)
	}
	if api.counts["create_entry"] != 3 {
		t.Fatalf("remaining entries must still be written, got %d entry calls", api.counts["create_entry"])
	}
	if d.Sections[0].Entries[1].ID != nil || d.Sections[0].Entries[2].ID == nil {
		t.Fatalf("ids must be written back only for confirmed entries")
	}
	if len(n.successes) != 1 || n.total() != 1 {
		t.Fatalf("expected a single success notice, got %+v", n)
	}
	if !bytes.Contains(logs.Bytes(), []byte("non-fatal")) {
		t.Fatalf("expected the failure to be logged")
	}
}

func TestSave_SectionFailureSkipsItsEntriesOnly(t *testing.T) {
	api := newFakeAPI()
	api.failOn["create_section#1"] = errors.New("400 bad request")
	s, _ := newTestSynchronizer(api, nil)

	d := validDocument()
	_, _ = d.AddEntry(0)
	_, _ = d.AddEntry(0)
	_, _ = d.AddEntry(1)

	out := s.Save(context.Background(), SaveRequest{Document: d})
	if !out.Success {
		t.Fatalf("section failure must not fail the save")
	}
	if out.Failed != 3 {
		t.Fatalf("expected the section and its 2 entries counted as failed, got %d", out.Failed)
	}
	if api.counts["create_section"] != 2 || api.counts["create_entry"] != 1 {
		t.Fatalf("unexpected calls: %+v", api.calls)
	}
}

func TestSave_ProfileFailureIsFatal(t *testing.T) {
	api := newFakeAPI()
	api.failOn["create_resume#1"] = errors.New("502 bad gateway")
	rec := &fakeRecorder{err: errors.New("db down")}
	n := &fakeNotifier{}
	s, _ := newTestSynchronizer(api, rec)

	d := validDocument()
	_, _ = d.AddEntry(0)

	out := s.Save(context.Background(), SaveRequest{Document: d, Notifier: n})
	if out.Success || !errors.Is(out.Err, ErrProfileWrite) {
		t.Fatalf("expected ErrProfileWrite, got %+v", out)
	}
	if len(api.calls) != 1 {
		t.Fatalf("no writes may follow a failed profile write, got %+v", api.calls)
	}
	if len(n.failures) != 1 || n.total() != 1 {
		t.Fatalf("expected a single failure notice, got %+v", n)
	}
	if len(rec.runs) != 1 || rec.runs[0].Status != domain.SyncStatusFailed {
		t.Fatalf("expected failed run recorded despite recorder error")
	}
}

func TestSave_SecondSaveUpdates(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSynchronizer(api, nil)

	d := validDocument()
	_, _ = d.AddEntry(3)
	if out := s.Save(context.Background(), SaveRequest{Document: d}); !out.Success {
		t.Fatalf("first save failed: %v", out.Err)
	}
	api.calls = nil
	_, _ = d.AddEntry(3)

	if out := s.Save(context.Background(), SaveRequest{Document: d}); !out.Success {
		t.Fatalf("second save failed: %v", out.Err)
	}
	wantOps := []string{"update_resume", "update_section", "update_entry", "create_entry"}
	for i, op := range wantOps {
		if api.calls[i].op != op {
			t.Fatalf("call %d: expected %s, got %s", i, op, api.calls[i].op)
		}
	}
}

func TestOutcomeMessage_PartialCount(t *testing.T) {
	msg, ok := outcomeMessage(&Outcome{Success: true, Failed: 2})
	if !ok || msg != "Resume saved, but 2 items failed to save" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSave_LoadedSectionsFollowFixedOrder(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSynchronizer(api, nil)

	rec := model.ResumeRecord{
		ID: 1, Name: "Main", FullName: "Ada", Email: "ada@example.com",
		Sections: []model.SectionRecord{
			{ID: 11, SectionType: "skills", SectionTitle: "Skills", Order: 0, Entries: []model.EntryRecord{
				{ID: 21, Title: "Languages", IsActive: true},
			}},
			{ID: 12, SectionType: "certifications", SectionTitle: "Certifications", Order: 1, Entries: []model.EntryRecord{
				{ID: 22, Title: "CKA", IsActive: true},
			}},
			{ID: 13, SectionType: "education", SectionTitle: "Education", Order: 2, Entries: []model.EntryRecord{
				{ID: 23, Title: "BSc", IsActive: true},
			}},
		},
	}

	out := s.Save(context.Background(), SaveRequest{Document: rec.ToDocument()})
	if !out.Success {
		t.Fatalf("save failed: %v", out.Err)
	}

	want := []call{
		{op: "update_resume", id: 1},
		{op: "update_section", parent: 1, id: 13},
		{op: "update_entry", parent: 13, id: 23},
		{op: "update_section", parent: 1, id: 11},
		{op: "update_entry", parent: 11, id: 21},
		{op: "update_section", parent: 1, id: 12},
		{op: "update_entry", parent: 12, id: 22},
	}
	if len(api.calls) != len(want) {
		t.Fatalf("expected %d calls, got %+v", len(want), api.calls)
	}
	for i, w := range want {
		if api.calls[i] != w {
			t.Fatalf("call %d: expected %+v, got %+v", i, w, api.calls[i])
		}
	}
}

func TestSave_DeactivatedNewEntryCreatedInactive(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSynchronizer(api, nil)

	d := validDocument()
	exp := d.SectionIndex(domain.CategoryExperience)
	_, _ = d.AddEntry(exp)
	_, _ = d.AddEntry(exp)
	if err := d.SetEntryActive(exp, 1, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if out := s.Save(context.Background(), SaveRequest{Document: d}); !out.Success {
		t.Fatalf("save failed: %v", out.Err)
	}
	if len(api.entryInputs) != 2 {
		t.Fatalf("expected 2 entry creates, got %d", len(api.entryInputs))
	}
	if !api.entryInputs[0].IsActive || api.entryInputs[1].IsActive {
		t.Fatalf("expected is_active true then false, got %+v", api.entryInputs)
	}
}
