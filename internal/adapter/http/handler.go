package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"
	"resume-builder/internal/ws"

	"github.com/gofiber/fiber/v2"
)

type Saver interface {
	Save(ctx context.Context, req usecase.SaveRequest) usecase.Outcome
}

// ResumeSource manages the resumes saved on the backend.
type ResumeSource interface {
	ListResumes(ctx context.Context) (model.ResumeList, error)
	GetResume(ctx context.Context, id int64) (model.ResumeRecord, error)
	DefaultResume(ctx context.Context) (model.ResumeRecord, error)
	DeleteResume(ctx context.Context, id int64) error
	DuplicateResume(ctx context.Context, id int64) (model.ResumeRecord, error)
	DownloadPDF(ctx context.Context, id int64) ([]byte, error)
}

type PreviewPrinter interface {
	Print(ctx context.Context, doc *domain.Document) ([]byte, bool, error)
}

type HistoryReader interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.SyncRun, error)
	ForResume(ctx context.Context, resumeID int64, limit int) ([]domain.SyncRun, error)
}

type Deps struct {
	Store   *session.Store
	Saver   Saver
	Resumes ResumeSource
	Printer PreviewPrinter
	History HistoryReader
	Hub     *ws.Hub
	Logger  *log.Logger
}

type Handler struct {
	store   *session.Store
	saver   Saver
	resumes ResumeSource
	printer PreviewPrinter
	history HistoryReader
	hub     *ws.Hub
	ws      *ws.Handler
	logger  *log.Logger
}

func NewHandler(d Deps) *Handler {
	if d.Store == nil {
		d.Store = session.NewStore()
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	h := &Handler{
		store:   d.Store,
		saver:   d.Saver,
		resumes: d.Resumes,
		printer: d.Printer,
		history: d.History,
		hub:     d.Hub,
		logger:  d.Logger,
	}
	if d.Hub != nil {
		h.ws = ws.NewHandler(d.Hub, d.Logger)
	}
	return h
}

type sessionView struct {
	ID       string           `json:"id"`
	Document *domain.Document `json:"document"`
	Preview  usecase.Layout   `json:"preview"`
}

type createSessionReq struct {
	ResumeID *int64          `json:"resume_id,omitempty"`
	Default  bool            `json:"default,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
}

type fieldReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return Success(c, fiber.StatusOK, "", fiber.Map{"sessions": h.store.Len()})
}

// ListResumes lists the profiles saved on the backend.
func (h *Handler) ListResumes(c *fiber.Ctx) error {
	if h.resumes == nil {
		return fiber.ErrServiceUnavailable
	}
	list, err := h.resumes.ListResumes(c.UserContext())
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "", list)
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	if h.resumes == nil {
		return fiber.ErrServiceUnavailable
	}
	id, err := resumeParam(c)
	if err != nil {
		return err
	}
	if err := h.resumes.DeleteResume(c.UserContext(), id); err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "resume deleted", nil)
}

func (h *Handler) DuplicateResume(c *fiber.Ctx) error {
	if h.resumes == nil {
		return fiber.ErrServiceUnavailable
	}
	id, err := resumeParam(c)
	if err != nil {
		return err
	}
	rec, err := h.resumes.DuplicateResume(c.UserContext(), id)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusCreated, "resume duplicated", rec)
}

// ResumePDF proxies the backend-rendered PDF of a saved resume.
func (h *Handler) ResumePDF(c *fiber.Ctx) error {
	if h.resumes == nil {
		return fiber.ErrServiceUnavailable
	}
	id, err := resumeParam(c)
	if err != nil {
		return err
	}
	pdf, err := h.resumes.DownloadPDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Type("pdf")
	return c.Send(pdf)
}

// ResumeHistory lists the save runs that wrote to a backend resume.
func (h *Handler) ResumeHistory(c *fiber.Ctx) error {
	id, err := resumeParam(c)
	if err != nil {
		return err
	}
	if h.history == nil {
		return Success(c, fiber.StatusOK, "", []domain.SyncRun{})
	}
	runs, err := h.history.ForResume(c.UserContext(), id, c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "", runs)
}

func (h *Handler) CreateSession(c *fiber.Ctx) error {
	var req createSessionReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return NewAppError(fiber.StatusBadRequest, "invalid payload", nil, err)
		}
	}

	var doc *domain.Document
	switch {
	case len(req.Document) > 0:
		d, err := model.DecodeDocument(req.Document)
		if err != nil {
			return NewAppError(fiber.StatusBadRequest, "invalid document", nil, err)
		}
		doc = d
	case req.ResumeID != nil || req.Default:
		if h.resumes == nil {
			return fiber.ErrServiceUnavailable
		}
		var rec model.ResumeRecord
		var err error
		if req.ResumeID != nil {
			rec, err = h.resumes.GetResume(c.UserContext(), *req.ResumeID)
		} else {
			rec, err = h.resumes.DefaultResume(c.UserContext())
		}
		if err != nil {
			return err
		}
		doc = rec.ToDocument()
	}

	s := h.store.Create(doc)
	return Success(c, fiber.StatusCreated, "session created", h.view(s))
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "", h.view(s))
}

func (h *Handler) CloseSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	h.store.Delete(s.ID)
	return Success(c, fiber.StatusOK, "session closed", nil)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return NewAppError(fiber.StatusBadRequest, "invalid payload", nil, err)
	}
	return h.mutate(c, fiber.StatusOK, func(doc *domain.Document) error {
		return doc.UpdateProfileField(domain.ProfileField(req.Field), req.Value)
	})
}

func (h *Handler) AddEntry(c *fiber.Ctx) error {
	si, err := c.ParamsInt("section")
	if err != nil {
		return NewAppError(fiber.StatusBadRequest, "invalid section index", nil, err)
	}
	return h.mutate(c, fiber.StatusCreated, func(doc *domain.Document) error {
		_, err := doc.AddEntry(si)
		return err
	})
}

func (h *Handler) UpdateEntry(c *fiber.Ctx) error {
	si, ei, err := entryParams(c)
	if err != nil {
		return err
	}
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return NewAppError(fiber.StatusBadRequest, "invalid payload", nil, err)
	}
	return h.mutate(c, fiber.StatusOK, func(doc *domain.Document) error {
		return doc.UpdateEntry(si, ei, domain.EntryField(req.Field), req.Value)
	})
}

func (h *Handler) RemoveEntry(c *fiber.Ctx) error {
	si, ei, err := entryParams(c)
	if err != nil {
		return err
	}
	return h.mutate(c, fiber.StatusOK, func(doc *domain.Document) error {
		return doc.RemoveEntry(si, ei)
	})
}

func (h *Handler) AppendBullet(c *fiber.Ctx) error {
	si, ei, err := entryParams(c)
	if err != nil {
		return err
	}
	return h.mutate(c, fiber.StatusOK, func(doc *domain.Document) error {
		return doc.AppendBullet(si, ei)
	})
}

// Preview renders the session preview as html (default), text or json.
func (h *Handler) Preview(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	layout := usecase.Project(s.Snapshot())

	switch strings.ToLower(c.Query("format", "html")) {
	case "text":
		c.Type("txt", "utf-8")
		return c.SendString(layout.Text())
	case "json":
		return Success(c, fiber.StatusOK, "", layout)
	default:
		html, err := usecase.RenderHTML(layout, c.QueryFloat("scale", 1))
		if err != nil {
			return err
		}
		c.Type("html", "utf-8")
		return c.SendString(html)
	}
}

func (h *Handler) PreviewPDF(c *fiber.Ctx) error {
	if h.printer == nil {
		return fiber.ErrServiceUnavailable
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}
	pdf, cached, err := h.printer.Print(c.UserContext(), s.Snapshot())
	if err != nil {
		return err
	}
	if cached {
		c.Set("X-Preview-Cache", "hit")
	} else {
		c.Set("X-Preview-Cache", "miss")
	}
	c.Type("pdf")
	return c.Send(pdf)
}

// Save runs the synchronizer on the session document. The write sequence
// runs on a detached context and is never cancelled midway.
func (h *Handler) Save(c *fiber.Ctx) error {
	if h.saver == nil {
		return fiber.ErrServiceUnavailable
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var out usecase.Outcome
	_ = s.Do(func(doc *domain.Document) error {
		out = h.saver.Save(context.Background(), usecase.SaveRequest{SessionID: s.ID, Document: doc, Notifier: s})
		return nil
	})
	h.hub.NotifySaved(s.ID, out)

	if !out.Success {
		var vErr *usecase.ValidationError
		if errors.As(out.Err, &vErr) {
			return NewAppError(fiber.StatusBadRequest, out.Message(), fiber.Map{"missing_fields": vErr.Fields}, out.Err)
		}
		return NewAppError(fiber.StatusBadGateway, out.Message(), out, out.Err)
	}
	return Success(c, fiber.StatusOK, out.Message(), out)
}

func (h *Handler) Notices(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "", s.Drain())
}

func (h *Handler) History(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if h.history == nil {
		return Success(c, fiber.StatusOK, "", []domain.SyncRun{})
	}
	runs, err := h.history.Recent(c.UserContext(), s.ID, c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, "", runs)
}

func (h *Handler) Subscribe(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if h.ws == nil {
		return fiber.ErrServiceUnavailable
	}
	return h.ws.Subscribe(c, s.ID)
}

func (h *Handler) session(c *fiber.Ctx) (*session.Session, error) {
	return h.store.Get(c.Params("sid"))
}

func (h *Handler) view(s *session.Session) sessionView {
	doc := s.Snapshot()
	return sessionView{ID: s.ID, Document: doc, Preview: usecase.Project(doc)}
}

// mutate applies fn to the session document, then pushes the new preview to
// subscribers and returns it.
func (h *Handler) mutate(c *fiber.Ctx, status int, fn func(doc *domain.Document) error) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var v sessionView
	err = s.Do(func(doc *domain.Document) error {
		if err := fn(doc); err != nil {
			return err
		}
		v = sessionView{ID: s.ID, Document: doc.Clone(), Preview: usecase.Project(doc)}
		return nil
	})
	if err != nil {
		return err
	}

	h.hub.NotifyPreview(s.ID, v.Preview)
	return Success(c, status, "", v)
}

func resumeParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, NewAppError(fiber.StatusBadRequest, "invalid resume id", nil, err)
	}
	return int64(id), nil
}

func entryParams(c *fiber.Ctx) (int, int, error) {
	si, err := c.ParamsInt("section")
	if err != nil {
		return 0, 0, NewAppError(fiber.StatusBadRequest, "invalid section index", nil, err)
	}
	ei, err := c.ParamsInt("entry")
	if err != nil {
		return 0, 0, NewAppError(fiber.StatusBadRequest, "invalid entry index", nil, err)
	}
	return si, ei, nil
}
