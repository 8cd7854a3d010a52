package session

import (
	"errors"
	"sync"
	"time"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

const (
	NoticeSuccess = "success"
	NoticeFailure = "error"
)

// Notice is one user-facing message produced by a session operation.
type Notice struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one open builder. All access to Document goes through Do so
// editor operations and saves on the same session never interleave.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	doc     *domain.Document
	noticeM sync.Mutex
	notices []Notice
}

func newSession(doc *domain.Document) *Session {
	if doc == nil {
		doc = domain.NewDocument()
	}
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), doc: doc}
}

// Do runs fn with exclusive access to the session document.
func (s *Session) Do(fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Snapshot returns a deep copy of the current document.
func (s *Session) Snapshot() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Session) Success(message string) { s.push(NoticeSuccess, message) }
func (s *Session) Failure(message string) { s.push(NoticeFailure, message) }

func (s *Session) push(kind, message string) {
	s.noticeM.Lock()
	s.notices = append(s.notices, Notice{Kind: kind, Message: message, CreatedAt: time.Now().UTC()})
	s.noticeM.Unlock()
}

// Drain returns and clears the pending notices.
func (s *Session) Drain() []Notice {
	s.noticeM.Lock()
	defer s.noticeM.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create opens a session on doc, or on a freshly seeded document when doc is nil.
func (st *Store) Create(doc *domain.Document) *Session {
	s := newSession(doc)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
