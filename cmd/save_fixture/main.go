package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/adapter/backend"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
)

// Runs a full save against an in-process mock of the master-resume API and
// prints every request it received.

type mockBackend struct {
	mu     sync.Mutex
	nextID int64
	failOn string
	log    []string
}

func (m *mockBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.log = append(m.log, fmt.Sprintf("%s %s %s", r.Method, r.URL.Path, strings.TrimSpace(string(body))))
	m.nextID++
	id := m.nextID
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "fixture", Path: "/"})
	if m.failOn != "" && strings.Contains(r.URL.Path, m.failOn) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"rejected by fixture"}`))
		return
	}

	var payload map[string]interface{}
	_ = json.Unmarshal(body, &payload)
	if payload == nil {
		payload = map[string]interface{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodPost {
		payload["id"] = id
		w.WriteHeader(http.StatusCreated)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func startMockBackend(addr string, m *mockBackend) *http.Server {
	srv := &http.Server{Addr: addr, Handler: m}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("mock backend failed: %v", err)
		}
	}()
	return srv
}

func loadDocument(path string) (*domain.Document, error) {
	if path == "" {
		return fixtureDocument(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.DecodeDocument(b)
}

func fixtureDocument() *domain.Document {
	d := domain.NewDocument()
	_ = d.UpdateProfileField(domain.ProfileFullName, "Test User")
	_ = d.UpdateProfileField(domain.ProfileEmail, "t@example.com")

	exp := d.SectionIndex(domain.CategoryExperience)
	_, _ = d.AddEntry(exp)
	_ = d.UpdateEntry(exp, 0, domain.EntryTitle, "Engineer")
	_ = d.UpdateEntry(exp, 0, domain.EntryOrganization, "Acme")
	_ = d.AppendBullet(exp, 0)

	sk := d.SectionIndex(domain.CategorySkills)
	_, _ = d.AddEntry(sk)
	_ = d.UpdateEntry(sk, 0, domain.EntryTitle, "Languages")
	_ = d.UpdateEntry(sk, 0, domain.EntryTechnologies, "Go, SQL")
	return d
}

type printNotifier struct{}

func (printNotifier) Success(m string) { fmt.Printf("notice (success): %s\n", m) }
func (printNotifier) Failure(m string) { fmt.Printf("notice (error): %s\n", m) }

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "mock backend listen address")
	in := flag.String("document", "", "document JSON to save (defaults to a built-in fixture)")
	failOn := flag.String("fail-on", "", "path fragment the mock backend rejects, e.g. /entries/")
	flag.Parse()

	doc, err := loadDocument(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load document: %v\n", err)
		os.Exit(2)
	}

	mock := &mockBackend{failOn: *failOn}
	srv := startMockBackend(*addr, mock)
	defer srv.Shutdown(context.Background())
	time.Sleep(100 * time.Millisecond)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	client, err := backend.NewClient("http://"+*addr+"/api/master-resume", logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(2)
	}

	// history disabled: nil pool
	s := usecase.NewSynchronizer(client, repo.NewSyncRunsRepo(nil), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	out := s.Save(ctx, usecase.SaveRequest{SessionID: "fixture", Document: doc, Notifier: printNotifier{}})

	mock.mu.Lock()
	for _, line := range mock.log {
		fmt.Println(line)
	}
	mock.mu.Unlock()

	fmt.Printf("Save completed: success=%v writes=%d failed=%d\n", out.Success, out.Writes, out.Failed)
	if out.ResumeID != nil {
		fmt.Printf("resume id: %d\n", *out.ResumeID)
	}
	if out.Err != nil {
		fmt.Printf("error: %v\n", out.Err)
	}
}
