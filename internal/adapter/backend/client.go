package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"

	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/master-resume"

	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"
)

// APIError is returned for any non-2xx response from the backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s failed: status=%d body=%s", e.Method, e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the master-resume REST API. Requests are not retried and
// carry no client-side timeout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

func NewClient(baseURL string, logger *log.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// csrfToken returns the csrftoken cookie the backend set for endpoint.
func (c *Client) csrfToken(endpoint *url.URL) string {
	if c.http.Jar == nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(endpoint) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	raw, err := c.doRaw(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, in interface{}) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if tok := c.csrfToken(req.URL); tok != "" {
			req.Header.Set(csrfHeader, tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := strings.TrimSpace(string(rb))
		if len(bodyStr) > 4096 {
			bodyStr = bodyStr[:4096]
		}
		if c.logger != nil {
			c.logger.Printf("[Backend] %s %s status=%d body=%q", method, path, resp.StatusCode, bodyStr)
		}
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: bodyStr}
	}
	return rb, nil
}

func (c *Client) CreateResume(ctx context.Context, in model.ProfileInput) (model.ResumeRecord, error) {
	var out model.ResumeRecord
	err := c.do(ctx, http.MethodPost, "/resumes/", in, &out)
	return out, err
}

func (c *Client) UpdateResume(ctx context.Context, id int64, in model.ProfileInput) (model.ResumeRecord, error) {
	var out model.ResumeRecord
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/resumes/%d/", id), in, &out)
	return out, err
}

func (c *Client) CreateSection(ctx context.Context, resumeID int64, in model.SectionInput) (model.SectionRecord, error) {
	var out model.SectionRecord
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/resumes/%d/sections/", resumeID), in, &out)
	return out, err
}

func (c *Client) UpdateSection(ctx context.Context, resumeID, sectionID int64, in model.SectionInput) (model.SectionRecord, error) {
	var out model.SectionRecord
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/resumes/%d/sections/%d/", resumeID, sectionID), in, &out)
	return out, err
}

func (c *Client) CreateEntry(ctx context.Context, sectionID int64, in model.EntryInput) (model.EntryRecord, error) {
	var out model.EntryRecord
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sections/%d/entries/", sectionID), in, &out)
	return out, err
}

func (c *Client) UpdateEntry(ctx context.Context, sectionID, entryID int64, in model.EntryInput) (model.EntryRecord, error) {
	var out model.EntryRecord
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/sections/%d/entries/%d/", sectionID, entryID), in, &out)
	return out, err
}

// ListResumes returns the first page of resume profiles.
func (c *Client) ListResumes(ctx context.Context) (model.ResumeList, error) {
	var out model.ResumeList
	err := c.do(ctx, http.MethodGet, "/resumes/", nil, &out)
	return out, err
}

// GetResume fetches a profile with its nested sections and entries.
func (c *Client) GetResume(ctx context.Context, id int64) (model.ResumeRecord, error) {
	var out model.ResumeRecord
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/resumes/%d/", id), nil, &out)
	return out, err
}

func (c *Client) DefaultResume(ctx context.Context) (model.ResumeRecord, error) {
	var out model.ResumeRecord
	err := c.do(ctx, http.MethodGet, "/resumes/default/", nil, &out)
	return out, err
}

func (c *Client) DeleteResume(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/resumes/%d/", id), nil, nil)
}

func (c *Client) DuplicateResume(ctx context.Context, id int64) (model.ResumeRecord, error) {
	var out model.ResumeRecord
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/resumes/%d/duplicate/", id), nil, &out)
	return out, err
}

// DownloadPDF returns the backend-rendered PDF of a saved resume.
func (c *Client) DownloadPDF(ctx context.Context, id int64) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, fmt.Sprintf("/resumes/%d/pdf/", id), nil)
}

var _ usecase.ResumeAPI = (*Client)(nil)
