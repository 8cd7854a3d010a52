package model

// Wire shapes of the tracker's master-resume REST API.

import (
	"sort"
	"strings"

	"resume-builder/internal/domain"
)

type ProfileInput struct {
	Name         string  `json:"name"`
	IsDefault    bool    `json:"is_default"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Location     *string `json:"location,omitempty"`
	LinkedInURL  *string `json:"linkedin_url,omitempty"`
	GitHubURL    *string `json:"github_url,omitempty"`
	PortfolioURL *string `json:"portfolio_url,omitempty"`
	Summary      *string `json:"summary,omitempty"`
	BaseFontSize int     `json:"base_font_size,omitempty"`
}

type SectionInput struct {
	Resume       int64  `json:"resume"`
	SectionType  string `json:"section_type"`
	SectionTitle string `json:"section_title"`
	Order        int    `json:"order"`
}

type EntryInput struct {
	Section      int64   `json:"section"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Location     *string `json:"location,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Description  string  `json:"description"`
	Link         *string `json:"link,omitempty"`
	Technologies string  `json:"technologies"`
	Order        int     `json:"order"`
	IsActive     bool    `json:"is_active"`
}

type ResumeRecord struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	IsDefault    bool            `json:"is_default"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Location     string          `json:"location"`
	LinkedInURL  string          `json:"linkedin_url"`
	PortfolioURL string          `json:"portfolio_url"`
	GitHubURL    string          `json:"github_url"`
	Summary      string          `json:"summary"`
	BaseFontSize int             `json:"base_font_size"`
	Sections     []SectionRecord `json:"sections,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
}

type ResumeListItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	IsDefault    bool   `json:"is_default"`
	SectionCount int    `json:"section_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ResumeList struct {
	Count   int              `json:"count"`
	Results []ResumeListItem `json:"results"`
}

type SectionRecord struct {
	ID           int64         `json:"id"`
	Resume       int64         `json:"resume,omitempty"`
	SectionType  string        `json:"section_type"`
	SectionTitle string        `json:"section_title"`
	Order        int           `json:"order"`
	Entries      []EntryRecord `json:"entries,omitempty"`
}

type EntryRecord struct {
	ID           int64  `json:"id"`
	Section      int64  `json:"section,omitempty"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Technologies string `json:"technologies"`
	Order        int    `json:"order"`
	IsActive     bool   `json:"is_active"`
}

// NewProfileInput maps the profile form state to a request body. A blank
// template name falls back to the full name since the backend requires one.
func NewProfileInput(p domain.Profile) ProfileInput {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.TrimSpace(p.FullName)
	}
	return ProfileInput{
		Name:         name,
		IsDefault:    p.IsDefault,
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		Location:     p.Location,
		LinkedInURL:  p.LinkedInURL,
		GitHubURL:    p.GitHubURL,
		PortfolioURL: p.PortfolioURL,
		Summary:      p.Summary,
		BaseFontSize: p.BaseFontSize,
	}
}

func NewSectionInput(resumeID int64, s domain.Section) SectionInput {
	return SectionInput{
		Resume:       resumeID,
		SectionType:  string(s.Category),
		SectionTitle: s.Title,
		Order:        s.Order,
	}
}

func NewEntryInput(sectionID int64, e domain.Entry) EntryInput {
	return EntryInput{
		Section:      sectionID,
		Title:        e.Title,
		Organization: e.Organization,
		Location:     e.Location,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		Description:  e.Description,
		Link:         e.Link,
		Technologies: e.Technologies,
		Order:        e.Order,
		IsActive:     e.Active,
	}
}

// optional maps the backend's blank strings to "never set".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDocument converts a fetched resume into an editing document. Inactive
// entries are kept so they can be reactivated.
func (r ResumeRecord) ToDocument() *domain.Document {
	doc := &domain.Document{Profile: domain.Profile{
		ID:           domain.ID(r.ID),
		Name:         r.Name,
		IsDefault:    r.IsDefault,
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        optional(r.Phone),
		Location:     optional(r.Location),
		LinkedInURL:  optional(r.LinkedInURL),
		GitHubURL:    optional(r.GitHubURL),
		PortfolioURL: optional(r.PortfolioURL),
		Summary:      optional(r.Summary),
		BaseFontSize: r.BaseFontSize,
	}}
	if doc.Profile.BaseFontSize <= 0 {
		doc.Profile.BaseFontSize = domain.DefaultBaseFontSize
	}
	for _, s := range r.Sections {
		doc.Sections = append(doc.Sections, s.toSection())
	}
	sortDocument(doc)
	doc.EnsureAuthoredSections()
	return doc
}

func (s SectionRecord) toSection() domain.Section {
	out := domain.Section{
		ID:       domain.ID(s.ID),
		Category: domain.Category(s.SectionType),
		Title:    s.SectionTitle,
		Order:    s.Order,
	}
	for _, e := range s.Entries {
		out.Entries = append(out.Entries, domain.Entry{
			ID:           domain.ID(e.ID),
			Title:        e.Title,
			Organization: e.Organization,
			Location:     optional(e.Location),
			StartDate:    optional(e.StartDate),
			EndDate:      optional(e.EndDate),
			Description:  e.Description,
			Link:         optional(e.Link),
			Technologies: e.Technologies,
			Order:        e.Order,
			Active:       e.IsActive,
		})
	}
	return out
}

func sortDocument(doc *domain.Document) {
	sort.SliceStable(doc.Sections, func(i, j int) bool {
		return doc.Sections[i].Order < doc.Sections[j].Order
	})
	for i := range doc.Sections {
		entries := doc.Sections[i].Entries
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Order < entries[b].Order
		})
	}
}
