package domain

import "strings"

// Category is the fixed kind of a resume section.
type Category string

const (
	CategoryEducation      Category = "education"
	CategoryExperience     Category = "experience"
	CategoryProjects       Category = "projects"
	CategorySkills         Category = "skills"
	CategoryCertifications Category = "certifications"
	CategoryAwards         Category = "awards"
	CategoryCustom         Category = "custom"
)

// AuthoredCategories are the sections the builder always shows, in display order.
var AuthoredCategories = []Category{CategoryEducation, CategoryExperience, CategoryProjects, CategorySkills}

var defaultTitles = map[Category]string{
	CategoryEducation:      "Education",
	CategoryExperience:     "Experience",
	CategoryProjects:       "Projects",
	CategorySkills:         "Skills",
	CategoryCertifications: "Certifications",
	CategoryAwards:         "Awards & Achievements",
	CategoryCustom:         "Custom Section",
}

// Valid reports whether the backend accepts c.
func (c Category) Valid() bool {
	_, ok := defaultTitles[c]
	return ok
}

// DefaultTitle is the display title used when seeding a section.
func (c Category) DefaultTitle() string {
	if t, ok := defaultTitles[c]; ok {
		return t
	}
	return string(c)
}

const DefaultBaseFontSize = 11

// Profile holds the resume-level fields. Optional text is nil when never set
// and points at "" when the user cleared it.
type Profile struct {
	ID           *int64  `json:"id,omitempty"`
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
	BaseFontSize int     `json:"base_font_size"`
}

type Section struct {
	ID       *int64   `json:"id,omitempty"`
	Category Category `json:"section_type"`
	Title    string   `json:"section_title"`
	Order    int      `json:"order"`
	Entries  []Entry  `json:"entries"`
}

type Entry struct {
	ID           *int64  `json:"id,omitempty"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Location     *string `json:"location,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Description  string  `json:"description"`
	Link         *string `json:"link,omitempty"`
	Technologies string  `json:"technologies"`
	Order        int     `json:"order"`
	Active       bool    `json:"is_active"`
}

// Document is the editable state of one resume-authoring session.
type Document struct {
	Profile  Profile   `json:"profile"`
	Sections []Section `json:"sections"`
}

// NewDocument returns an empty profile with the authored sections seeded.
func NewDocument() *Document {
	d := &Document{Profile: Profile{BaseFontSize: DefaultBaseFontSize}}
	d.EnsureAuthoredSections()
	return d
}

// EnsureAuthoredSections appends a seeded section for every authored category
// the document lacks. Existing sections are left untouched.
func (d *Document) EnsureAuthoredSections() {
	next := 0
	for _, s := range d.Sections {
		if s.Order >= next {
			next = s.Order + 1
		}
	}
	for _, c := range AuthoredCategories {
		if d.SectionIndex(c) >= 0 {
			continue
		}
		d.Sections = append(d.Sections, Section{Category: c, Title: c.DefaultTitle(), Order: next, Entries: []Entry{}})
		next++
	}
}

// SectionIndex returns the index of the first section of category c, or -1.
func (d *Document) SectionIndex(c Category) int {
	for i := range d.Sections {
		if d.Sections[i].Category == c {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can snapshot the document outside its lock.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Profile: d.Profile}
	p := &out.Profile
	p.ID = cloneInt(d.Profile.ID)
	p.Phone = cloneStr(d.Profile.Phone)
	p.Location = cloneStr(d.Profile.Location)
	p.LinkedInURL = cloneStr(d.Profile.LinkedInURL)
	p.GitHubURL = cloneStr(d.Profile.GitHubURL)
	p.PortfolioURL = cloneStr(d.Profile.PortfolioURL)
	p.Summary = cloneStr(d.Profile.Summary)

	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		cs := s
		cs.ID = cloneInt(s.ID)
		cs.Entries = make([]Entry, len(s.Entries))
		for j, e := range s.Entries {
			ce := e
			ce.ID = cloneInt(e.ID)
			ce.Location = cloneStr(e.Location)
			ce.StartDate = cloneStr(e.StartDate)
			ce.EndDate = cloneStr(e.EndDate)
			ce.Link = cloneStr(e.Link)
			cs.Entries[j] = ce
		}
		out.Sections[i] = cs
	}
	return out
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// ID returns a pointer to id.
func ID(id int64) *int64 { return &id }

// Value dereferences an optional string, treating nil as "".
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Present reports whether an optional string holds non-blank text.
func Present(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
