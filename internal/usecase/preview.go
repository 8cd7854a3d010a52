package usecase

import (
	"bytes"
	_ "embed"
	"html/template"
	"sort"
	"strings"
	"unicode/utf8"

	"resume-builder/internal/domain"
)

const (
	EmptyPreviewPlaceholder = "Start filling in your details to see a live preview."
	DatePlaceholder         = "Dates"
	ContactSeparator        = " | "

	textWidth = 80
)

// Layout is the read-only projection of a document used by every preview
// rendering.
type Layout struct {
	Empty        bool           `json:"empty"`
	Placeholder  string         `json:"placeholder,omitempty"`
	Name         string         `json:"name,omitempty"`
	Contact      string         `json:"contact,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	BaseFontSize int            `json:"base_font_size"`
	Sections     []SectionBlock `json:"sections,omitempty"`
}

type SectionBlock struct {
	Category domain.Category `json:"category"`
	Title    string          `json:"title"`
	Entries  []EntryBlock    `json:"entries"`
}

// EntryBlock is one rendered entry. Skills entries only carry Line.
type EntryBlock struct {
	Heading     string `json:"heading,omitempty"`
	Subheading  string `json:"subheading,omitempty"`
	Location    string `json:"location,omitempty"`
	Dates       string `json:"dates,omitempty"`
	Description string `json:"description,omitempty"`
	Skill       bool   `json:"skill,omitempty"`
	Line        string `json:"line,omitempty"`
}

// Project derives the preview layout from doc. It has no side effects and
// returns equal layouts for equal documents.
func Project(doc *domain.Document) Layout {
	if doc == nil {
		return Layout{Empty: true, Placeholder: EmptyPreviewPlaceholder}
	}
	p := doc.Profile
	fontSize := p.BaseFontSize
	if fontSize <= 0 {
		fontSize = domain.DefaultBaseFontSize
	}

	var blocks []SectionBlock
	for _, c := range domain.AuthoredCategories {
		for _, s := range doc.Sections {
			if s.Category != c {
				continue
			}
			if b, ok := projectSection(s); ok {
				blocks = append(blocks, b)
			}
		}
	}

	name := strings.TrimSpace(p.FullName)
	if len(blocks) == 0 && name == "" {
		return Layout{Empty: true, Placeholder: EmptyPreviewPlaceholder, BaseFontSize: fontSize}
	}

	out := Layout{
		Name:         name,
		Contact:      contactLine(p),
		BaseFontSize: fontSize,
		Sections:     blocks,
	}
	if domain.Present(p.Summary) {
		out.Summary = strings.TrimSpace(*p.Summary)
	}
	return out
}

func projectSection(s domain.Section) (SectionBlock, bool) {
	active := make([]domain.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Active {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return SectionBlock{}, false
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Order < active[j].Order })

	b := SectionBlock{Category: s.Category, Title: s.Title, Entries: make([]EntryBlock, 0, len(active))}
	if strings.TrimSpace(b.Title) == "" {
		b.Title = s.Category.DefaultTitle()
	}
	for _, e := range active {
		b.Entries = append(b.Entries, projectEntry(s.Category, e))
	}
	return b, true
}

func projectEntry(c domain.Category, e domain.Entry) EntryBlock {
	if c == domain.CategorySkills {
		return EntryBlock{Skill: true, Line: e.Title + ": " + e.Technologies}
	}

	first, second := strings.TrimSpace(e.Title), strings.TrimSpace(e.Organization)
	if c == domain.CategoryEducation {
		first, second = second, first
	}
	if first == "" {
		first, second = second, ""
	}

	b := EntryBlock{
		Heading:     first,
		Subheading:  second,
		Dates:       dateRange(e.StartDate, e.EndDate),
		Description: e.Description,
	}
	if domain.Present(e.Location) {
		b.Location = strings.TrimSpace(*e.Location)
	}
	return b
}

func dateRange(start, end *string) string {
	switch {
	case domain.Present(start) && domain.Present(end):
		return strings.TrimSpace(*start) + " -- " + strings.TrimSpace(*end)
	case domain.Present(start):
		return strings.TrimSpace(*start)
	case domain.Present(end):
		return strings.TrimSpace(*end)
	default:
		return DatePlaceholder
	}
}

func contactLine(p domain.Profile) string {
	var parts []string
	if domain.Present(p.Phone) {
		parts = append(parts, strings.TrimSpace(*p.Phone))
	}
	if e := strings.TrimSpace(p.Email); e != "" {
		parts = append(parts, e)
	}
	if domain.Present(p.LinkedInURL) {
		parts = append(parts, displayURL(*p.LinkedInURL))
	}
	if domain.Present(p.GitHubURL) {
		parts = append(parts, displayURL(*p.GitHubURL))
	}
	return strings.Join(parts, ContactSeparator)
}

func displayURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return u
}

// Text renders the layout as plain text. Dates are right-aligned to an
// 80-column line when they fit.
func (l Layout) Text() string {
	if l.Empty {
		return l.Placeholder + "\n"
	}
	var b strings.Builder
	if l.Name != "" {
		b.WriteString(l.Name + "\n")
	}
	if l.Contact != "" {
		b.WriteString(l.Contact + "\n")
	}
	if l.Summary != "" {
		b.WriteString("\n== Summary ==\n")
		b.WriteString(l.Summary + "\n")
	}
	for _, s := range l.Sections {
		b.WriteString("\n== " + s.Title + " ==\n")
		for _, e := range s.Entries {
			if e.Skill {
				b.WriteString(e.Line + "\n")
				continue
			}
			b.WriteString(rightAlign(e.headline(), e.Dates) + "\n")
			if e.Description != "" {
				b.WriteString(e.Description + "\n")
			}
		}
	}
	return b.String()
}

func (e EntryBlock) headline() string {
	h := e.Heading
	if e.Subheading != "" {
		h += " - " + e.Subheading
	}
	if e.Location != "" {
		h += " (" + e.Location + ")"
	}
	return h
}

func rightAlign(left, right string) string {
	gap := textWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

//go:embed preview.html
var previewTemplate string

var previewTpl = template.Must(template.New("preview").Funcs(template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"upper": strings.ToUpper,
}).Parse(previewTemplate))

// RenderHTML renders the layout as a single letter-size page. scale shrinks
// the page for on-screen preview; 1 is print size.
func RenderHTML(l Layout, scale float64) (string, error) {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	data := map[string]interface{}{"Layout": l, "Scale": scale}
	var buf bytes.Buffer
	if err := previewTpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
