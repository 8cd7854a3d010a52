package model

import (
	"strings"
	"testing"

	"resume-builder/internal/domain"
)

const validDoc = `{
  "profile": {"full_name": "Ada Lovelace", "email": "ada@example.com", "phone": null},
  "sections": [
    {"section_type": "experience", "section_title": "Work", "order": 3, "entries": [
      {"title": "B", "organization": "Org", "description": "", "technologies": "", "order": 1, "is_active": true},
      {"title": "A", "organization": "Org", "description": "• did it", "technologies": "", "order": 0, "is_active": false, "end_date": "Present"}
    ]},
    {"section_type": "awards", "section_title": "Awards", "order": 1, "entries": []}
  ]
}`

func TestDecodeDocument_Valid(t *testing.T) {
	doc, err := DecodeDocument([]byte(validDoc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if doc.Profile.BaseFontSize != domain.DefaultBaseFontSize {
		t.Fatalf("expected default base font size, got %d", doc.Profile.BaseFontSize)
	}
	if doc.Sections[0].Category != domain.CategoryAwards {
		t.Fatalf("expected sections sorted by order, got %s first", doc.Sections[0].Category)
	}
	exp := doc.Sections[doc.SectionIndex(domain.CategoryExperience)]
	if exp.Entries[0].Title != "A" || exp.Entries[0].Active {
		t.Fatalf("expected entries sorted by order with inactive kept, got %+v", exp.Entries)
	}
	for _, c := range domain.AuthoredCategories {
		if doc.SectionIndex(c) < 0 {
			t.Fatalf("missing authored section %s", c)
		}
	}
}

func TestDecodeDocument_MissingEmail(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"profile": {"full_name": "Ada"}, "sections": []}`))
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected schema error mentioning email, got %v", err)
	}
}

func TestValidateJSON_UnknownCategory(t *testing.T) {
	b := []byte(`{"profile": {"full_name": "Ada", "email": "a@b.c"},
		"sections": [{"section_type": "hobbies", "section_title": "Fun", "order": 0, "entries": []}]}`)
	if err := ValidateJSON(b); err == nil {
		t.Fatalf("expected validation failure for unknown section_type")
	}
}

func TestResumeRecord_ToDocument(t *testing.T) {
	rec := ResumeRecord{
		ID: 4, Name: "Main", FullName: "Ada", Email: "a@b.c", GitHubURL: "https://github.com/ada",
		Sections: []SectionRecord{
			{ID: 10, SectionType: "skills", SectionTitle: "Skills", Order: 0, Entries: []EntryRecord{
				{ID: 100, Title: "Languages", Technologies: "Go, SQL", Order: 0, IsActive: true},
			}},
		},
	}
	doc := rec.ToDocument()
	if doc.Profile.ID == nil || *doc.Profile.ID != 4 {
		t.Fatalf("expected profile id 4")
	}
	if doc.Profile.Phone != nil {
		t.Fatalf("blank backend string must map to unset")
	}
	if domain.Value(doc.Profile.GitHubURL) != "https://github.com/ada" {
		t.Fatalf("unexpected github url")
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected skills plus three seeded sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].ID == nil || *doc.Sections[0].Entries[0].ID != 100 {
		t.Fatalf("identities not carried over")
	}
}

func TestNewProfileInput_NameFallback(t *testing.T) {
	in := NewProfileInput(domain.Profile{FullName: "Ada Lovelace", Email: "a@b.c"})
	if in.Name != "Ada Lovelace" {
		t.Fatalf("expected name fallback to full name, got %q", in.Name)
	}
}
