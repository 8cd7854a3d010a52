package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
)

// BulletMarker is appended by AppendBullet.
const BulletMarker = "• "

type EntryField string

const (
	EntryTitle        EntryField = "title"
	EntryOrganization EntryField = "organization"
	EntryLocation     EntryField = "location"
	EntryStartDate    EntryField = "start_date"
	EntryEndDate      EntryField = "end_date"
	EntryDescription  EntryField = "description"
	EntryLink         EntryField = "link"
	EntryTechnologies EntryField = "technologies"
	EntryActive       EntryField = "is_active"
)

type ProfileField string

const (
	ProfileName         ProfileField = "name"
	ProfileIsDefault    ProfileField = "is_default"
	ProfileFullName     ProfileField = "full_name"
	ProfileEmail        ProfileField = "email"
	ProfilePhone        ProfileField = "phone"
	ProfileLocation     ProfileField = "location"
	ProfileLinkedInURL  ProfileField = "linkedin_url"
	ProfileGitHubURL    ProfileField = "github_url"
	ProfilePortfolioURL ProfileField = "portfolio_url"
	ProfileSummary      ProfileField = "summary"
	ProfileBaseFontSize ProfileField = "base_font_size"
)

func (d *Document) section(si int) (*Section, error) {
	if si < 0 || si >= len(d.Sections) {
		return nil, fmt.Errorf("section %d: %w", si, ErrIndexOutOfRange)
	}
	return &d.Sections[si], nil
}

func (d *Document) entry(si, ei int) (*Entry, error) {
	s, err := d.section(si)
	if err != nil {
		return nil, err
	}
	if ei < 0 || ei >= len(s.Entries) {
		return nil, fmt.Errorf("section %d entry %d: %w", si, ei, ErrIndexOutOfRange)
	}
	return &s.Entries[ei], nil
}

// Section returns a copy of the section at si.
func (d *Document) Section(si int) (Section, error) {
	s, err := d.section(si)
	if err != nil {
		return Section{}, err
	}
	return *s, nil
}

// Entry returns a copy of the entry at (si, ei).
func (d *Document) Entry(si, ei int) (Entry, error) {
	e, err := d.entry(si, ei)
	if err != nil {
		return Entry{}, err
	}
	return *e, nil
}

// AddEntry appends a blank active entry ordered after the existing ones and
// returns its index.
func (d *Document) AddEntry(si int) (int, error) {
	s, err := d.section(si)
	if err != nil {
		return -1, err
	}
	s.Entries = append(s.Entries, Entry{Order: len(s.Entries), Active: true})
	return len(s.Entries) - 1, nil
}

// RemoveEntry deletes the entry at (si, ei) and renumbers the remaining
// entries of the section to 0..n-1.
func (d *Document) RemoveEntry(si, ei int) error {
	if _, err := d.entry(si, ei); err != nil {
		return err
	}
	s := &d.Sections[si]
	s.Entries = append(s.Entries[:ei], s.Entries[ei+1:]...)
	for i := range s.Entries {
		s.Entries[i].Order = i
	}
	return nil
}

// UpdateEntry replaces a single scalar field of the entry at (si, ei).
func (d *Document) UpdateEntry(si, ei int, field EntryField, value string) error {
	e, err := d.entry(si, ei)
	if err != nil {
		return err
	}
	switch field {
	case EntryTitle:
		e.Title = value
	case EntryOrganization:
		e.Organization = value
	case EntryLocation:
		e.Location = Str(value)
	case EntryStartDate:
		e.StartDate = Str(value)
	case EntryEndDate:
		e.EndDate = Str(value)
	case EntryDescription:
		e.Description = value
	case EntryLink:
		e.Link = Str(value)
	case EntryTechnologies:
		e.Technologies = value
	case EntryActive:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s=%q: %w", field, value, ErrInvalidValue)
		}
		e.Active = b
	default:
		return fmt.Errorf("entry field %q: %w", field, ErrUnknownField)
	}
	return nil
}

// SetEntryActive soft-hides or restores an entry without deleting it.
func (d *Document) SetEntryActive(si, ei int, active bool) error {
	e, err := d.entry(si, ei)
	if err != nil {
		return err
	}
	e.Active = active
	return nil
}

// AppendBullet starts a new bullet line in the entry's description. It does
// not look at the existing text beyond checking that it is non-empty.
func (d *Document) AppendBullet(si, ei int) error {
	e, err := d.entry(si, ei)
	if err != nil {
		return err
	}
	if e.Description == "" {
		e.Description = BulletMarker
		return nil
	}
	e.Description += "\n" + BulletMarker
	return nil
}

// UpdateProfileField replaces a scalar profile field. The default flag is only
// toggled locally; exclusivity across profiles is resolved by the backend.
func (d *Document) UpdateProfileField(field ProfileField, value string) error {
	p := &d.Profile
	switch field {
	case ProfileName:
		p.Name = value
	case ProfileFullName:
		p.FullName = value
	case ProfileEmail:
		p.Email = value
	case ProfilePhone:
		p.Phone = Str(value)
	case ProfileLocation:
		p.Location = Str(value)
	case ProfileLinkedInURL:
		p.LinkedInURL = Str(value)
	case ProfileGitHubURL:
		p.GitHubURL = Str(value)
	case ProfilePortfolioURL:
		p.PortfolioURL = Str(value)
	case ProfileSummary:
		p.Summary = Str(value)
	case ProfileIsDefault:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s=%q: %w", field, value, ErrInvalidValue)
		}
		p.IsDefault = b
	case ProfileBaseFontSize:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s=%q: %w", field, value, ErrInvalidValue)
		}
		p.BaseFontSize = n
	default:
		return fmt.Errorf("profile field %q: %w", field, ErrUnknownField)
	}
	return nil
}
