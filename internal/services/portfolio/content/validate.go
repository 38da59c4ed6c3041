package content

import (
	"net/mail"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/platform/slug"
)

// DefaultColor is applied to categories created without a color.
const DefaultColor = "cyan"

// DefaultSubject labels contact messages submitted without a subject.
const DefaultSubject = "No subject"

// Colors is the category palette understood by the front end.
var Colors = []string{"cyan", "violet", "amber", "emerald", "rose", "blue", "orange", "teal", "pink", "indigo"}

// Normalize derives a missing slug from the name and applies the default
// color. The name is stored as submitted.
func (c *Category) Normalize() {
	c.Slug = slug.Make(c.Slug)
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = DefaultColor
	}
}

// Validate checks the category in isolation.
func (c Category) Validate() error {
	if blank(c.Name) {
		return invalid("name is required")
	}
	if c.Slug == "" {
		return invalid("slug must contain at least one letter or digit")
	}
	if !slices.Contains(Colors, c.Color) {
		return invalid("color must be one of " + strings.Join(Colors, ", "))
	}
	return nil
}

// Normalize trims the category reference.
func (s *Skill) Normalize() {
	s.Category = strings.TrimSpace(s.Category)
}

// Validate checks the skill in isolation.
func (s Skill) Validate() error {
	if blank(s.Name) {
		return invalid("name is required")
	}
	return nil
}

// Normalize trims the category reference and cleans the tag list.
func (p *Project) Normalize() {
	p.Category = strings.TrimSpace(p.Category)
	p.Tags = cleanList(p.Tags)
}

// Validate checks the project in isolation.
func (p Project) Validate() error {
	if blank(p.Title) {
		return invalid("title is required")
	}
	return nil
}

// Normalize cleans the technology list.
func (e *Experience) Normalize() {
	e.Technologies = cleanList(e.Technologies)
}

// Validate checks the experience in isolation.
func (e Experience) Validate() error {
	if blank(e.Company) {
		return invalid("company is required")
	}
	if blank(e.Role) {
		return invalid("role is required")
	}
	return nil
}

// Validate checks the certification in isolation.
func (c Certification) Validate() error {
	if blank(c.Name) {
		return invalid("name is required")
	}
	if blank(c.Issuer) {
		return invalid("issuer is required")
	}
	return nil
}

// Normalize trims the email address and applies the default subject.
func (m *ContactMessage) Normalize() {
	m.Email = strings.TrimSpace(m.Email)
	if blank(m.Subject) {
		m.Subject = DefaultSubject
	}
}

// Validate checks the submission fields a visitor controls.
func (m ContactMessage) Validate() error {
	if blank(m.Name) || m.Email == "" || blank(m.Message) {
		return invalid("name, email, and message are required")
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != m.Email {
		return invalid("email is not a valid address")
	}
	return nil
}

// Normalize trims the profile email and social link URLs.
func (p *Profile) Normalize() {
	p.Email = strings.TrimSpace(p.Email)
	p.SocialLinks.GitHub = strings.TrimSpace(p.SocialLinks.GitHub)
	p.SocialLinks.LinkedIn = strings.TrimSpace(p.SocialLinks.LinkedIn)
	p.SocialLinks.Twitter = strings.TrimSpace(p.SocialLinks.Twitter)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func invalid(message string) error {
	return apperrors.E(apperrors.KindInvalidInput, message)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
