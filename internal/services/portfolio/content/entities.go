package content

// Profile is the singleton owner card shown in the hero section.
type Profile struct {
	Name        string      `json:"name" yaml:"name"`
	Title       string      `json:"title" yaml:"title"`
	Subtitle    string      `json:"subtitle" yaml:"subtitle"`
	Bio         string      `json:"bio" yaml:"bio"`
	Email       string      `json:"email" yaml:"email"`
	Location    string      `json:"location" yaml:"location"`
	Available   bool        `json:"available" yaml:"available"`
	SocialLinks SocialLinks `json:"socialLinks" yaml:"socialLinks"`
}

// SocialLinks holds optional profile URLs.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
}

// Category groups skills and projects. Other entities reference it by Slug.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Color string `json:"color" yaml:"color"`
}

// Skill is one technology badge.
type Skill struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Icon     string `json:"icon" yaml:"icon"`
}

// Project is one showcased piece of work.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image" yaml:"image"`
	Tags        []string `json:"tags" yaml:"tags"`
	Category    string   `json:"category" yaml:"category"`
	Link        string   `json:"link" yaml:"link"`
	Featured    bool     `json:"featured" yaml:"featured"`
}

// Experience is one employment entry. Period is free text ("2021 - now").
type Experience struct {
	ID           string   `json:"id" yaml:"id"`
	Company      string   `json:"company" yaml:"company"`
	Role         string   `json:"role" yaml:"role"`
	Period       string   `json:"period" yaml:"period"`
	Description  string   `json:"description" yaml:"description"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

// Certification is one earned credential. Year is free text.
type Certification struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Issuer string `json:"issuer" yaml:"issuer"`
	Year   string `json:"year" yaml:"year"`
	Icon   string `json:"icon" yaml:"icon"`
}

// ContactMessage is a visitor submission from the contact form.
type ContactMessage struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Email   string    `json:"email" yaml:"email"`
	Subject string    `json:"subject" yaml:"subject"`
	Message string    `json:"message" yaml:"message"`
	Date    Timestamp `json:"date" yaml:"date"`
	Read    bool      `json:"read" yaml:"read"`
}

// Analytics is the advisory page-view counter.
type Analytics struct {
	Views       int64     `json:"views" yaml:"views"`
	LastUpdated Timestamp `json:"lastUpdated" yaml:"lastUpdated"`
}

// Identity implementations let collection helpers find records by id.

func (c Category) Identity() string       { return c.ID }
func (s Skill) Identity() string          { return s.ID }
func (p Project) Identity() string        { return p.ID }
func (e Experience) Identity() string     { return e.ID }
func (c Certification) Identity() string  { return c.ID }
func (m ContactMessage) Identity() string { return m.ID }
