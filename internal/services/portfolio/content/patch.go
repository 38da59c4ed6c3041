package content

// Patches carry the fields of a partial update. A nil field is left as is.

// CategoryPatch updates a Category.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Slug  *string `json:"slug,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Apply merges the present fields into c.
func (p CategoryPatch) Apply(c *Category) {
	set(&c.Name, p.Name)
	set(&c.Slug, p.Slug)
	set(&c.Color, p.Color)
}

// SkillPatch updates a Skill.
type SkillPatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

// Apply merges the present fields into s.
func (p SkillPatch) Apply(s *Skill) {
	set(&s.Name, p.Name)
	set(&s.Category, p.Category)
	set(&s.Icon, p.Icon)
}

// ProjectPatch updates a Project.
type ProjectPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Link        *string   `json:"link,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
}

// Apply merges the present fields into pr.
func (p ProjectPatch) Apply(pr *Project) {
	set(&pr.Title, p.Title)
	set(&pr.Description, p.Description)
	set(&pr.Image, p.Image)
	set(&pr.Tags, p.Tags)
	set(&pr.Category, p.Category)
	set(&pr.Link, p.Link)
	set(&pr.Featured, p.Featured)
}

// ExperiencePatch updates an Experience.
type ExperiencePatch struct {
	Company      *string   `json:"company,omitempty"`
	Role         *string   `json:"role,omitempty"`
	Period       *string   `json:"period,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
}

// Apply merges the present fields into e.
func (p ExperiencePatch) Apply(e *Experience) {
	set(&e.Company, p.Company)
	set(&e.Role, p.Role)
	set(&e.Period, p.Period)
	set(&e.Description, p.Description)
	set(&e.Technologies, p.Technologies)
}

// CertificationPatch updates a Certification.
type CertificationPatch struct {
	Name   *string `json:"name,omitempty"`
	Issuer *string `json:"issuer,omitempty"`
	Year   *string `json:"year,omitempty"`
	Icon   *string `json:"icon,omitempty"`
}

// Apply merges the present fields into c.
func (p CertificationPatch) Apply(c *Certification) {
	set(&c.Name, p.Name)
	set(&c.Issuer, p.Issuer)
	set(&c.Year, p.Year)
	set(&c.Icon, p.Icon)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
