// Package content defines the portfolio document and its entities.
package content

// Document is the whole persisted portfolio: one profile, the editable
// collections, the page-view counter and the contact inbox.
type Document struct {
	Profile        Profile          `json:"profile" yaml:"profile"`
	Categories     []Category       `json:"categories" yaml:"categories"`
	Skills         []Skill          `json:"skills" yaml:"skills"`
	Projects       []Project        `json:"projects" yaml:"projects"`
	Experiences    []Experience     `json:"experiences" yaml:"experiences"`
	Certifications []Certification  `json:"certifications" yaml:"certifications"`
	Analytics      Analytics        `json:"analytics" yaml:"analytics"`
	Messages       []ContactMessage `json:"messages" yaml:"messages"`
}

// Empty returns a structurally complete document with no content.
func Empty() Document {
	doc := Document{}
	doc.Normalize()
	return doc
}

// Normalize replaces missing collections with empty ones so every decoded
// document has the full shape.
func (d *Document) Normalize() {
	d.Categories = nonNil(d.Categories)
	d.Skills = nonNil(d.Skills)
	d.Projects = nonNil(d.Projects)
	d.Experiences = nonNil(d.Experiences)
	d.Certifications = nonNil(d.Certifications)
	d.Messages = nonNil(d.Messages)
	for i := range d.Projects {
		d.Projects[i].Tags = nonNil(d.Projects[i].Tags)
	}
	for i := range d.Experiences {
		d.Experiences[i].Technologies = nonNil(d.Experiences[i].Technologies)
	}
}

// Clone returns a deep copy; slices in the result never alias d.
func (d Document) Clone() Document {
	out := d
	out.Categories = cloneSlice(d.Categories)
	out.Skills = cloneSlice(d.Skills)
	out.Certifications = cloneSlice(d.Certifications)
	out.Messages = cloneSlice(d.Messages)
	out.Projects = cloneSlice(d.Projects)
	for i := range out.Projects {
		out.Projects[i].Tags = cloneSlice(out.Projects[i].Tags)
	}
	out.Experiences = cloneSlice(d.Experiences)
	for i := range out.Experiences {
		out.Experiences[i].Technologies = cloneSlice(out.Experiences[i].Technologies)
	}
	return out
}

// Public returns a copy safe for anonymous readers: the contact inbox is
// emptied.
func (d Document) Public() Document {
	out := d.Clone()
	out.Messages = []ContactMessage{}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
