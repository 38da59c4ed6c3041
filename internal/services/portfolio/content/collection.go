package content

// Identified is implemented by every collection entity.
type Identified interface {
	Identity() string
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf[T Identified](items []T, id string) int {
	for i, item := range items {
		if item.Identity() == id {
			return i
		}
	}
	return -1
}

// Remove returns items without the record with id and whether it was found.
func Remove[T Identified](items []T, id string) ([]T, bool) {
	idx := IndexOf(items, id)
	if idx == -1 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

// CategoryBySlug returns the category with slug.
func (d Document) CategoryBySlug(s string) (Category, bool) {
	for _, c := range d.Categories {
		if c.Slug == s {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryReferences counts the skills and projects pointing at slug.
func (d Document) CategoryReferences(s string) (skills, projects int) {
	for _, sk := range d.Skills {
		if sk.Category == s {
			skills++
		}
	}
	for _, p := range d.Projects {
		if p.Category == s {
			projects++
		}
	}
	return skills, projects
}

// RenameCategory rewrites every skill and project reference from one slug to another.
func (d *Document) RenameCategory(from, to string) {
	if from == to {
		return
	}
	for i := range d.Skills {
		if d.Skills[i].Category == from {
			d.Skills[i].Category = to
		}
	}
	for i := range d.Projects {
		if d.Projects[i].Category == from {
			d.Projects[i].Category = to
		}
	}
}
