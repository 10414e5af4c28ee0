package domain

// Category is a named, colored grouping label for tasks.
//
// Tasks reference categories by Name only. TaskCount is a denormalized counter
// kept up to date on a best-effort basis and may drift from the real number of tasks.
type Category struct {
	ID        int64
	Name      string
	Color     string
	TaskCount int
}

// CategoryPatch is a partial category update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Apply returns a copy of c with the patch applied.
func (c Category) Apply(p CategoryPatch) Category {
	out := c
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	return out
}
