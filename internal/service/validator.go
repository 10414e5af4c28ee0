package service

import (
	"fmt"
	"strings"

	"github.com/mtlprog/taskflow/internal/domain"
)

// maxTitleLength bounds task titles and category names.
const maxTitleLength = 200

// Validator normalizes and validates task and category input before it reaches a store.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Draft trims text fields, defaults the priority and rejects an empty title.
func (v *Validator) Draft(d domain.TaskDraft) (domain.TaskDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)

	if err := checkTitle(d.Title); err != nil {
		return domain.TaskDraft{}, err
	}

	if d.Priority == "" {
		d.Priority = domain.PriorityMedium
	}
	if !d.Priority.IsValid() {
		return domain.TaskDraft{}, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, d.Priority)
	}
	return d, nil
}

// Patch applies the same rules as Draft to the fields a patch sets.
func (v *Validator) Patch(p domain.TaskPatch) (domain.TaskPatch, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := checkTitle(title); err != nil {
			return domain.TaskPatch{}, err
		}
		p.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}
	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		p.Category = &category
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return domain.TaskPatch{}, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *p.Priority)
	}
	return p, nil
}

// CategoryName trims a category name and rejects an empty one.
func (v *Validator) CategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyCategoryName
	}
	if len(name) > maxTitleLength {
		return "", fmt.Errorf("%w: category name longer than %d bytes", domain.ErrTitleTooLong, maxTitleLength)
	}
	return name, nil
}

func checkTitle(title string) error {
	if title == "" {
		return domain.ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: longer than %d bytes", domain.ErrTitleTooLong, maxTitleLength)
	}
	return nil
}
