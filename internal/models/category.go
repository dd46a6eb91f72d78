package models

import (
	"regexp"
	"strings"
)

const maxCategoryNameLength = 255

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category is a node of the storefront navigation hierarchy
type Category struct {
	BaseEntity
	name        string
	slug        string
	description *string
	parentID    *int64
	position    int
	isActive    bool
}

// NewCategory creates an active root category at position 0
func NewCategory(name, slug string) (*Category, error) {
	c := &Category{isActive: true}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetSlug(slug); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) Name() string { return c.name }
func (c *Category) Slug() string { return c.slug }
func (c *Category) Description() *string { return c.description }
func (c *Category) ParentID() *int64 { return c.parentID }
func (c *Category) Position() int { return c.position }
func (c *Category) IsActive() bool { return c.isActive }
func (c *Category) IsRoot() bool { return c.parentID == nil }
func (c *Category) SetDescription(s *string) { c.description = optionalString(s) }
func (c *Category) SetActive(active bool) { c.isActive = active }

func (c *Category) SetName(name string) error {
	v, err := requiredString("category", "name", name, maxCategoryNameLength)
	if err != nil {
		return err
	}
	c.name = v
	return nil
}

func (c *Category) SetSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return invalid("category", "slug", "cannot be empty")
	}
	if !slugPattern.MatchString(slug) {
		return invalid("category", "slug", "must contain only lowercase letters, digits and single hyphens")
	}
	c.slug = slug
	return nil
}

// SetParentID assigns or clears the parent. A stored category cannot be its own parent.
func (c *Category) SetParentID(parentID *int64) error {
	if parentID != nil && c.Exists() && *parentID == c.ID() {
		return invalid("category", "parent_id", "category cannot be its own parent")
	}
	c.parentID = parentID
	return nil
}

func (c *Category) SetPosition(position int) error {
	if position < 0 {
		return invalid("category", "position", "cannot be negative")
	}
	c.position = position
	return nil
}
