package entity

import (
	"slices"
	"strings"
)

// Categories is the ordered list of category names. Names compare case-insensitively.
type Categories []string

// NormalizeCategory trims surrounding whitespace from a category name.
func NormalizeCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrCategoryNameRequired
	}

	return name, nil
}

// Index returns the position of name, ignoring case, or -1.
func (c Categories) Index(name string) int {
	name = strings.TrimSpace(name)

	return slices.IndexFunc(c, func(existing string) bool {
		return strings.EqualFold(existing, name)
	})
}

// Contains reports whether name is present, ignoring case.
func (c Categories) Contains(name string) bool {
	return c.Index(name) >= 0
}

// Canonical returns the stored spelling of name.
func (c Categories) Canonical(name string) (string, bool) {
	idx := c.Index(name)
	if idx < 0 {
		return "", false
	}

	return c[idx], true
}
