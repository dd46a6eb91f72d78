package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// BaseEntity carries the identity and timestamps shared by every catalog entity
type BaseEntity struct {
	id        int64
	createdAt *time.Time
	updatedAt *time.Time
}

// ID returns the entity identifier, 0 when the entity was never stored
func (e *BaseEntity) ID() int64 {
	return e.id
}

// Exists reports whether the entity has been assigned an identifier
func (e *BaseEntity) Exists() bool {
	return e.id != 0
}

// CreatedAt returns the creation timestamp if known
func (e *BaseEntity) CreatedAt() *time.Time {
	return e.createdAt
}

// UpdatedAt returns the last update timestamp if known
func (e *BaseEntity) UpdatedAt() *time.Time {
	return e.updatedAt
}

// SetID assigns the identifier. Only repositories call this.
func (e *BaseEntity) SetID(id int64) {
	e.id = id
}

// SetTimestamps assigns the stored timestamps. Only repositories call this.
func (e *BaseEntity) SetTimestamps(createdAt, updatedAt *time.Time) {
	e.createdAt = createdAt
	e.updatedAt = updatedAt
}

// ValidationError is returned by constructors and setters on malformed input
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.Field, e.Message)
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func invalid(entity, field, format string, args ...interface{}) error {
	return &ValidationError{Entity: entity, Field: field, Message: fmt.Sprintf(format, args...)}
}

// requiredString trims s and checks it is non-empty and at most maxLen characters (0 = unbounded)
func requiredString(entity, field, s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(entity, field, "cannot be empty")
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", invalid(entity, field, "cannot exceed %d characters", maxLen)
	}
	return s, nil
}

// optionalString trims s and maps blank input to nil
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
