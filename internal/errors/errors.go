package errors

import (
	"encoding/json"
	"fmt"
)

// Constraint rules reported by ConstraintViolation
const (
	RuleRequired   = "required"
	RuleMax        = "max"
	RuleLen        = "len"
	RuleUnique     = "unique"
	RuleForeignKey = "foreign_key"
)

// ConstraintViolation is raised when a write breaks a schema rule of an entity field
type ConstraintViolation struct {
	Entity  string
	Field   string
	Rule    string
	Message string
}

func (e *ConstraintViolation) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s.%s violates %s constraint", e.Entity, e.Field, e.Rule)
	}
	return fmt.Sprintf("%s.%s violates %s constraint - %s", e.Entity, e.Field, e.Rule, e.Message)
}

func (e *ConstraintViolation) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Entity  string `json:"entity"`
		Field   string `json:"field"`
		Rule    string `json:"rule"`
		Message string `json:"message"`
	}{Entity: e.Entity, Field: e.Field, Rule: e.Rule, Message: e.Error()})
}

// NewConstraintViolation builds ConstraintViolation
func NewConstraintViolation(entity, field, rule, msg string) *ConstraintViolation {
	return &ConstraintViolation{
		Entity:  entity,
		Field:   field,
		Rule:    rule,
		Message: msg,
	}
}

// ReferentialIntegrityViolation is raised when a row can't be deleted because other rows still reference it
type ReferentialIntegrityViolation struct {
	Entity     string
	ID         string
	Referrer   string
	References int
}

func (e *ReferentialIntegrityViolation) Error() string {
	return fmt.Sprintf("%s %s is still referenced by %d %s row(s)", e.Entity, e.ID, e.References, e.Referrer)
}

// NewReferentialIntegrityViolation builds ReferentialIntegrityViolation
func NewReferentialIntegrityViolation(entity, id, referrer string, refs int) *ReferentialIntegrityViolation {
	return &ReferentialIntegrityViolation{
		Entity:     entity,
		ID:         id,
		Referrer:   referrer,
		References: refs,
	}
}

// EntryNotFoundErr is raised when lookup by key has no match
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// AuthorizationFailure is raised by the admin gate before any handler runs
type AuthorizationFailure struct {
	Authenticated bool
	reason        string
}

func (e *AuthorizationFailure) Error() string {
	return e.reason
}

// NewUnauthenticatedErr builds AuthorizationFailure for callers without valid credentials
func NewUnauthenticatedErr(reason string) *AuthorizationFailure {
	return &AuthorizationFailure{reason: reason}
}

// NewForbiddenErr builds AuthorizationFailure for authenticated callers lacking privileges
func NewForbiddenErr(reason string) *AuthorizationFailure {
	return &AuthorizationFailure{Authenticated: true, reason: reason}
}
