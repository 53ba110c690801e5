package wizard

import (
	"errors"
	"fmt"
)

// Field names shared by the form, the validator and the lead record.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldEducation    = "education"
	FieldExperience   = "experience"
	FieldInterests    = "interests"
	FieldExpectations = "expectations"
)

// FieldNames lists every editable field in form order.
var FieldNames = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldEducation,
	FieldExperience,
	FieldInterests,
	FieldExpectations,
}

// ErrUnknownField is returned when a caller names a field the form does not have.
var ErrUnknownField = errors.New("wizard: unknown field")

// Errors maps a field name to its validation message.
type Errors map[string]string

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// FieldStore holds the current field values and the per-field validation errors.
type FieldStore struct {
	values map[string]string
	errors Errors
}

// NewFieldStore returns a store with every field set to the empty string.
func NewFieldStore() *FieldStore {
	s := &FieldStore{
		values: make(map[string]string, len(FieldNames)),
		errors: Errors{},
	}
	for _, name := range FieldNames {
		s.values[name] = ""
	}
	return s
}

// Set overwrites the named field and clears its validation error.
func (s *FieldStore) Set(name, value string) error {
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.values[name] = value
	delete(s.errors, name)
	return nil
}

// Get returns the named value, or "" for an unknown field.
func (s *FieldStore) Get(name string) string {
	return s.values[name]
}

// Values returns a copy of the field values.
func (s *FieldStore) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the current validation errors.
func (s *FieldStore) Errors() Errors {
	return s.errors.clone()
}

func (s *FieldStore) setErrors(errs Errors) {
	s.errors = errs.clone()
}

func (s *FieldStore) clearErrors() {
	s.errors = Errors{}
}
