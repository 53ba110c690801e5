package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Step is the 1-based position of the wizard.
type Step int

const (
	StepContact    Step = 1
	StepBackground Step = 2
	StepReview     Step = 3
)

// Fields returns the form fields collected on s, in form order.
func (s Step) Fields() []string {
	switch s {
	case StepContact:
		return []string{FieldName, FieldEmail, FieldPhone}
	case StepBackground:
		return []string{FieldEducation, FieldExperience, FieldInterests, FieldExpectations}
	}
	return nil
}

func (s Step) Label() string {
	switch s {
	case StepContact:
		return "Contact details"
	case StepBackground:
		return "Background"
	case StepReview:
		return "Review"
	}
	return ""
}

// Status tracks the submission on the review step.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// CloseReason says why a dialog was torn down.
type CloseReason string

const (
	ReasonCancelled CloseReason = "cancelled"
	ReasonCompleted CloseReason = "completed"
)

// LeadStatusPending is the status every new lead record carries.
const LeadStatusPending = "pending"

var (
	ErrClosed      = errors.New("wizard: dialog is closed")
	ErrSubmitting  = errors.New("wizard: submission in flight")
	ErrCompleted   = errors.New("wizard: enrolment already submitted")
	ErrWrongStep   = errors.New("wizard: operation not allowed on this step")
	ErrNotFailed   = errors.New("wizard: nothing to retry")
	ErrWriteFailed = errors.New("wizard: write failed")
)

// ValidationError is returned when a step does not pass validation.
type ValidationError struct {
	Step   Step
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, name := range FieldNames {
		if _, ok := e.Errors[name]; ok {
			fields = append(fields, name)
		}
	}
	return fmt.Sprintf("wizard: step %d invalid: %s", e.Step, strings.Join(fields, ", "))
}

// Record is the lead handed to the gateway once every step has passed.
type Record struct {
	Name         string
	Email        string
	Phone        string
	Education    string
	Experience   string
	Interests    string
	Expectations string
	CourseType   string
	Status       string
}

// Gateway persists a finished record and returns its identifier.
// Any failure is reported as a single write failure.
type Gateway interface {
	Submit(ctx context.Context, rec Record) (string, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, rec Record) (string, error)

func (f GatewayFunc) Submit(ctx context.Context, rec Record) (string, error) {
	return f(ctx, rec)
}

// State is a read-only snapshot consumed by presentation layers.
type State struct {
	CourseType string
	Step       Step
	Fields     map[string]string
	Errors     Errors
	Status     Status
	LeadID     string
	Closed     bool
}

// HasError reports whether field currently has a validation message.
func (s State) HasError(field string) bool {
	_, ok := s.Errors[field]
	return ok
}
