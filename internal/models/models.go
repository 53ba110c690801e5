package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const LeadStatusPending = "pending"

type Lead struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Education    string    `json:"education"`
	Experience   string    `json:"experience,omitempty"`
	Interests    string    `json:"interests,omitempty"`
	Expectations string    `json:"expectations,omitempty"`
	CourseType   string    `json:"course_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LeadFilter narrows ListLeads. Zero values match everything.
type LeadFilter struct {
	CourseType string
	Since      time.Time
	Search     string // name, email or phone substring
}

// LeadStore is implemented by every lead sink (Postgres, disk, memory).
// CreateLead assigns CreatedAt and UpdatedAt.
type LeadStore interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	CountByCourse(ctx context.Context) (map[string]int, error)
}

// Match applies the filter in memory, mirroring the SQL used by LeadRepository.
func (f LeadFilter) Match(lead *Lead) bool {
	if f.CourseType != "" && lead.CourseType != f.CourseType {
		return false
	}
	if !f.Since.IsZero() && lead.CreatedAt.Before(f.Since) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(lead.Name), needle) &&
			!strings.Contains(strings.ToLower(lead.Email), needle) &&
			!strings.Contains(lead.Phone, f.Search) {
			return false
		}
	}
	return true
}
