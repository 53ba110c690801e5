// Package store holds the non-SQL lead sinks: an in-memory store for tests and
// kiosks without a database, and a diskv-backed JSON document store.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"course-enrolment/internal/models"
)

// Memory keeps leads in a map. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	leads map[uuid.UUID]*models.Lead
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		leads: make(map[uuid.UUID]*models.Lead),
		now:   time.Now,
	}
}

func (m *Memory) CreateLead(_ context.Context, lead *models.Lead) error {
	prepare(lead, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *lead
	m.leads[lead.ID] = &stored
	return nil
}

func (m *Memory) GetLead(_ context.Context, id uuid.UUID) (*models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, models.ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

func (m *Memory) ListLeads(_ context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Lead
	for _, lead := range m.leads {
		if filter.Match(lead) {
			l := *lead
			out = append(out, &l)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) CountByCourse(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, lead := range m.leads {
		counts[lead.CourseType]++
	}
	return counts, nil
}

// Len returns the number of stored leads.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.leads)
}

// prepare fills the fields a sink assigns at write time.
func prepare(lead *models.Lead, now time.Time) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusPending
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now
}

func sortNewestFirst(leads []*models.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		if leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].ID.String() < leads[j].ID.String()
		}
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}
