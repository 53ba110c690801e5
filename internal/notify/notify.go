// Package notify announces new leads on NATS so the admissions team can pick
// them up without polling the store.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go"

	"course-enrolment/internal/models"
)

const DefaultSubject = "leads.created"

// LeadCreated is the message body published for every new lead.
type LeadCreated struct {
	LeadID     string    `json:"lead_id"`
	CourseType string    `json:"course_type"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

type Publisher struct {
	nc      *nats.Conn
	subject string
	owned   bool
}

// Connect dials url and returns a publisher that owns the connection.
func Connect(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("course-enrolment"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	p := NewPublisher(nc, subject)
	p.owned = true
	return p, nil
}

// NewPublisher publishes on an existing connection; Close leaves it open.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Subject returns the subject used for a course, e.g. leads.created.web-development.
func (p *Publisher) Subject(course string) string {
	token := slug.Make(course)
	if token == "" {
		token = "unknown"
	}
	return p.subject + "." + token
}

func (p *Publisher) PublishLeadCreated(ctx context.Context, lead *models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(LeadCreated{
		LeadID:     lead.ID.String(),
		CourseType: lead.CourseType,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		CreatedAt:  lead.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode lead event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(lead.CourseType), data); err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}
	return nil
}

// Close drains the connection if the publisher opened it.
func (p *Publisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.nc.Drain()
}
