package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// LeadRepository stores leads in PostgreSQL. Timestamps come from the database.
type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(conn *sql.DB) *LeadRepository {
	return &LeadRepository{db: conn}
}

const leadColumns = `id, name, email, phone, education, experience, interests, expectations,
		       course_type, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*Lead, error) {
	lead := &Lead{}
	var experience, interests, expectations sql.NullString
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Education,
		&experience, &interests, &expectations,
		&lead.CourseType, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Experience = experience.String
	lead.Interests = interests.String
	lead.Expectations = expectations.String
	return lead, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// CreateLead inserts exactly one row. A missing id or status is filled in.
func (r *LeadRepository) CreateLead(ctx context.Context, lead *Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = LeadStatusPending
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO leads (id, name, email, phone, education, experience, interests, expectations, course_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, lead.ID, lead.Name, lead.Email, lead.Phone, lead.Education,
		nullString(lead.Experience), nullString(lead.Interests), nullString(lead.Expectations),
		lead.CourseType, lead.Status,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return ClassifyWriteError(err)
	}
	return nil
}

func (r *LeadRepository) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if filter.CourseType != "" {
		query += fmt.Sprintf(" AND course_type = $%d", argIndex)
		args = append(args, filter.CourseType)
		argIndex++
	}

	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, filter.Since)
		argIndex++
	}

	// Search filter (name, email or phone)
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (LOWER(name) LIKE LOWER($%d) OR LOWER(email) LIKE LOWER($%d) OR phone LIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}

func (r *LeadRepository) CountByCourse(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT course_type, COUNT(*)
		FROM leads
		GROUP BY course_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var course string
		var n int
		if err := rows.Scan(&course, &n); err != nil {
			return nil, fmt.Errorf("failed to scan lead count: %w", err)
		}
		counts[course] = n
	}
	return counts, rows.Err()
}
