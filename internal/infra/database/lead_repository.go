package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, phone, company, source, notes, status, assigned_to, created_by, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Company),
		nullString(lead.Source),
		nullString(lead.Notes),
		string(lead.Status),
		lead.AssignedTo,
		lead.CreatedBy,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		return nil, notFoundOr(err, "find lead: %w")
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, scope entity.Scope, limit int) ([]*entity.Lead, error) {
	where, args := scopeClause(scope, 1)
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d`, leadColumns, where, len(args)+1)

	rows, err := r.DB.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Update rewrites every mutable column; created_by and created_at stay put.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			name = $2,
			email = $3,
			phone = $4,
			company = $5,
			source = $6,
			notes = $7,
			status = $8,
			assigned_to = $9,
			updated_at = $10
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Company),
		nullString(lead.Source),
		nullString(lead.Notes),
		string(lead.Status),
		lead.AssignedTo,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return expectOneRow(res)
}

func (r *LeadRepository) Stats(ctx context.Context, scope entity.Scope) (entity.LeadStats, error) {
	where, args := scopeClause(scope, 1)
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'qualified')
		FROM leads` + where

	var stats entity.LeadStats
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&stats.Total, &stats.New, &stats.Qualified); err != nil {
		return entity.LeadStats{}, fmt.Errorf("lead stats: %w", err)
	}
	return stats, nil
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		lead                                 entity.Lead
		email, phone, company, source, notes sql.NullString
		status                               string
	)
	err := s.Scan(
		&lead.ID,
		&lead.Name,
		&email,
		&phone,
		&company,
		&source,
		&notes,
		&status,
		&lead.AssignedTo,
		&lead.CreatedBy,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Email = email.String
	lead.Phone = phone.String
	lead.Company = company.String
	lead.Source = source.String
	lead.Notes = notes.String
	lead.Status = entity.LeadStatus(status)
	return &lead, nil
}
