package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type OpportunityRepository struct {
	DB *sql.DB
}

func NewOpportunityRepository(db *sql.DB) *OpportunityRepository {
	return &OpportunityRepository{DB: db}
}

const opportunityColumns = `id, name, value, stage, expected_close_date, notes, lead_id, assigned_to, created_by, created_at, updated_at`

func (r *OpportunityRepository) Create(ctx context.Context, opp *entity.Opportunity) error {
	query := `
		INSERT INTO opportunities (` + opportunityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		opp.ID,
		opp.Name,
		opp.Value,
		string(opp.Stage),
		opp.ExpectedCloseDate,
		nullString(opp.Notes),
		opp.LeadID,
		opp.AssignedTo,
		opp.CreatedBy,
		opp.CreatedAt,
		opp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	opp, err := scanOpportunity(row)
	if err != nil {
		return nil, notFoundOr(err, "find opportunity: %w")
	}
	return opp, nil
}

func (r *OpportunityRepository) List(ctx context.Context, scope entity.Scope, limit int) ([]*entity.Opportunity, error) {
	where, args := scopeClause(scope, 1)
	query := fmt.Sprintf(`SELECT %s FROM opportunities%s ORDER BY created_at DESC LIMIT $%d`, opportunityColumns, where, len(args)+1)

	rows, err := r.DB.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	opps := []*entity.Opportunity{}
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// Update never touches lead_id, assigned_to or created_by.
func (r *OpportunityRepository) Update(ctx context.Context, opp *entity.Opportunity) error {
	query := `
		UPDATE opportunities SET
			name = $2,
			value = $3,
			stage = $4,
			expected_close_date = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		opp.ID,
		opp.Name,
		opp.Value,
		string(opp.Stage),
		opp.ExpectedCloseDate,
		nullString(opp.Notes),
		opp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update opportunity: %w", err)
	}
	return expectOneRow(res)
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete opportunity: %w", err)
	}
	return expectOneRow(res)
}

// Stats reports a zero total value for an empty scope.
func (r *OpportunityRepository) Stats(ctx context.Context, scope entity.Scope) (entity.OpportunityStats, error) {
	where, args := scopeClause(scope, 1)
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stage = 'won'),
			COALESCE(SUM(value), 0)
		FROM opportunities` + where

	var stats entity.OpportunityStats
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&stats.Total, &stats.Won, &stats.TotalValue); err != nil {
		return entity.OpportunityStats{}, fmt.Errorf("opportunity stats: %w", err)
	}
	return stats, nil
}

func scanOpportunity(s scanner) (*entity.Opportunity, error) {
	var (
		opp       entity.Opportunity
		stage     string
		closeDate sql.NullTime
		notes     sql.NullString
	)
	err := s.Scan(
		&opp.ID,
		&opp.Name,
		&opp.Value,
		&stage,
		&closeDate,
		&notes,
		&opp.LeadID,
		&opp.AssignedTo,
		&opp.CreatedBy,
		&opp.CreatedAt,
		&opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	opp.Stage = entity.OpportunityStage(stage)
	opp.Notes = notes.String
	if closeDate.Valid {
		t := closeDate.Time
		opp.ExpectedCloseDate = &t
	}
	return &opp, nil
}
