package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CallLogRepository struct {
	DB *sql.DB
}

func NewCallLogRepository(db *sql.DB) *CallLogRepository {
	return &CallLogRepository{DB: db}
}

const callLogColumns = `id, call_type, duration, notes, lead_id, opportunity_id, created_by, created_at`

func (r *CallLogRepository) Create(ctx context.Context, call *entity.CallLog) error {
	query := `
		INSERT INTO call_logs (` + callLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		call.ID,
		string(call.CallType),
		call.Duration,
		nullString(call.Notes),
		nullString(call.LeadID),
		nullString(call.OpportunityID),
		call.CreatedBy,
		call.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert call log: %w", err)
	}
	return nil
}

func (r *CallLogRepository) List(ctx context.Context, scope entity.Scope, limit int) ([]*entity.CallLog, error) {
	where, args := scopeClause(scope, 1)
	query := fmt.Sprintf(`SELECT %s FROM call_logs%s ORDER BY created_at DESC LIMIT $%d`, callLogColumns, where, len(args)+1)

	rows, err := r.DB.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("list call logs: %w", err)
	}
	defer rows.Close()

	calls := []*entity.CallLog{}
	for rows.Next() {
		var (
			call                 entity.CallLog
			callType             string
			duration             sql.NullInt64
			notes, leadID, oppID sql.NullString
		)
		if err := rows.Scan(&call.ID, &callType, &duration, &notes, &leadID, &oppID, &call.CreatedBy, &call.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan call log: %w", err)
		}
		call.CallType = entity.CallType(callType)
		if duration.Valid {
			d := int(duration.Int64)
			call.Duration = &d
		}
		call.Notes = notes.String
		call.LeadID = leadID.String
		call.OpportunityID = oppID.String
		calls = append(calls, &call)
	}
	return calls, rows.Err()
}
