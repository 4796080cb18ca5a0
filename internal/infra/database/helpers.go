package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const uniqueViolation = "23505"

var scopeColumns = map[entity.ScopeField]string{
	entity.ScopeAssignedTo: "assigned_to",
	entity.ScopeCreatedBy:  "created_by",
}

// scopeClause renders scope as a WHERE clause whose placeholder is $argPos.
func scopeClause(scope entity.Scope, argPos int) (string, []any) {
	if scope.IsUnrestricted() {
		return "", nil
	}
	col, ok := scopeColumns[scope.Field]
	if !ok {
		return " WHERE FALSE", nil
	}
	return fmt.Sprintf(" WHERE %s = $%d", col, argPos), []any{scope.OwnerID}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func notFoundOr(err error, format string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	return fmt.Errorf(format, err)
}
