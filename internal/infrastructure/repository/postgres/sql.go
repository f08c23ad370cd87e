package postgres

import (
	"database/sql"
	"strings"
	"time"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// isBindParameterMismatch detects the bind error some poolers return
// when a prepared statement is replayed against a different backend.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "parameters")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "unnamed prepared statement does not exist") {
		return true
	}
	return strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000")
}

func nullTimeToTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func timePtrToNullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
