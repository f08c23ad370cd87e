package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation match_events does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation match_events does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestNullInt64ToIntPtr(t *testing.T) {
	t.Run("returns pointer for valid value", func(t *testing.T) {
		got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true})
		if got == nil || *got != 3 {
			t.Fatalf("expected pointer to 3, got %v", got)
		}
	})

	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestTimePtrToNullTime(t *testing.T) {
	t.Run("wraps pointer", func(t *testing.T) {
		now := time.Now().UTC()
		got := timePtrToNullTime(&now)
		if !got.Valid || !got.Time.Equal(now) {
			t.Fatalf("expected valid null time, got %v", got)
		}
	})

	t.Run("nil stays null", func(t *testing.T) {
		if got := timePtrToNullTime(nil); got.Valid {
			t.Fatalf("expected invalid null time, got %v", got)
		}
	})
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
