package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "title").
		From("articles").
		Where(Eq("source_kind", "match-result"), IsNull("deleted_at")).
		OrderBy("created_at DESC").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, title FROM articles WHERE source_kind = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "match-result" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("leagues").
		Columns("id", "name").
		Values("nam-premier-2026", "Namibia Premier League").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO leagues (id, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "nam-premier-2026" || args[1] != "Namibia Premier League" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("lineup_entries").
		Columns("match_id", "player_name").
		Values("m1", "Keeper One").
		Values("m1", "Back Two").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO lineup_entries (match_id, player_name) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "Back Two" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("status", "completed").
		SetExpr("completed_at", "NOW()").
		Where(Eq("id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, completed_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "completed" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
