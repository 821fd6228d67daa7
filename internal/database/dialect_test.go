package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM children WHERE id = ?",
			want:  "SELECT * FROM children WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO families (name, created_at) VALUES (?, ?)",
			want:  "INSERT INTO families (name, created_at) VALUES ($1, $2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectRewriteQuery(t *testing.T) {
	query := "SELECT * FROM completions WHERE child_id = ? AND completed_at >= ?"

	sqlite := NewSQLiteDialect()
	if got := sqlite.RewriteQuery(query); got != query {
		t.Errorf("sqlite should not rewrite, got %q", got)
	}

	mysql := NewMySQLDialect()
	if got := mysql.RewriteQuery(query); got != query {
		t.Errorf("mysql should not rewrite, got %q", got)
	}

	postgres := NewPostgresDialect()
	want := "SELECT * FROM completions WHERE child_id = $1 AND completed_at >= $2"
	if got := postgres.RewriteQuery(query); got != want {
		t.Errorf("postgres rewrite got %q, want %q", got, want)
	}
}

func TestDialectProperties(t *testing.T) {
	tests := []struct {
		dialect            Dialect
		driver             string
		subdir             string
		supportsLastInsert bool
	}{
		{NewSQLiteDialect(), "sqlite3", "sqlite", true},
		{NewPostgresDialect(), "postgres", "postgres", false},
		{NewMySQLDialect(), "mysql", "mysql", true},
	}

	for _, tt := range tests {
		if got := tt.dialect.DriverName(); got != tt.driver {
			t.Errorf("DriverName() = %q, want %q", got, tt.driver)
		}
		if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
			t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.subdir)
		}
		if got := tt.dialect.SupportsLastInsertId(); got != tt.supportsLastInsert {
			t.Errorf("%s SupportsLastInsertId() = %v, want %v", tt.driver, got, tt.supportsLastInsert)
		}
	}
}
