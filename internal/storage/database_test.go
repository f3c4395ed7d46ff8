package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sivi/internal/config"
)

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"sqlite":   SQLite,
		"SQLite3":  SQLite,
		"mysql":    MySQL,
		"postgres": Postgres,
		" pgx ":    Postgres,
	}
	for in, want := range cases {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM conversations WHERE user_id = ? AND kind = '?' AND id > ?`
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t,
		`SELECT id FROM conversations WHERE user_id = $1 AND kind = '?' AND id > $2`,
		Postgres.Rebind(q))
}

func TestOpenMigrateSQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "sivi.db"),
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	ctx := context.Background()
	id, err := db.InsertID(ctx, db, `INSERT INTO users (username, created_at) VALUES (?, ?)`, "ana", time.Now().UTC())
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = db.ExecContext(ctx,
		`INSERT INTO conversations (user_id, user_text, corrected_text, fluency_score, created_at) VALUES (?, ?, ?, ?, ?)`,
		id+100, "x", "x", 100, time.Now().UTC())
	assert.Error(t, err, "foreign key should reject unknown user")

	_, err = db.ExecContext(ctx, `INSERT INTO media_prompts (kind, url, prompt) VALUES (?, ?, ?)`, "audio", "u", "p")
	assert.Error(t, err, "kind check should reject audio")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
