package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"matchday/internal/match"
)

// Archive stores finished matches in Postgres.
type Archive struct {
	pool *pgxpool.Pool
}

// PoolConfig tunes the underlying connection pool.
type PoolConfig struct {
	MinConns    int
	MaxConns    int
	MaxConnLife time.Duration
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id          UUID PRIMARY KEY,
	home_team   TEXT NOT NULL,
	away_team   TEXT NOT NULL,
	home_score  INT NOT NULL,
	away_score  INT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	state       JSONB NOT NULL
)`

// NewArchive connects to Postgres, ensures the schema, and registers the
// prepared statements the archive uses.
func NewArchive(ctx context.Context, databaseURL string, cfg PoolConfig) (*Archive, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, archiveSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Archive{pool: pool}, nil
}

// Close releases the connection pool.
func (a *Archive) Close() {
	a.pool.Close()
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (a *Archive) HealthCheck(ctx context.Context) error {
	var n int
	return a.pool.QueryRow(ctx, "health_check").Scan(&n)
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		"insert_match": `INSERT INTO matches (id, home_team, away_team, home_score, away_score, state)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				home_score = EXCLUDED.home_score,
				away_score = EXCLUDED.away_score,
				state = EXCLUDED.state`,

		"select_match": "SELECT state FROM matches WHERE id = $1",

		"list_matches": `SELECT id, home_team, away_team, home_score, away_score, finished_at
			FROM matches ORDER BY finished_at DESC LIMIT $1`,
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %s: %w", name, err)
		}
	}
	return nil
}

// Summary is one archived match row, without the full state blob.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	FinishedAt time.Time `json:"finished_at"`
}

// Save upserts a match and its full state.
func (a *Archive) Save(ctx context.Context, m *match.Match) error {
	state, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode match state: %w", err)
	}
	home, away := m.Score()
	_, err = a.pool.Exec(ctx, "insert_match",
		m.ID, m.Home().FullName, m.Away().FullName, home, away, state)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

// Load reads an archived match's full state.
func (a *Archive) Load(ctx context.Context, id uuid.UUID) (*match.Match, error) {
	var state []byte
	if err := a.pool.QueryRow(ctx, "select_match", id).Scan(&state); err != nil {
		return nil, fmt.Errorf("select match %s: %w", id, err)
	}
	var m match.Match
	if err := json.Unmarshal(state, &m); err != nil {
		return nil, fmt.Errorf("decode match state: %w", err)
	}
	return &m, nil
}

// List returns the most recently archived matches.
func (a *Archive) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := a.pool.Query(ctx, "list_matches", limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.HomeTeam, &s.AwayTeam,
			&s.HomeScore, &s.AwayScore, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
