package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transcripts (
        id         BIGSERIAL PRIMARY KEY,
        record_id  TEXT NOT NULL,
        role       TEXT NOT NULL,
        content    TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists the transcript in a Postgres table.
type PostgresStore struct {
	DB *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the transcript table
// exists.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create transcript table: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (ps *PostgresStore) Append(ctx context.Context, rec Record) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	query := `
                INSERT INTO transcripts (record_id, role, content, created_at)
                VALUES ($1, $2, $3, $4);
        `
	_, err := ps.DB.Exec(ctx, query, rec.ID, rec.Role, rec.Content, rec.CreatedAt)
	return err
}

func (ps *PostgresStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if ps == nil || ps.DB == nil || limit <= 0 {
		return nil, nil
	}
	rows, err := ps.DB.Query(ctx, `
        SELECT record_id, role, content, created_at
        FROM transcripts
        ORDER BY id DESC
        LIMIT $1;
        `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Role, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(records)
	return records, nil
}

// Close releases the underlying Postgres connection pool.
func (ps *PostgresStore) Close() error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	ps.DB.Close()
	return nil
}

func reverse(records []Record) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
