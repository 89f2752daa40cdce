package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gridview/internal/codec"
	"gridview/internal/domain"
	"gridview/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if isMemory(dbPath) {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(dbPath string) string {
	if isMemory(dbPath) {
		return dbPath
	}
	return "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seq INTEGER NOT NULL,
		digest TEXT NOT NULL UNIQUE,
		label TEXT,
		node_count INTEGER NOT NULL DEFAULT 0,
		link_count INTEGER NOT NULL DEFAULT 0,
		group_count INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_seq ON snapshots(seq);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save stores a snapshot, deduplicating by content digest
func (r *Repository) Save(ctx context.Context, snapshot *domain.Snapshot, label string) (*repository.Record, error) {
	data, digest, err := codec.Canonical(snapshot)
	if err != nil {
		return nil, err
	}
	d := snapshot.Diagram()
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (seq, digest, label, node_count, link_count, group_count, data, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET
			seq = excluded.seq,
			saved_at = excluded.saved_at,
			label = COALESCE(excluded.label, snapshots.label)
	`, seq, digest, sql.NullString{String: label, Valid: label != ""}, len(d.Nodes), len(d.Links), len(d.Groups), string(data), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	record, err := scanRecord(tx.QueryRowContext(ctx, recordQuery+` WHERE digest = ?`, digest))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return record, nil
}

// Latest returns the most recently saved snapshot, or nil
func (r *Repository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots ORDER BY seq DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return decode(data)
}

// Get returns a stored snapshot by ID
func (r *Repository) Get(ctx context.Context, id int64) (*domain.Snapshot, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decode(data)
}

// List returns all records, most recent first
func (r *Repository) List(ctx context.Context) ([]repository.Record, error) {
	rows, err := r.db.QueryContext(ctx, recordQuery+` ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	records := make([]repository.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return records, nil
}

// Delete removes a stored snapshot
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("snapshot %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

const recordQuery = `
	SELECT id, label, digest, node_count, link_count, group_count, saved_at
	FROM snapshots`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*repository.Record, error) {
	var (
		record  repository.Record
		label   sql.NullString
		savedAt int64
	)
	if err := s.Scan(&record.ID, &label, &record.Digest, &record.NodeCount,
		&record.LinkCount, &record.GroupCount, &savedAt); err != nil {
		return nil, fmt.Errorf("failed to scan snapshot record: %w", err)
	}
	record.Label = label.String
	record.SavedAt = time.UnixMilli(savedAt).UTC()
	return &record, nil
}

func decode(data string) (*domain.Snapshot, error) {
	snapshot, err := codec.NewJSONCodec().Decode(bytes.NewReader([]byte(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	return snapshot, nil
}
