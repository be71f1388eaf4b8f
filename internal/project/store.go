package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("project not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	video_path TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	stage TEXT NOT NULL DEFAULT 'upload',
	cue_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	cues TEXT NOT NULL DEFAULT '[]',
	media TEXT NOT NULL DEFAULT '[]',
	broll TEXT NOT NULL DEFAULT '[]',
	watermark TEXT NOT NULL DEFAULT '{}',
	view TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at);
`

// Store persists project snapshots in a sqlite database. Cue and placement
// lists are kept as JSON columns.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or updates a snapshot. A snapshot without an id gets a new
// one. The stored snapshot, with id and timestamps filled in, is returned.
func (s *Store) Save(ctx context.Context, snap Snapshot) (Snapshot, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = now
	}
	snap.UpdatedAt = now
	snap.CueCount = len(snap.Cues)
	if snap.Stage == "" {
		snap.Stage = StageUpload
	}

	cues, err := encode(nonNil(snap.Cues))
	if err != nil {
		return Snapshot{}, err
	}
	media, err := encode(nonNil(snap.Media))
	if err != nil {
		return Snapshot{}, err
	}
	broll, err := encode(nonNil(snap.Broll))
	if err != nil {
		return Snapshot{}, err
	}
	watermark, err := encode(snap.Watermark)
	if err != nil {
		return Snapshot{}, err
	}
	view, err := encode(snap.View)
	if err != nil {
		return Snapshot{}, err
	}

	query := `
	INSERT INTO projects (id, title, video_path, duration_ms, stage, cue_count,
		created_at, updated_at, cues, media, broll, watermark, view)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		video_path = excluded.video_path,
		duration_ms = excluded.duration_ms,
		stage = excluded.stage,
		cue_count = excluded.cue_count,
		updated_at = excluded.updated_at,
		cues = excluded.cues,
		media = excluded.media,
		broll = excluded.broll,
		watermark = excluded.watermark,
		view = excluded.view`

	_, err = s.db.ExecContext(ctx, query,
		snap.ID, snap.Title, snap.VideoPath, snap.DurationMs, string(snap.Stage), snap.CueCount,
		snap.CreatedAt.UnixMilli(), snap.UpdatedAt.UnixMilli(),
		cues, media, broll, watermark, view,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to save project %s: %w", snap.ID, err)
	}
	return snap, nil
}

func (s *Store) Load(ctx context.Context, id string) (Snapshot, error) {
	query := `SELECT id, title, video_path, duration_ms, stage, cue_count, created_at, updated_at,
		cues, media, broll, watermark, view
		FROM projects WHERE id = ?`

	var (
		snap                             Snapshot
		stage                            string
		created, updated                 int64
		cues, media, broll, wm, viewJSON string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&snap.ID, &snap.Title, &snap.VideoPath, &snap.DurationMs, &stage, &snap.CueCount,
		&created, &updated, &cues, &media, &broll, &wm, &viewJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load project %s: %w", id, err)
	}

	snap.Stage = Stage(stage)
	snap.CreatedAt = time.UnixMilli(created).UTC()
	snap.UpdatedAt = time.UnixMilli(updated).UTC()

	for _, col := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"cues", cues, &snap.Cues},
		{"media", media, &snap.Media},
		{"broll", broll, &snap.Broll},
		{"watermark", wm, &snap.Watermark},
		{"view", viewJSON, &snap.View},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return Snapshot{}, fmt.Errorf("failed to decode %s of project %s: %w", col.name, id, err)
		}
	}
	return snap, nil
}

// List returns project metadata, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, video_path, duration_ms, stage, cue_count,
		created_at, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var (
			m                Meta
			stage            string
			created, updated int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.VideoPath, &m.DurationMs, &stage, &m.CueCount,
			&created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		m.Stage = Stage(stage)
		m.CreatedAt = time.UnixMilli(created).UTC()
		m.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode project data: %w", err)
	}
	return string(b), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
