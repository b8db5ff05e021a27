package db

import (
	"context"
	"database/sql"

	"braindump/internal/errors"
)

// Run sources.
const (
	RunSourceLLM  = "llm"
	RunSourceMock = "mock"
)

// Run is one archived analysis.
type Run struct {
	ID         string `json:"id"`
	SceneID    string `json:"sceneId"`
	Source     string `json:"source"`
	Transcript string `json:"transcript"`
	ResultJSON string `json:"resultJson"`
	CreatedAt  int64  `json:"createdAt"`
}

// InsertRun archives one analysis run.
func InsertRun(ctx context.Context, db *sql.DB, r *Run) error {
	query := `
		INSERT INTO runs (id, scene_id, source, transcript, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		r.ID, r.SceneID, r.Source, r.Transcript, r.ResultJSON, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetRun retrieves an archived run by its ULID.
func GetRun(ctx context.Context, db *sql.DB, id string) (*Run, error) {
	query := `
		SELECT id, scene_id, source, transcript, result_json, created_at
		FROM runs
		WHERE id = ?
	`
	var r Run
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.SceneID, &r.Source, &r.Transcript, &r.ResultJSON, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &r, nil
}

// ListRuns returns archived runs newest first. A sceneID filter is optional;
// limit <= 0 means no limit.
func ListRuns(ctx context.Context, db *sql.DB, sceneID string, limit, offset int) ([]*Run, error) {
	query := `
		SELECT id, scene_id, source, transcript, result_json, created_at
		FROM runs
	`
	var args []any
	if sceneID != "" {
		query += " WHERE scene_id = ?"
		args = append(args, sceneID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SceneID, &r.Source, &r.Transcript, &r.ResultJSON, &r.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// CountRuns returns the total number of archived runs, optionally filtered
// by scene.
func CountRuns(ctx context.Context, db *sql.DB, sceneID string) (int, error) {
	query := "SELECT COUNT(*) FROM runs"
	var args []any
	if sceneID != "" {
		query += " WHERE scene_id = ?"
		args = append(args, sceneID)
	}

	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}
