package repository

import (
	"context"
	"database/sql"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// reservedPathRepo is the concrete implementation of ReservedPathRepository
type reservedPathRepo struct {
	db *database.DB
}

// NewReservedPathRepo creates a new reserved path repository
func NewReservedPathRepo(db *database.DB) ReservedPathRepository {
	return &reservedPathRepo{db: db}
}

// List retrieves every reserved path entry
func (r *reservedPathRepo) List(ctx context.Context) ([]models.ReservedPath, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT path, cosmos_required, notes FROM reserved_paths ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []models.ReservedPath
	for rows.Next() {
		var p models.ReservedPath
		if err := rows.Scan(&p.Path, &p.CosmosRequired, &p.Notes); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Get retrieves a single entry by its path, nil when absent. Paths compare
// case-insensitively.
func (r *reservedPathRepo) Get(ctx context.Context, path string) (*models.ReservedPath, error) {
	var p models.ReservedPath
	err := r.db.QueryRowContext(ctx,
		"SELECT path, cosmos_required, notes FROM reserved_paths WHERE LOWER(path) = LOWER($1)",
		path,
	).Scan(&p.Path, &p.CosmosRequired, &p.Notes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or updates an entry keyed by path
func (r *reservedPathRepo) Upsert(ctx context.Context, p models.ReservedPath) error {
	query := `
		INSERT INTO reserved_paths (path, cosmos_required, notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET
			cosmos_required = EXCLUDED.cosmos_required,
			notes = EXCLUDED.notes
	`
	_, err := r.db.ExecContext(ctx, query, p.Path, p.CosmosRequired, p.Notes)
	return err
}

// Delete removes an entry by path
func (r *reservedPathRepo) Delete(ctx context.Context, path string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM reserved_paths WHERE LOWER(path) = LOWER($1)", path)
	return err
}

// Count returns the number of stored entries
func (r *reservedPathRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reserved_paths").Scan(&count)
	return count, err
}
