package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/CWALabs/SkyCMS-sub002/internal/database"
	"github.com/CWALabs/SkyCMS-sub002/internal/models"
)

// tenantRepo is the concrete implementation of TenantRepository, backed by
// the directory database rather than a tenant schema.
type tenantRepo struct {
	db *database.DB
}

// NewTenantRepo creates a new tenant directory repository
func NewTenantRepo(db *database.DB) TenantRepository {
	return &tenantRepo{db: db}
}

// ListDomains retrieves every domain name registered in the directory
func (r *tenantRepo) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT unnest(domain_names) FROM tenants ORDER BY 1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

// GetByDomain retrieves the connection record answering for a domain, nil
// when no tenant claims it. Callers normalize the domain to lowercase before
// lookup; the query lowercases stored values too in case directory rows were
// seeded by hand.
func (r *tenantRepo) GetByDomain(ctx context.Context, domain string) (*models.Connection, error) {
	query := `
		SELECT id, domain_names, dsn, storage_dsn, publisher_url, static_mode, require_auth
		FROM tenants
		WHERE $1 = ANY(SELECT LOWER(d) FROM unnest(domain_names) AS d)
	`

	var conn models.Connection
	err := r.db.QueryRowContext(ctx, query, domain).Scan(
		&conn.ID, pq.Array(&conn.DomainNames), &conn.DSN, &conn.StorageDSN,
		&conn.PublisherURL, &conn.StaticMode, &conn.RequireAuth,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}
