package models

// Connection describes one tenant: the domains it answers to, its isolated
// database and storage connections, and per-tenant settings. Immutable once
// loaded for the lifetime of a cache entry.
type Connection struct {
	ID           string   `json:"id" db:"id"`
	DomainNames  []string `json:"domain_names" db:"domain_names"`
	DSN          string   `json:"dsn" db:"dsn"`
	StorageDSN   string   `json:"storage_dsn" db:"storage_dsn"`
	PublisherURL string   `json:"publisher_url" db:"publisher_url"`
	StaticMode   bool     `json:"static_mode" db:"static_mode"`
	RequireAuth  bool     `json:"require_auth" db:"require_auth"`
}
