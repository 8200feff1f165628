package models

// ReservedPath is a route prefix content may never claim. Path is either an
// exact path or a trailing-wildcard pattern ("pub/*"). Entries flagged
// CosmosRequired are system defaults and cannot be modified or removed.
type ReservedPath struct {
	Path           string `json:"path" db:"path"`
	CosmosRequired bool   `json:"cosmos_required" db:"cosmos_required"`
	Notes          string `json:"notes" db:"notes"`
}
