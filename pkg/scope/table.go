package scope

// Table describes how an entity maps onto its table.
type Table[T Entity] struct {
	Name string
	// Values returns the writable columns of e, tenant_id included and
	// id and timestamps excluded.
	Values func(e T) map[string]any
	// Unique lists column sets that must be unique across all tenants.
	// Only MemoryStore enforces it; Postgres relies on its own indexes.
	Unique [][]string
	// Timestamps enables created_at/updated_at maintenance.
	Timestamps bool
}
