package scope

import "time"

// Entity is a row owned by exactly one tenant.
type Entity interface {
	PrimaryKey() int64
	SetPrimaryKey(id int64)
	OwnerID() int64
	SetOwner(tenantID int64)
}

// Owned is embedded by tenant-owned entities to opt into scoping.
type Owned struct {
	TenantID int64 `json:"tenant_id" db:"tenant_id"`
}

// OwnerID returns the owning tenant id, or 0 if unset.
func (o *Owned) OwnerID() int64 { return o.TenantID }

// SetOwner assigns the owning tenant.
func (o *Owned) SetOwner(tenantID int64) { o.TenantID = tenantID }

// Timestamps is embedded by entities with created_at/updated_at columns.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Touch sets UpdatedAt, and CreatedAt as well when created is true.
func (t *Timestamps) Touch(now time.Time, created bool) {
	if created {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// Created returns CreatedAt.
func (t *Timestamps) Created() time.Time { return t.CreatedAt }

type toucher interface {
	Touch(now time.Time, created bool)
	Created() time.Time
}
