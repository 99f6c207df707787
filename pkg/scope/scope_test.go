package scope_test

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/scope"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type note struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
	Slug  string `db:"slug"`
	scope.Owned
	scope.Timestamps
}

func (n *note) PrimaryKey() int64      { return n.ID }
func (n *note) SetPrimaryKey(id int64) { n.ID = id }

var notesTable = scope.Table[*note]{
	Name: "notes",
	Values: func(n *note) map[string]any {
		return map[string]any{
			"title":     n.Title,
			"slug":      n.Slug,
			"tenant_id": n.TenantID,
		}
	},
	Unique:     [][]string{{"slug"}},
	Timestamps: true,
}

func newNotes() (*scope.MemoryStore[note, *note], *scope.Repository[*note]) {
	store := scope.NewMemoryStore[note](notesTable)
	return store, scope.NewRepository[*note](store, scope.NewFilter())
}

func company(id int64) *tenant.Tenant {
	return &tenant.Tenant{ID: id, Name: "company", CreatedAt: time.Now()}
}

// within runs fn with the given tenant active.
func within(ctx context.Context, id int64, fn func(ctx context.Context) error) error {
	return tenant.Run(ctx, company(id), fn)
}
