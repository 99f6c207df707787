package user

import "github.com/dmitrymomot/tenantkit/pkg/scope"

// User belongs to exactly one company.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	scope.Owned
	scope.Timestamps
}

func (u *User) PrimaryKey() int64      { return u.ID }
func (u *User) SetPrimaryKey(id int64) { u.ID = id }

// Table maps User onto the users table. Email is unique across companies
// so that login can find a user without knowing the tenant.
var Table = scope.Table[*User]{
	Name: "users",
	Values: func(u *User) map[string]any {
		return map[string]any{
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"tenant_id":     u.TenantID,
		}
	},
	Unique:     [][]string{{"email"}},
	Timestamps: true,
}

// NewMemoryStore returns an in-memory users store.
func NewMemoryStore() *scope.MemoryStore[User, *User] {
	return scope.NewMemoryStore[User](Table)
}

// NewPgStore returns a users store over db.
func NewPgStore(db scope.DBTX) *scope.PgStore[User, *User] {
	return scope.NewPgStore[User](db, Table)
}
