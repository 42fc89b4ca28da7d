package query

import (
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

var ErrUnscoped = errors.New("predicate is not scoped to a tenant")

// Predicate is a WHERE clause whose first condition is always the tenant
// condition. The zero value renders an error instead of SQL, so a statement
// can only be built from a Predicate obtained through ForTenant or Compile.
type Predicate struct {
	tenantColumn Column
	tenant       string
	// bound is the value compared with tenantColumn. It is tenant itself
	// unless the predicate was built by ForTenantID.
	bound any
	conds []sq.Sqlizer
}

// ForTenant returns a predicate holding only "<tenantColumn> = ?".
func ForTenant(tenantColumn Column, tenant string) (Predicate, error) {
	if tenant == "" || tenantColumn == "" {
		return Predicate{}, ErrUnscoped
	}
	return Predicate{tenantColumn: tenantColumn, tenant: tenant, bound: tenant}, nil
}

// ForTenantID is ForTenant for tables keyed by a numeric company id.
func ForTenantID(tenantColumn Column, id int64) (Predicate, error) {
	if id <= 0 || tenantColumn == "" {
		return Predicate{}, ErrUnscoped
	}
	return Predicate{tenantColumn: tenantColumn, tenant: strconv.FormatInt(id, 10), bound: id}, nil
}

// And returns a copy of p with conds appended after the existing conditions.
func (p Predicate) And(conds ...sq.Sqlizer) Predicate {
	merged := make([]sq.Sqlizer, 0, len(p.conds)+len(conds))
	merged = append(merged, p.conds...)
	for _, c := range conds {
		if c != nil {
			merged = append(merged, c)
		}
	}
	p.conds = merged
	return p
}

func (p Predicate) Tenant() string {
	return p.tenant
}

// ToSql implements squirrel.Sqlizer.
func (p Predicate) ToSql() (string, []any, error) {
	if p.tenant == "" {
		return "", nil, ErrUnscoped
	}
	and := make(sq.And, 0, len(p.conds)+1)
	and = append(and, sq.Eq{string(p.tenantColumn): p.bound})
	and = append(and, p.conds...)
	return and.ToSql()
}
