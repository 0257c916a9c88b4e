package admin

import "github.com/sujalbistaa/secretos/internal/cache"

// Registry keeps one Table per administrator so that pending marks and
// notifications survive between that administrator's requests.
type Registry struct {
	backend Backend
	tables  *cache.TTLCache[uint, *Table]
}

func NewRegistry(backend Backend, tables *cache.TTLCache[uint, *Table]) *Registry {
	return &Registry{backend: backend, tables: tables}
}

// Table returns the table of the session's administrator, creating it on
// first use.
func (r *Registry) Table(s *Session) *Table {
	return r.tables.GetOrSet(s.UserID, func() *Table { return NewTable(r.backend) })
}
