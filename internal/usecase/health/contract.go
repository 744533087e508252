package health

import "context"

// DBPinger checks primary-store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SearchPinger checks search-backend availability.
type SearchPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
