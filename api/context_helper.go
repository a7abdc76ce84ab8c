package api

import (
	"context"
	"time"
)

// QueryTimeout bounds the moderator and archive lookups so a slow database
// cannot hold an auth request open
const QueryTimeout = 10 * time.Second

// WithQueryTimeout derives a context capped at QueryTimeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

