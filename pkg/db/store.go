package db

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Store receives finished probe documents keyed by a stable id, so
// re-running a scan upserts instead of duplicating.
type Store interface {
	Push(docid string, doc []byte) error
	Close() error
}

// NewStore builds a store from a DSN of the form url+database+collection.
func NewStore(dsn string) (Store, error) {
	parts := strings.Split(dsn, "+")
	if len(parts) != 3 {
		return nil, errors.Errorf("invalid db output %q, want url+db+collection", dsn)
	}
	u, err := url.Parse(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid db url")
	}
	switch u.Scheme {
	case "mongodb":
		return NewMongoStore(parts[0], parts[1], parts[2])
	default:
		return nil, errors.Errorf("unsupported db scheme %q", u.Scheme)
	}
}
