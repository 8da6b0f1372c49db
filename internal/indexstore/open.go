package indexstore

import (
	"fmt"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

// Backend names accepted by Open.
const (
	BackendText   = backendText
	BackendSQLite = backendSQLite
)

// Options selects and configures a Store backend.
type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	CacheSize   int
	LockRetries int
}

// Open creates the Store named by opts.Backend. An empty backend selects the
// text backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendText:
		retry := crackerrors.DefaultRetryConfig()
		if opts.LockRetries > 0 {
			retry.MaxRetries = opts.LockRetries
		}
		return NewFileStore(FileOptions{
			Dir:       opts.Dir,
			CacheSize: opts.CacheSize,
			Retry:     retry,
		}), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	default:
		return nil, crackerrors.ConfigError(fmt.Sprintf("unknown index backend %q", opts.Backend), nil).
			WithSuggestion("Use 'text' or 'sqlite' for index.backend")
	}
}
