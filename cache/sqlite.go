package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/letmevibethatforyou/discussx"
)

// SQLite is a Store persisted in a SQLite file, so separate CLI invocations
// and local servers share results.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite cache")
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite cache")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate sqlite cache")
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key string) ([]discussx.Record, bool, error) {
	var (
		payload   string
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Mark(errors.Wrapf(err, "read cache key %s", key), discussx.ErrCacheUnavailable)
	}
	if s.now().UnixMilli() >= expiresAt {
		return nil, false, nil
	}

	var records []discussx.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, errors.Mark(errors.Wrapf(err, "decode cache key %s", key), discussx.ErrCacheUnavailable)
	}
	return records, true, nil
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, key string, records []discussx.Record, ttl time.Duration) error {
	if records == nil {
		records = []discussx.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, payload, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, string(payload), now.Add(ttl).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "write cache key %s", key), discussx.ErrCacheUnavailable)
	}
	return nil
}
