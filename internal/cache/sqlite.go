package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/crewtools/pairings-tracker/internal/entity"
)

// SQLiteStore persists cache entries in a single SQLite file under the
// configured cache directory, readable across process restarts. Payloads
// are zstd-compressed JSON. Unbounded by default; eviction is explicit.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	log    *slog.Logger
	schema *jsonschema.Schema
	enc    *zstd.Encoder
	dec    *zstd.Decoder

	// writes serializes stores per digest so a concurrent lookup never
	// observes a half-written row.
	writes singleflight.Group
}

// NewSQLiteStore opens (creating if needed) the cache database in dir.
func NewSQLiteStore(dir string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	path := filepath.Join(dir, "pairings-cache.db")

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_entries (
			digest         TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			payload        BLOB NOT NULL,
			created_at     TIMESTAMP NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	schema, err := compilePayloadSchema()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	return &SQLiteStore{db: db, path: path, log: logger, schema: schema, enc: enc, dec: dec}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Lookup returns the stored result for a digest. Anything unusable (a
// missing row, a stale schema version, a payload that fails decompression
// or validation) reads as ErrCacheMiss so the caller re-parses.
func (s *SQLiteStore) Lookup(ctx context.Context, digest string) (entity.ParseResult, error) {
	var version int
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT schema_version, payload FROM cache_entries WHERE digest = ?`, digest,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ParseResult{}, ErrCacheMiss
	}
	if err != nil {
		return entity.ParseResult{}, fmt.Errorf("lookup %s: %w", digest, err)
	}

	if version != SchemaVersion {
		s.log.Info("cache entry schema-stale", "digest", digest, "entry_version", version, "current_version", SchemaVersion)
		return entity.ParseResult{}, ErrCacheMiss
	}

	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		s.log.Warn("cache payload unreadable, evicting", "digest", digest, "error", err)
		_ = s.Evict(ctx, digest)
		return entity.ParseResult{}, ErrCacheMiss
	}
	if err := validatePayload(s.schema, raw); err != nil {
		s.log.Warn("cache payload invalid, evicting", "digest", digest, "error", err)
		_ = s.Evict(ctx, digest)
		return entity.ParseResult{}, ErrCacheMiss
	}

	var res entity.ParseResult
	if err := sonic.Unmarshal(raw, &res); err != nil {
		s.log.Warn("cache payload undecodable, evicting", "digest", digest, "error", err)
		_ = s.Evict(ctx, digest)
		return entity.ParseResult{}, ErrCacheMiss
	}
	return res, nil
}

// Put serializes, compresses and upserts the result for a digest,
// replacing any stale-version entry. The row is written in one statement,
// so readers only ever see complete entries.
func (s *SQLiteStore) Put(ctx context.Context, digest string, res entity.ParseResult) error {
	_, err, _ := s.writes.Do(digest, func() (any, error) {
		raw, err := sonic.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
		payload := s.enc.EncodeAll(raw, nil)

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO cache_entries (digest, schema_version, payload, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(digest) DO UPDATE SET
				schema_version = excluded.schema_version,
				payload        = excluded.payload,
				created_at     = excluded.created_at
		`, digest, SchemaVersion, payload, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", digest, err)
		}

		s.log.Debug("cache entry stored", "digest", digest, "raw_bytes", len(raw), "compressed_bytes", len(payload))
		return nil, nil
	})
	return err
}

// Evict removes the entry for a digest, if any.
func (s *SQLiteStore) Evict(ctx context.Context, digest string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE digest = ?`, digest)
	if err != nil {
		return fmt.Errorf("evict %s: %w", digest, err)
	}
	return nil
}

// PurgeStale removes every entry whose schema version is not current and
// reports how many were dropped.
func (s *SQLiteStore) PurgeStale(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE schema_version != ?`, SchemaVersion)
	if err != nil {
		return 0, fmt.Errorf("purge stale entries: %w", err)
	}
	return res.RowsAffected()
}

// Entries lists stored entries, newest first.
func (s *SQLiteStore) Entries(ctx context.Context) ([]EntryInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, schema_version, length(payload), created_at
		FROM cache_entries ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []EntryInfo
	for rows.Next() {
		var e EntryInfo
		if err := rows.Scan(&e.Digest, &e.SchemaVersion, &e.PayloadBytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database and codec resources.
func (s *SQLiteStore) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.log.Warn("close zstd encoder", "error", err)
	}
	return s.db.Close()
}
