// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache maps (jurisdiction, query-fingerprint) pairs to previously
// verified statute records. Implements: prd001-cache (R1-R4);
//
//	docs/ARCHITECTURE § Cache Gateway.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/pkg/types"
)

const defaultMinStoreConfidence = 80

// Gateway is a read-through cache over a SQLite backing store. Lookup
// failures degrade to a miss and store failures are logged, never raised:
// the backing store is best-effort by contract (R4).
type Gateway struct {
	db            *sql.DB
	minConfidence int
	logger        *zap.Logger

	// wg tracks detached store goroutines so Close can drain them.
	wg sync.WaitGroup
}

// New opens or creates the cache database at cfg.Path and ensures the
// schema exists (R1.1).
func New(cfg types.CacheConfig, logger *zap.Logger) (*Gateway, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "statute-cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	minConfidence := cfg.MinStoreConfidence
	if minConfidence <= 0 {
		minConfidence = defaultMinStoreConfidence
	}

	g := &Gateway{
		db:            db,
		minConfidence: minConfidence,
		logger:        logger,
	}

	if err := g.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return g, nil
}

// Close drains in-flight store writes and releases the database.
func (g *Gateway) Close() error {
	g.wg.Wait()
	return g.db.Close()
}

// Flush blocks until all detached store writes have settled.
func (g *Gateway) Flush() {
	g.wg.Wait()
}

func (g *Gateway) createSchema() error {
	_, err := g.db.Exec(`CREATE TABLE IF NOT EXISTS statute_cache (
		jurisdiction TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		citation TEXT NOT NULL,
		text_snippet TEXT,
		effective_date TEXT,
		confidence_score INTEGER NOT NULL,
		trust_level TEXT NOT NULL,
		source_url TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (jurisdiction, fingerprint)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Lookup returns the cached record for (jurisdiction, fingerprint), or
// ok=false on a miss. Any backing-store error is logged and reported as a
// miss (R4.1).
func (g *Gateway) Lookup(ctx context.Context, code types.JurisdictionCode, fp string) (*types.StatuteRecord, bool) {
	var rec types.StatuteRecord
	err := g.db.QueryRowContext(ctx,
		`SELECT jurisdiction, citation, text_snippet, effective_date,
		        confidence_score, trust_level, source_url
		 FROM statute_cache WHERE jurisdiction = ? AND fingerprint = ?`,
		string(code), fp,
	).Scan(&rec.Jurisdiction, &rec.Citation, &rec.TextSnippet, &rec.EffectiveDate,
		&rec.ConfidenceScore, &rec.TrustLevel, &rec.SourceURL)

	switch {
	case err == sql.ErrNoRows:
		return nil, false
	case err != nil:
		g.logger.Warn("cache lookup failed, treating as miss",
			zap.String("jurisdiction", string(code)),
			zap.String("fingerprint", fp),
			zap.Error(err))
		return nil, false
	}
	return &rec, true
}

// Store upserts the record under (jurisdiction, fingerprint) as a detached
// background write. It never blocks the caller and never surfaces an
// error; failures are logged (R3.2). Records at or below the confidence
// threshold are skipped to keep low-confidence extractions out of the
// cache (R3.1).
func (g *Gateway) Store(record types.StatuteRecord, fp string) {
	if record.ConfidenceScore <= g.minConfidence {
		g.logger.Debug("cache store skipped below confidence threshold",
			zap.String("jurisdiction", string(record.Jurisdiction)),
			zap.Int("confidence", record.ConfidenceScore),
			zap.Int("threshold", g.minConfidence))
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := g.upsert(record, fp); err != nil {
			g.logger.Warn("cache store failed",
				zap.String("jurisdiction", string(record.Jurisdiction)),
				zap.String("fingerprint", fp),
				zap.Error(err))
		}
	}()
}

func (g *Gateway) upsert(record types.StatuteRecord, fp string) error {
	_, err := g.db.Exec(
		`INSERT INTO statute_cache (jurisdiction, fingerprint, citation, text_snippet,
		        effective_date, confidence_score, trust_level, source_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(jurisdiction, fingerprint) DO UPDATE SET
			citation=excluded.citation, text_snippet=excluded.text_snippet,
			effective_date=excluded.effective_date, confidence_score=excluded.confidence_score,
			trust_level=excluded.trust_level, source_url=excluded.source_url,
			updated_at=excluded.updated_at`,
		string(record.Jurisdiction), fp, record.Citation, record.TextSnippet,
		record.EffectiveDate, record.ConfidenceScore, string(record.TrustLevel),
		record.SourceURL, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Entry is one cache row, for admin inspection.
type Entry struct {
	Record      types.StatuteRecord `json:"record" yaml:"record"`
	Fingerprint string              `json:"fingerprint" yaml:"fingerprint"`
	UpdatedAt   string              `json:"updated_at" yaml:"updated_at"`
}

// List returns all cache rows ordered by jurisdiction then fingerprint.
func (g *Gateway) List(ctx context.Context) ([]Entry, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT jurisdiction, fingerprint, citation, text_snippet, effective_date,
		        confidence_score, trust_level, source_url, updated_at
		 FROM statute_cache ORDER BY jurisdiction, fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Record.Jurisdiction, &e.Fingerprint, &e.Record.Citation,
			&e.Record.TextSnippet, &e.Record.EffectiveDate, &e.Record.ConfidenceScore,
			&e.Record.TrustLevel, &e.Record.SourceURL, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every cache row and returns the number removed.
func (g *Gateway) Clear(ctx context.Context) (int64, error) {
	res, err := g.db.ExecContext(ctx, `DELETE FROM statute_cache`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
