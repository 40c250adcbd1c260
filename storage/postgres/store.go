// Package postgres loads embedded articles into PostgreSQL with pgvector
// and queries them by cosine distance.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage"
)

// ErrDimensionMismatch indicates an embedding that does not fit the vector column.
var ErrDimensionMismatch = errors.New("embedding does not match vector column")

// Store is a pgvector-backed storage.VectorStore.
type Store struct {
	cfg    Config
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{
		cfg:    cfg,
		pool:   pool,
		logger: slog.Default().With("component", "pgvector-store", "table", cfg.Table),
	}, nil
}

// EnsureSchema creates the vector extension, the articles table and its
// ivfflat cosine index. Safe to run repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl, err := renderSchema(s.cfg)
	if err != nil {
		return fmt.Errorf("render schema: %w", err)
	}
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	s.logger.Info("schema ready", "dimensions", s.cfg.Dimensions, "lists", s.cfg.Lists)
	return nil
}

// Load upserts every embedded article of table in batches.
// Articles without an embedding are skipped. An embedding whose length
// differs from the column size aborts the load before anything is sent.
func (s *Store) Load(ctx context.Context, table *core.Table) (int, int, error) {
	var rows []*core.Article
	skipped := 0
	for _, a := range table.Articles() {
		if !a.Embedded() {
			skipped++
			continue
		}
		if err := core.ValidateDimensions(a.Embedding, s.cfg.Dimensions); err != nil {
			return 0, skipped, fmt.Errorf("%w: article %d: %w", ErrDimensionMismatch, a.Id, err)
		}
		rows = append(rows, a)
	}

	upsert := fmt.Sprintf(`
		INSERT INTO %s (id, url, title, author, category, date_iso, body, date_from_url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			category = EXCLUDED.category,
			date_iso = EXCLUDED.date_iso,
			body = EXCLUDED.body,
			date_from_url = EXCLUDED.date_from_url,
			embedding = EXCLUDED.embedding`,
		pgx.Identifier{s.cfg.Table}.Sanitize())

	written := 0
	for start := 0; start < len(rows); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(rows))

		batch := &pgx.Batch{}
		for _, a := range rows[start:end] {
			batch.Queue(upsert,
				int64(a.Id), nullable(a.URL), a.Title, nullable(a.Author), nullable(a.Category),
				nullable(a.DateISO), a.Body, nullable(a.DateFromURL),
				pgvector.NewVector(a.Embedding))
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return written, skipped, fmt.Errorf("upsert rows %d-%d: %w", start, end-1, err)
		}
		written += end - start
		s.logger.Debug("upserted batch", "rows", end-start, "written", written)
	}

	s.logger.Info("load complete", "written", written, "skipped", skipped)
	return written, skipped, nil
}

// FindSimilar returns up to limit articles ordered by cosine distance to vec.
// Score is the cosine similarity (1 - distance).
func (s *Store) FindSimilar(ctx context.Context, vec core.Vector, limit int) ([]*core.Match, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	if err := core.ValidateDimensions(vec, s.cfg.Dimensions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}

	query := fmt.Sprintf(`
		SELECT id, COALESCE(url, ''), COALESCE(title, ''), COALESCE(author, ''),
			COALESCE(category, ''), COALESCE(body, ''), 1 - (embedding <=> $1)
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgx.Identifier{s.cfg.Table}.Sanitize())

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, fmt.Errorf("query similar articles: %w", err)
	}
	defer rows.Close()

	var matches []*core.Match
	for rows.Next() {
		var (
			id    int64
			a     core.Article
			score float64
		)
		if err := rows.Scan(&id, &a.URL, &a.Title, &a.Author, &a.Category, &a.Body, &score); err != nil {
			return nil, fmt.Errorf("scan similar article: %w", err)
		}
		a.Id = core.ID(id)
		matches = append(matches, &core.Match{Article: &a, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar articles: %w", err)
	}
	return matches, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// nullable maps empty optional text to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
