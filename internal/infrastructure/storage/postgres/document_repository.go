package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/sync"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) *DocumentRepository {
	return &DocumentRepository{
		pool: pool,
		log:  log.With("component", "document_repository"),
	}
}

func (r *DocumentRepository) Name() string {
	return "postgres"
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Upsert вставляет документ или перезаписывает его, если checksum изменился.
// Отсутствие строки в RETURNING означает, что документ не изменился.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *sync.Document) (sync.Status, error) {
	const query = `
		INSERT INTO documents (collection, id, data, checksum, received_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, checksum = EXCLUDED.checksum, updated_at = EXCLUDED.updated_at
		WHERE documents.checksum <> EXCLUDED.checksum
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		doc.Collection.String(), doc.ID, string(doc.Data), doc.Checksum, doc.ReceivedAt, doc.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sync.StatusUnchanged, nil
		}
		r.log.Error("failed to upsert document",
			"collection", doc.Collection.String(), "id", doc.ID, "error", err)
		return "", fmt.Errorf("upsert document: %w", err)
	}

	if inserted {
		return sync.StatusCreated, nil
	}
	return sync.StatusUpdated, nil
}

func (r *DocumentRepository) List(ctx context.Context, c record.Collection, limit int) ([]*sync.Document, error) {
	const query = `
		SELECT id, data, checksum, received_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, c.String(), limit)
	if err != nil {
		r.log.Error("failed to list documents", "collection", c.String(), "error", err)
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*sync.Document, 0, limit)
	for rows.Next() {
		doc := &sync.Document{Collection: c}
		var data []byte
		if err := rows.Scan(&doc.ID, &data, &doc.Checksum, &doc.ReceivedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
