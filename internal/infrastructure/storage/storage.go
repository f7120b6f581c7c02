package storage

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"babytracker/internal/domain/sync"
	"babytracker/internal/infrastructure/storage/memory"
	"babytracker/internal/infrastructure/storage/postgres"
)

// Open выбирает хранилище документов: PostgreSQL, если задан databaseURI,
// иначе память процесса. Возвращаемая функция освобождает ресурсы хранилища.
func Open(ctx context.Context, databaseURI string, log *slog.Logger) (sync.Repository, func() error, error) {
	if databaseURI == "" {
		log.Warn("DATABASE_URI не задан, документы хранятся в памяти")
		return memory.NewDocumentRepository(), func() error { return nil }, nil
	}

	db, err := postgres.New(ctx, databaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open postgres storage: %w", err)
	}
	return postgres.NewDocumentRepository(db.Pool(), log), db.Close, nil
}
