package sync

import (
	"context"

	"babytracker/internal/domain/record"
)

// Repository - хранилище документов на сервере.
type Repository interface {
	// Upsert сохраняет документ по ключу (Collection, ID). Документ с тем же
	// checksum не перезаписывается и дает StatusUnchanged.
	Upsert(ctx context.Context, doc *Document) (Status, error)
	// List возвращает документы коллекции, последние измененные первыми.
	List(ctx context.Context, c record.Collection, limit int) ([]*Document, error)
	Ping(ctx context.Context) error
	// Name - тип хранилища для ответа health.
	Name() string
}
