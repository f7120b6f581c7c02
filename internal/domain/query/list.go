package query

import (
	"context"
	"fmt"

	"babytracker/internal/domain/record"
)

// Source - хранилище, из которого читаются документы.
type Source interface {
	ListAll(ctx context.Context, c record.Collection) ([]record.Document, error)
	ListByProfile(ctx context.Context, c record.Collection, babyID int64) ([]record.Document, error)
}

// List загружает события профиля, декодирует их в T и применяет Apply.
func List[T any, E interface {
	*T
	record.Entry
}](ctx context.Context, src Source, profileID int64, opts Options) ([]E, error) {
	var probe T
	c := E(&probe).Collection()

	docs, err := src.ListByProfile(ctx, c, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c, err)
	}

	items := make([]E, 0, len(docs))
	for _, doc := range docs {
		item := E(new(T))
		if err := doc.Into(item); err != nil {
			return nil, fmt.Errorf("failed to decode %s %d: %w", c, doc.ID(), err)
		}
		items = append(items, item)
	}

	return Apply(items, profileID, opts, EntryKeys[E]()), nil
}

// Last возвращает самое свежее событие профиля или nil.
func Last[T any, E interface {
	*T
	record.Entry
}](ctx context.Context, src Source, profileID int64) (E, error) {
	var zero E
	items, err := List[T, E](ctx, src, profileID, Options{Limit: 1})
	if err != nil || len(items) == 0 {
		return zero, err
	}
	return items[0], nil
}

// Profiles возвращает все профили в порядке создания.
func Profiles(ctx context.Context, src Source) ([]*record.Profile, error) {
	docs, err := src.ListAll(ctx, record.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	result := make([]*record.Profile, 0, len(docs))
	for _, doc := range docs {
		p := &record.Profile{}
		if err := doc.Into(p); err != nil {
			return nil, fmt.Errorf("failed to decode profile %d: %w", doc.ID(), err)
		}
		result = append(result, p)
	}
	return result, nil
}
