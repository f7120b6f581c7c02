package memory

import (
	"context"
	"sort"
	gosync "sync"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/sync"
)

type key struct {
	collection record.Collection
	id         int64
}

// DocumentRepository хранит документы в памяти процесса. Используется,
// когда база данных не настроена.
type DocumentRepository struct {
	mu   gosync.RWMutex
	docs map[key]*sync.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{docs: make(map[key]*sync.Document)}
}

func (r *DocumentRepository) Name() string {
	return "memory"
}

func (r *DocumentRepository) Ping(context.Context) error {
	return nil
}

func (r *DocumentRepository) Upsert(_ context.Context, doc *sync.Document) (sync.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{doc.Collection, doc.ID}
	existing, ok := r.docs[k]
	if !ok {
		stored := *doc
		r.docs[k] = &stored
		return sync.StatusCreated, nil
	}
	if existing.Checksum == doc.Checksum {
		return sync.StatusUnchanged, nil
	}

	updated := *doc
	updated.ReceivedAt = existing.ReceivedAt
	r.docs[k] = &updated
	return sync.StatusUpdated, nil
}

func (r *DocumentRepository) List(_ context.Context, c record.Collection, limit int) ([]*sync.Document, error) {
	r.mu.RLock()
	docs := make([]*sync.Document, 0)
	for k, doc := range r.docs {
		if k.collection == c {
			cp := *doc
			docs = append(docs, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}
