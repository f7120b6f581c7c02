package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babytracker/internal/domain/record"
	"babytracker/internal/domain/sync"
)

func doc(c record.Collection, id int64, sum string, at time.Time) *sync.Document {
	return &sync.Document{
		Collection: c,
		ID:         id,
		Data:       json.RawMessage(`{}`),
		Checksum:   sum,
		ReceivedAt: at,
		UpdatedAt:  at,
	}
}

func TestDocumentRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository()
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	status, err := repo.Upsert(ctx, doc(record.Feeds, 1, "a", t0))
	require.NoError(t, err)
	assert.Equal(t, sync.StatusCreated, status)

	status, err = repo.Upsert(ctx, doc(record.Feeds, 1, "a", t0.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, sync.StatusUnchanged, status)

	status, err = repo.Upsert(ctx, doc(record.Feeds, 1, "b", t0.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, sync.StatusUpdated, status)

	// тот же id в другой коллекции - другой документ
	status, err = repo.Upsert(ctx, doc(record.Diapers, 1, "b", t0))
	require.NoError(t, err)
	assert.Equal(t, sync.StatusCreated, status)

	docs, err := repo.List(ctx, record.Feeds, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Checksum)
	assert.Equal(t, t0, docs[0].ReceivedAt)
	assert.Equal(t, t0.Add(2*time.Minute), docs[0].UpdatedAt)
}

func TestDocumentRepository_ListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository()
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	for _, d := range []*sync.Document{
		doc(record.Sleeps, 1, "1", t0),
		doc(record.Sleeps, 2, "2", t0.Add(time.Hour)),
		doc(record.Sleeps, 3, "3", t0),
	} {
		_, err := repo.Upsert(ctx, d)
		require.NoError(t, err)
	}

	docs, err := repo.List(ctx, record.Sleeps, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, int64(2), docs[0].ID)
	assert.Equal(t, int64(3), docs[1].ID)

	empty, err := repo.List(ctx, record.Visits, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
