package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"babytracker/internal/domain/record"
	"babytracker/internal/infrastructure/tracing"
	"babytracker/internal/utils/logger"
)

// MockRemote - мок сервера синхронизации
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRemote) Push(ctx context.Context, c record.Collection, doc record.Document) error {
	args := m.Called(ctx, c, doc.ID())
	return args.Error(0)
}

func newTestSync(t *testing.T, store SyncStore, remote Remote) (*SyncService, *Metrics) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewSyncService(store, remote, logger.Discard(), metrics, tracing.Noop()), metrics
}

func unsynced(t *testing.T, s Storage, c record.Collection) []int64 {
	t.Helper()
	pending, err := s.ListUnsynced(context.Background(), c)
	require.NoError(t, err)
	ids := make([]int64, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestSync_PushesAndMarksOnce(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	baby := createProfile(t, store, "Mia")
	feed := createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: time.Now()})

	remote := new(MockRemote)
	remote.On("Health", mock.Anything).Return(nil)
	remote.On("Push", mock.Anything, record.Profiles, baby).Return(nil).Once()
	remote.On("Push", mock.Anything, record.Feeds, feed).Return(nil).Once()

	svc, metrics := newTestSync(t, store, remote)

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, result.Aborted)
	assert.Equal(t, 2, result.Pushed())
	assert.Empty(t, result.Failed())
	assert.Empty(t, unsynced(t, store, record.Feeds))
	assert.Empty(t, unsynced(t, store, record.Profiles))

	// второй цикл ничего не отправляет
	result, err = svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Pushed())
	remote.AssertExpectations(t)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Cycles.WithLabelValues(outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Pushed.WithLabelValues("feeds")))

	// изменение снова делает запись кандидатом на отправку
	require.NoError(t, store.Update(ctx, record.Feeds, feed, map[string]any{"notes": "more"}))
	remote.On("Push", mock.Anything, record.Feeds, feed).Return(nil).Once()

	result, err = svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pushed())
	remote.AssertExpectations(t)
}

func TestSync_StopsCollectionOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	baby := createProfile(t, store, "Mia")
	at := time.Now()

	a := createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: at})
	b := createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: at})
	c := createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: at})
	diaper := createEntry(t, store, &record.Diaper{BabyID: baby, Type: record.DiaperWet, At: at})

	remote := new(MockRemote)
	remote.On("Health", mock.Anything).Return(nil)
	remote.On("Push", mock.Anything, record.Profiles, baby).Return(nil)
	remote.On("Push", mock.Anything, record.Feeds, a).Return(nil).Once()
	remote.On("Push", mock.Anything, record.Feeds, b).Return(&PushError{Collection: record.Feeds, ID: b, Status: 500}).Once()
	remote.On("Push", mock.Anything, record.Diapers, diaper).Return(nil).Once()

	svc, metrics := newTestSync(t, store, remote)

	result, err := svc.Sync(ctx)
	require.NoError(t, err)

	remote.AssertNotCalled(t, "Push", mock.Anything, record.Feeds, c)
	remote.AssertExpectations(t)

	assert.Equal(t, []int64{b, c}, unsynced(t, store, record.Feeds))
	assert.Empty(t, unsynced(t, store, record.Diapers))

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, record.Feeds, failed[0].Collection)
	assert.True(t, errors.Is(failed[0].Err, ErrPushRejected))
	assert.Equal(t, 1, failed[0].Pushed)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Cycles.WithLabelValues(outcomePartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PushFailures.WithLabelValues("feeds")))
}

func TestSync_DiaperFailureDoesNotBlockFeeds(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	baby := createProfile(t, store, "Mia")
	at := time.Now()

	d1 := createEntry(t, store, &record.Diaper{BabyID: baby, Type: record.DiaperWet, At: at})
	d2 := createEntry(t, store, &record.Diaper{BabyID: baby, Type: record.DiaperDirty, At: at})
	feed := createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: at})

	remote := new(MockRemote)
	remote.On("Health", mock.Anything).Return(nil)
	remote.On("Push", mock.Anything, record.Profiles, baby).Return(nil)
	remote.On("Push", mock.Anything, record.Feeds, feed).Return(nil).Once()
	remote.On("Push", mock.Anything, record.Diapers, d1).Return(&PushError{Collection: record.Diapers, ID: d1, Status: http.StatusInternalServerError}).Once()

	svc, _ := newTestSync(t, store, remote)
	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int64{d1, d2}, unsynced(t, store, record.Diapers))
	assert.Empty(t, unsynced(t, store, record.Feeds))
	remote.AssertNotCalled(t, "Push", mock.Anything, record.Diapers, d2)
	remote.AssertExpectations(t)
}

func TestSync_LivenessGate(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	baby := createProfile(t, store, "Mia")
	createEntry(t, store, &record.Feed{BabyID: baby, Type: record.FeedSolid, At: time.Now()})

	remote := new(MockRemote)
	remote.On("Health", mock.Anything).Return(errors.New("connection refused"))

	svc, metrics := newTestSync(t, store, remote)
	result, err := svc.Sync(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
	assert.True(t, result.Aborted)
	assert.Empty(t, result.Collections)
	remote.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)

	assert.Len(t, unsynced(t, store, record.Profiles), 1)
	assert.Len(t, unsynced(t, store, record.Feeds), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Cycles.WithLabelValues(outcomeAborted)))
	assert.Same(t, result, svc.LastResult())
}

// staleStore подменяет версию, как будто запись изменили во время отправки.
type staleStore struct {
	SyncStore
}

func (s staleStore) MarkSynced(ctx context.Context, c record.Collection, id, version int64) (bool, error) {
	return s.SyncStore.MarkSynced(ctx, c, id, version-1)
}

func TestSync_StaleAcknowledgementKeepsRecordUnsynced(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	baby := createProfile(t, store, "Mia")

	remote := new(MockRemote)
	remote.On("Health", mock.Anything).Return(nil)
	remote.On("Push", mock.Anything, record.Profiles, baby).Return(nil)

	svc, _ := newTestSync(t, staleStore{store}, remote)
	result, err := svc.Sync(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, result.Collections)
	assert.Equal(t, 1, result.Collections[0].Stale)
	assert.Equal(t, 0, result.Pushed())
	assert.Equal(t, []int64{baby}, unsynced(t, store, record.Profiles))
}

// blockingRemote держит Health, пока тест не отпустит его.
type blockingRemote struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRemote) Health(ctx context.Context) error {
	r.entered <- struct{}{}
	<-r.release
	return ErrRemoteUnavailable
}

func (r *blockingRemote) Push(context.Context, record.Collection, record.Document) error {
	return nil
}

func TestSync_CyclesAreSerialized(t *testing.T) {
	store := setupStore(t)
	remote := &blockingRemote{entered: make(chan struct{}, 2), release: make(chan struct{})}
	svc, _ := newTestSync(t, store, remote)

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, _ = svc.Sync(context.Background())
			done <- struct{}{}
		}()
	}

	<-remote.entered
	select {
	case <-remote.entered:
		t.Fatal("second cycle started while first is in flight")
	case <-time.After(50 * time.Millisecond):
	}

	remote.release <- struct{}{}
	<-remote.entered
	remote.release <- struct{}{}
	<-done
	<-done
}
