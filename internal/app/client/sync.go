package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
	"babytracker/internal/infrastructure/tracing"
)

// SyncStore - часть хранилища, нужная синхронизации.
type SyncStore interface {
	ListUnsynced(ctx context.Context, c record.Collection) ([]PendingRecord, error)
	MarkSynced(ctx context.Context, c record.Collection, id, version int64) (bool, error)
}

// CollectionResult - итог обработки одной коллекции за цикл.
type CollectionResult struct {
	Collection record.Collection
	Pending    int
	Pushed     int
	// Stale - отправленные записи, измененные локально во время отправки.
	// Они остаются несинхронизированными до следующего цикла.
	Stale int
	// Err - причина остановки коллекции, nil если она обработана целиком.
	Err error
}

// SyncResult - итог цикла синхронизации.
type SyncResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Aborted     bool
	Err         error
	Collections []CollectionResult
}

// Pushed возвращает число принятых сервером записей.
func (r *SyncResult) Pushed() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Pushed
	}
	return n
}

// Failed возвращает коллекции, обработка которых остановилась на ошибке.
func (r *SyncResult) Failed() []CollectionResult {
	var failed []CollectionResult
	for _, c := range r.Collections {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

func (r *SyncResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// SyncService отправляет несинхронизированные записи на сервер.
// Циклы выполняются строго по одному.
type SyncService struct {
	store       SyncStore
	remote      Remote
	log         *slog.Logger
	metrics     *Metrics
	tracer      *tracing.Tracer
	collections []record.Collection

	mu sync.Mutex

	lastMu sync.RWMutex
	last   *SyncResult
}

// NewSyncService создает сервис синхронизации.
func NewSyncService(store SyncStore, remote Remote, log *slog.Logger, metrics *Metrics, tracer *tracing.Tracer) *SyncService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &SyncService{
		store:       store,
		remote:      remote,
		log:         log.With(slog.String("component", "sync")),
		metrics:     metrics,
		tracer:      tracer,
		collections: record.Collections(),
	}
}

// Sync выполняет один цикл. Ошибка возвращается только если сервер
// недоступен (ErrRemoteUnavailable); сбои отдельных коллекций лежат в результате.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &SyncResult{StartTime: time.Now()}

	ctx, span := s.tracer.StartCycle(ctx)
	defer func() {
		result.EndTime = time.Now()
		s.lastMu.Lock()
		s.last = result
		s.lastMu.Unlock()
		tracing.End(span, result.Err)
	}()

	if err := s.remote.Health(ctx); err != nil {
		if !errors.Is(err, ErrRemoteUnavailable) {
			err = fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
		}
		result.Aborted = true
		result.Err = err
		s.observeCycle(outcomeAborted)
		s.log.Warn("Сервер недоступен, синхронизация пропущена", slog.Any("error", err))
		return result, err
	}

	for _, c := range s.collections {
		cr := s.syncCollection(ctx, c)
		if errors.Is(cr.Err, record.ErrUnknownCollection) {
			// коллекции нет в текущей схеме
			continue
		}
		result.Collections = append(result.Collections, cr)
	}

	outcome := outcomeOK
	if len(result.Failed()) > 0 {
		outcome = outcomePartial
	}
	s.observeCycle(outcome)

	s.log.Info("Синхронизация завершена",
		slog.String("outcome", outcome),
		slog.Int("pushed", result.Pushed()),
		slog.Int("failed_collections", len(result.Failed())),
		slog.Duration("duration", time.Since(result.StartTime)),
	)
	return result, nil
}

func (s *SyncService) syncCollection(ctx context.Context, c record.Collection) CollectionResult {
	cr := CollectionResult{Collection: c}

	pending, err := s.store.ListUnsynced(ctx, c)
	if err != nil {
		cr.Err = err
		if !errors.Is(err, record.ErrUnknownCollection) {
			s.log.Error("Не удалось прочитать несинхронизированные записи",
				slog.String("collection", c.String()), slog.Any("error", err))
		}
		return cr
	}
	cr.Pending = len(pending)
	if len(pending) == 0 {
		return cr
	}

	ctx, span := s.tracer.StartCollection(ctx, c.String(), len(pending))
	defer func() { tracing.End(span, cr.Err) }()

	for _, p := range pending {
		if err := s.remote.Push(ctx, c, p.Doc); err != nil {
			cr.Err = err
			s.observeFailure(c)
			s.log.Warn("Отправка остановлена до следующего цикла",
				slog.String("collection", c.String()),
				slog.Int64("id", p.ID),
				slog.Any("error", err),
			)
			return cr
		}

		ok, err := s.store.MarkSynced(ctx, c, p.ID, p.Version)
		if err != nil {
			cr.Err = fmt.Errorf("failed to mark %s/%d synced: %w", c, p.ID, err)
			s.observeFailure(c)
			s.log.Error("Не удалось отметить запись", slog.String("collection", c.String()),
				slog.Int64("id", p.ID), slog.Any("error", err))
			return cr
		}
		if !ok {
			cr.Stale++
			s.log.Debug("Запись изменилась во время отправки",
				slog.String("collection", c.String()), slog.Int64("id", p.ID))
			continue
		}

		cr.Pushed++
		if s.metrics != nil {
			s.metrics.Pushed.WithLabelValues(c.String()).Inc()
		}
	}
	return cr
}

func (s *SyncService) observeCycle(outcome string) {
	if s.metrics != nil {
		s.metrics.Cycles.WithLabelValues(outcome).Inc()
	}
}

func (s *SyncService) observeFailure(c record.Collection) {
	if s.metrics != nil {
		s.metrics.PushFailures.WithLabelValues(c.String()).Inc()
	}
}

// LastResult возвращает итог последнего завершенного цикла или nil.
func (s *SyncService) LastResult() *SyncResult {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last
}
