package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
)

// ErrSchedulerRunning - Run уже запущен для этого планировщика.
var ErrSchedulerRunning = errors.New("scheduler already running")

// Syncer выполняет один цикл синхронизации.
type Syncer interface {
	Sync(ctx context.Context) (*SyncResult, error)
}

// Scheduler запускает циклы синхронизации по таймеру и по запросу.
// Одновременно выполняется не более одного цикла: тики во время цикла
// отбрасываются, запросы склеиваются в один отложенный цикл.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	log      *slog.Logger

	trigger chan struct{}
	running atomic.Bool

	mu   sync.Mutex
	subs []chan *SyncResult
}

func NewScheduler(syncer Syncer, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		log:      log.With(slog.String("component", "scheduler")),
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger ставит цикл в очередь. false означает, что цикл уже ожидает запуска.
func (s *Scheduler) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Subscribe возвращает канал с итогами завершенных циклов. Если подписчик
// не успевает читать, итоги для него пропускаются.
func (s *Scheduler) Subscribe(buf int) <-chan *SyncResult {
	ch := make(chan *SyncResult, buf)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Run обслуживает таймер и запросы до отмены ctx. Начатый цикл
// всегда доводится до конца.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSchedulerRunning
	}
	defer s.running.Store(false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Планировщик синхронизации запущен", slog.Duration("interval", s.interval))

	for {
		if ctx.Err() != nil {
			s.log.Info("Планировщик синхронизации остановлен")
			return nil
		}

		select {
		case <-ctx.Done():
			continue
		case <-ticker.C:
			s.cycle(ctx)
		case <-s.trigger:
			s.cycle(ctx)
		}

		// тик, пришедший во время цикла, не запускает еще один
		select {
		case <-ticker.C:
		default:
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	result, err := s.syncer.Sync(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Debug("Цикл синхронизации прерван", slog.Any("error", err))
	}
	if result == nil {
		return
	}
	s.publish(result)
}

func (s *Scheduler) publish(result *SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- result:
		default:
		}
	}
}
