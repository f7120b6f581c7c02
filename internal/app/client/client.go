package client

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"babytracker/internal/app/client/config"
	"babytracker/internal/domain/query"
	"babytracker/internal/domain/record"
	"babytracker/internal/domain/session"
	"babytracker/internal/infrastructure/tracing"
)

// App связывает локальное хранилище, выборки, состояние сессии и
// фоновую синхронизацию. Ошибки синхронизации не выходят за пределы App.
type App struct {
	config    *config.Config
	log       *slog.Logger
	storage   Storage
	remote    Remote
	sync      *SyncService
	scheduler *Scheduler
	session   *session.State
	query     *query.Service
	registry  *prometheus.Registry
	tracer    *tracing.Tracer

	wg     gosync.WaitGroup
	mu     gosync.Mutex
	cancel context.CancelFunc
}

// New открывает локальное хранилище и собирает приложение.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога данных: %w", errors.Join(record.ErrStorageUnavailable, err))
	}

	tracer, err := tracing.New(ctx, cfg.Tracing)
	if err != nil {
		log.Warn("Трассировка отключена", slog.Any("error", err))
		tracer = tracing.Noop()
	}

	storage, err := NewSQLiteStorage(ctx, cfg.DataPath, log)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	remote := NewHTTPClient(cfg.APIURL, cfg.HTTPTimeout, log)
	return NewWithDeps(cfg, log, storage, remote, tracer), nil
}

// NewWithDeps собирает приложение из готовых зависимостей.
func NewWithDeps(cfg *config.Config, log *slog.Logger, storage Storage, remote Remote, tracer *tracing.Tracer) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	state := session.NewState()
	syncService := NewSyncService(storage, remote, log, NewMetrics(registry), tracer)

	return &App{
		config:    cfg,
		log:       log,
		storage:   storage,
		remote:    remote,
		sync:      syncService,
		scheduler: NewScheduler(syncService, cfg.SyncInterval, log),
		session:   state,
		query:     query.NewService(storage, state),
		registry:  registry,
		tracer:    tracer,
	}
}

// Start выбирает активный профиль, если он есть.
func (a *App) Start(ctx context.Context) error {
	if err := a.session.Init(ctx, a.query); err != nil {
		return fmt.Errorf("ошибка инициализации сессии: %w", err)
	}
	if id, ok := a.session.ActiveProfile(); ok {
		a.log.Debug("Активный профиль", slog.Int64("baby_id", id))
	}
	return nil
}

// Run запускает фоновую синхронизацию: первый цикл сразу, затем по таймеру.
// Возвращает управление после отмены ctx и завершения текущего цикла.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	a.scheduler.Trigger()

	a.wg.Add(1)
	defer a.wg.Done()

	a.log.Info("Клиент запущен",
		slog.String("api_url", a.config.APIURL),
		slog.String("env", a.config.Env),
		slog.Duration("sync_interval", a.config.SyncInterval),
	)

	return a.scheduler.Run(ctx)
}

// Shutdown останавливает синхронизацию и закрывает хранилище.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("Завершение работы клиента...")

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.session.Reset()

	var errs []error
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("ошибка закрытия хранилища: %w", err))
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("ошибка остановки трассировки: %w", err))
	}

	a.log.Info("Клиент завершил работу")
	return errors.Join(errs...)
}

func (a *App) Session() *session.State {
	return a.session
}

func (a *App) Query() *query.Service {
	return a.query
}

func (a *App) Storage() Storage {
	return a.storage
}

// Metrics возвращает реестр метрик клиента.
func (a *App) Metrics() *prometheus.Registry {
	return a.registry
}

// NeedsProfile сообщает, что нужно создать первый профиль.
func (a *App) NeedsProfile(ctx context.Context) (bool, error) {
	return a.session.NeedsProfile(ctx, a.query)
}

// CreateProfile сохраняет профиль; первый созданный профиль становится активным.
func (a *App) CreateProfile(ctx context.Context, p *record.Profile) (int64, error) {
	doc, err := record.Encode(p)
	if err != nil {
		return 0, err
	}
	id, err := a.storage.Create(ctx, record.Profiles, doc)
	if err != nil {
		return 0, err
	}
	if _, ok := a.session.ActiveProfile(); !ok {
		a.session.SetActiveProfile(id)
		_ = a.session.SetUnits(p.Units)
	}
	return id, nil
}

// SelectProfile делает профиль активным и принимает его единицы измерения.
func (a *App) SelectProfile(ctx context.Context, id int64) error {
	doc, err := a.storage.Get(ctx, record.Profiles, id)
	if err != nil {
		return err
	}
	p, err := record.DecodeProfile(doc)
	if err != nil {
		return err
	}
	a.session.SetActiveProfile(id)
	return a.session.SetUnits(p.Units)
}

// AddEntry сохраняет событие. Если babyId не задан, используется активный профиль.
func (a *App) AddEntry(ctx context.Context, e record.Entry) (int64, error) {
	doc, err := record.Encode(e)
	if err != nil {
		return 0, err
	}
	return a.Add(ctx, e.Collection(), doc)
}

// Add сохраняет документ в коллекцию. Активный профиль подставляется,
// только если babyId не задан или равен 0; нечисловое значение
// отклоняется проверкой записи.
func (a *App) Add(ctx context.Context, c record.Collection, doc record.Document) (int64, error) {
	if c.IsProfileScoped() {
		if missingProfile(doc) {
			active, err := a.session.RequireProfile()
			if err != nil {
				return 0, err
			}
			doc = doc.Clone()
			doc[record.KeyBabyID] = active
		}
	}
	return a.storage.Create(ctx, c, doc)
}

func missingProfile(doc record.Document) bool {
	v, present := doc[record.KeyBabyID]
	if !present || v == nil {
		return true
	}
	id, ok := doc.Int64(record.KeyBabyID)
	return ok && id == 0
}

func (a *App) Get(ctx context.Context, c record.Collection, id int64) (record.Document, error) {
	return a.storage.Get(ctx, c, id)
}

// Update частично обновляет запись; запись снова ждет синхронизации.
func (a *App) Update(ctx context.Context, c record.Collection, id int64, fields map[string]any) error {
	if err := a.storage.Update(ctx, c, id, fields); err != nil {
		return err
	}
	if c == record.Profiles {
		if active, ok := a.session.ActiveProfile(); ok && active == id {
			if u, ok := fields["units"].(string); ok {
				_ = a.session.SetUnits(record.UnitSystem(u))
			}
		}
	}
	return nil
}

// Delete удаляет запись. Удаление профиля не трогает его события.
func (a *App) Delete(ctx context.Context, c record.Collection, id int64) error {
	if err := a.storage.Delete(ctx, c, id); err != nil {
		return err
	}
	if c == record.Profiles {
		if active, ok := a.session.ActiveProfile(); ok && active == id {
			a.session.SetActiveProfile(0)
		}
	}
	return nil
}

// Sync выполняет цикл синхронизации немедленно. Недоступность сервера
// не считается ошибкой: итог описывает, что произошло.
func (a *App) Sync(ctx context.Context) *SyncResult {
	result, err := a.sync.Sync(ctx)
	if err != nil {
		a.log.Debug("Синхронизация не выполнена", slog.Any("error", err))
	}
	return result
}

// RequestSync ставит цикл синхронизации в очередь фонового планировщика.
func (a *App) RequestSync() bool {
	return a.scheduler.Trigger()
}

// Subscribe возвращает канал итогов фоновых циклов синхронизации.
func (a *App) Subscribe(buf int) <-chan *SyncResult {
	return a.scheduler.Subscribe(buf)
}

// PendingCount - число записей коллекции, ожидающих отправки.
type PendingCount struct {
	Collection record.Collection
	Count      int
}

// Pending считает несинхронизированные записи по коллекциям в порядке
// синхронизации. Коллекции, которых нет в текущей схеме, пропускаются.
func (a *App) Pending(ctx context.Context) ([]PendingCount, error) {
	var counts []PendingCount
	for _, c := range record.Collections() {
		items, err := a.storage.ListUnsynced(ctx, c)
		if errors.Is(err, record.ErrUnknownCollection) {
			continue
		}
		if err != nil {
			return nil, err
		}
		counts = append(counts, PendingCount{Collection: c, Count: len(items)})
	}
	return counts, nil
}

// LastSync возвращает итог последнего цикла или nil.
func (a *App) LastSync() *SyncResult {
	return a.sync.LastResult()
}
