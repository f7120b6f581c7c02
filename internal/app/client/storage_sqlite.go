package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"babytracker/internal/domain/record"
	"babytracker/internal/infrastructure/migration"
)

// PendingRecord - несинхронизированная запись вместе с версией строки,
// которую нужно предъявить при отметке о синхронизации.
type PendingRecord struct {
	ID      int64
	Version int64
	Doc     record.Document
}

// Storage - локальное хранилище записей.
type Storage interface {
	Create(ctx context.Context, c record.Collection, doc record.Document) (int64, error)
	Get(ctx context.Context, c record.Collection, id int64) (record.Document, error)
	Update(ctx context.Context, c record.Collection, id int64, fields map[string]any) error
	Delete(ctx context.Context, c record.Collection, id int64) error
	ListAll(ctx context.Context, c record.Collection) ([]record.Document, error)
	ListByProfile(ctx context.Context, c record.Collection, babyID int64) ([]record.Document, error)
	ListUnsynced(ctx context.Context, c record.Collection) ([]PendingRecord, error)
	MarkSynced(ctx context.Context, c record.Collection, id, version int64) (bool, error)
	SchemaVersion(ctx context.Context) (uint, error)
	Close() error
}

type SQLiteStorage struct {
	db      *sql.DB
	log     *slog.Logger
	version uint
}

// NewSQLiteStorage открывает файл базы и применяет все миграции схемы.
func NewSQLiteStorage(ctx context.Context, path string, log *slog.Logger) (*SQLiteStorage, error) {
	return openSQLiteStorage(ctx, path, migration.ClientVersion, log)
}

func openSQLiteStorage(ctx context.Context, path string, version uint, log *slog.Logger) (*SQLiteStorage, error) {
	mg := migration.NewMigration(migration.Client(path), nil)
	if err := mg.To(version); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", errors.Join(record.ErrStorageUnavailable, err))
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", errors.Join(record.ErrStorageUnavailable, err))
	}
	// один writer: SQLite не допускает параллельной записи
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:  db,
		log: log.With(slog.String("component", "sqlite")),
	}

	s.version, err = s.SchemaVersion(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s.log.Debug("local store opened", slog.String("path", path), slog.Uint64("schema_version", uint64(s.version)))
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func unavailable(op string, c record.Collection, err error) error {
	return fmt.Errorf("failed to %s %s: %w", op, c, errors.Join(record.ErrStorageUnavailable, err))
}

func notFound(c record.Collection, id int64) error {
	return fmt.Errorf("%s %d: %w", c, id, record.ErrNotFound)
}

// table проверяет, что коллекция известна и есть в текущей версии схемы.
func (s *SQLiteStorage) table(c record.Collection) (string, error) {
	schema, err := record.Lookup(c)
	if err != nil {
		return "", err
	}
	if schema.Since > s.version {
		return "", fmt.Errorf("%w: %q requires schema version %d", record.ErrUnknownCollection, string(c), schema.Since)
	}
	return string(schema.Name), nil
}

func encodeData(doc record.Document) (string, error) {
	raw, err := json.Marshal(doc.Without(record.KeyID, record.KeySynced))
	if err != nil {
		return "", fmt.Errorf("%w: %s", record.ErrInvalidRecord, err.Error())
	}
	return string(raw), nil
}

func decodeRow(id int64, data string, synced bool) (record.Document, error) {
	doc, err := record.DecodeDocument([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("corrupted row %d: %w", id, errors.Join(record.ErrStorageUnavailable, err))
	}
	doc[record.KeyID] = id
	doc[record.KeySynced] = synced
	return doc, nil
}

// Create проверяет документ и сохраняет его с synced=false.
func (s *SQLiteStorage) Create(ctx context.Context, c record.Collection, doc record.Document) (int64, error) {
	table, err := s.table(c)
	if err != nil {
		return 0, err
	}

	doc = record.NormalizeTimes(c, doc, time.Local)
	v, err := record.Decode(c, doc)
	if err != nil {
		return 0, err
	}
	idx := record.IndexOf(v)

	data, err := encodeData(doc)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("begin create", c, err)
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if p, ok := v.(*record.Profile); ok {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO babies (name, dob, event_at, data) VALUES (?, ?, ?, ?)`,
			p.Name, p.DOB, idx.EventAt.UnixMilli(), data)
	} else {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM babies WHERE id = ?)`, idx.BabyID).Scan(&exists); err != nil {
			return 0, unavailable("check profile for", c, err)
		}
		if !exists {
			return 0, fmt.Errorf("%s babyId %d: %w", c, idx.BabyID, record.ErrProfileNotFound)
		}
		res, err = tx.ExecContext(ctx,
			`INSERT INTO `+table+` (baby_id, event_at, data) VALUES (?, ?, ?)`,
			idx.BabyID, idx.EventAt.UnixMilli(), data)
	}
	if err != nil {
		return 0, unavailable("insert", c, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read id of", c, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable("commit", c, err)
	}
	return id, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, c record.Collection, id int64) (record.Document, error) {
	table, err := s.table(c)
	if err != nil {
		return nil, err
	}

	var (
		data   string
		synced bool
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT data, synced FROM `+table+` WHERE id = ?`, id).Scan(&data, &synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(c, id)
	}
	if err != nil {
		return nil, unavailable("get", c, err)
	}
	return decodeRow(id, data, synced)
}

// Update накладывает fields на запись, проверяет результат и сбрасывает synced.
func (s *SQLiteStorage) Update(ctx context.Context, c record.Collection, id int64, fields map[string]any) error {
	table, err := s.table(c)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", c, err)
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM `+table+` WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(c, id)
	}
	if err != nil {
		return unavailable("read", c, err)
	}

	current, err := decodeRow(id, data, false)
	if err != nil {
		return err
	}
	merged := record.NormalizeTimes(c, current.Merge(fields), time.Local)

	v, err := record.Decode(c, merged)
	if err != nil {
		return err
	}
	idx := record.IndexOf(v)

	encoded, err := encodeData(merged)
	if err != nil {
		return err
	}

	if p, ok := v.(*record.Profile); ok {
		_, err = tx.ExecContext(ctx,
			`UPDATE babies SET name = ?, dob = ?, event_at = ?, data = ?, version = version + 1, synced = 0 WHERE id = ?`,
			p.Name, p.DOB, idx.EventAt.UnixMilli(), encoded, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE `+table+` SET baby_id = ?, event_at = ?, data = ?, version = version + 1, synced = 0 WHERE id = ?`,
			idx.BabyID, idx.EventAt.UnixMilli(), encoded, id)
	}
	if err != nil {
		return unavailable("update", c, err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", c, err)
	}
	return nil
}

// Delete удаляет запись. События удаленного профиля остаются на месте.
func (s *SQLiteStorage) Delete(ctx context.Context, c record.Collection, id int64) error {
	table, err := s.table(c)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return unavailable("delete", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete", c, err)
	}
	if n == 0 {
		return notFound(c, id)
	}
	return nil
}

func (s *SQLiteStorage) ListAll(ctx context.Context, c record.Collection) ([]record.Document, error) {
	table, err := s.table(c)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, c, `SELECT id, data, synced FROM `+table+` ORDER BY id`)
}

func (s *SQLiteStorage) ListByProfile(ctx context.Context, c record.Collection, babyID int64) ([]record.Document, error) {
	table, err := s.table(c)
	if err != nil {
		return nil, err
	}
	if !c.IsProfileScoped() {
		return nil, fmt.Errorf("%w: %s is not scoped by profile", record.ErrInvalidRecord, c)
	}
	return s.list(ctx, c, `SELECT id, data, synced FROM `+table+` WHERE baby_id = ? ORDER BY id`, babyID)
}

func (s *SQLiteStorage) list(ctx context.Context, c record.Collection, query string, args ...any) ([]record.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list", c, err)
	}
	defer rows.Close()

	var docs []record.Document
	for rows.Next() {
		var (
			id     int64
			data   string
			synced bool
		)
		if err := rows.Scan(&id, &data, &synced); err != nil {
			return nil, unavailable("scan", c, err)
		}
		doc, err := decodeRow(id, data, synced)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", c, err)
	}
	return docs, nil
}

// ListUnsynced возвращает записи с synced=false по возрастанию id.
func (s *SQLiteStorage) ListUnsynced(ctx context.Context, c record.Collection) ([]PendingRecord, error) {
	table, err := s.table(c)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, data FROM `+table+` WHERE synced = 0 ORDER BY id`)
	if err != nil {
		return nil, unavailable("list unsynced", c, err)
	}
	defer rows.Close()

	var pending []PendingRecord
	for rows.Next() {
		var p PendingRecord
		var data string
		if err := rows.Scan(&p.ID, &p.Version, &data); err != nil {
			return nil, unavailable("scan", c, err)
		}
		doc, err := decodeRow(p.ID, data, false)
		if err != nil {
			return nil, err
		}
		p.Doc = doc.Without(record.KeySynced)
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list unsynced", c, err)
	}
	return pending, nil
}

// MarkSynced отмечает запись синхронизированной, только если она не менялась
// с момента чтения. false означает, что запись изменена или удалена.
func (s *SQLiteStorage) MarkSynced(ctx context.Context, c record.Collection, id, version int64) (bool, error) {
	table, err := s.table(c)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET synced = 1 WHERE id = ? AND version = ?`, id, version)
	if err != nil {
		return false, unavailable("mark synced", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("mark synced", c, err)
	}
	return n == 1, nil
}

// SchemaVersion возвращает примененную версию схемы.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (uint, error) {
	var (
		version int64
		dirty   bool
	)
	err := s.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", errors.Join(record.ErrStorageUnavailable, err))
	}
	if dirty {
		return 0, fmt.Errorf("schema version %d is dirty: %w", version, record.ErrStorageUnavailable)
	}
	return uint(version), nil
}
