package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank imports register database drivers for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/client/*.sql sql/server/*.sql
var migrations embed.FS

const (
	clientDir = "sql/client"
	serverDir = "sql/server"
)

// ClientVersion - последняя версия схемы локального хранилища.
const ClientVersion uint = 2

// Migrator - интерфейс для самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Migrate(version uint) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// MigrationEngine - фабрика для создания мигратора (чтобы не лезть в ФС и БД в тестах)
type MigrationEngine func(dir, databaseURL string) (Migrator, error)

// Target - набор миграций и база, к которой они применяются.
type Target struct {
	Dir         string
	DatabaseURL string
}

// Client - миграции локального хранилища SQLite по пути к файлу.
func Client(path string) Target {
	return Target{Dir: clientDir, DatabaseURL: "sqlite3://" + path}
}

// Server - миграции серверной базы PostgreSQL.
func Server(databaseURI string) Target {
	return Target{Dir: serverDir, DatabaseURL: databaseURI}
}

type Migration struct {
	target Target
	engine MigrationEngine
}

func NewMigration(target Target, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		target: target,
		engine: engine,
	}
}

// DefaultEngine - реальная реализация: встроенные SQL файлы и драйвер по схеме URL
func DefaultEngine(dir, databaseURL string) (Migrator, error) {
	src, err := iofs.New(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations %s: %w", dir, err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Up применяет все еще не примененные миграции по порядку.
func (mg *Migration) Up() error {
	return mg.run(func(m Migrator) error {
		return m.Up()
	})
}

// To приводит схему к указанной версии.
func (mg *Migration) To(version uint) error {
	return mg.run(func(m Migrator) error {
		return m.Migrate(version)
	})
}

func (mg *Migration) run(step func(Migrator) error) (err error) {
	m, err := mg.engine(mg.target.Dir, mg.target.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up error: %w", err)
	}
	return nil
}
