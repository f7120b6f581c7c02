package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMigrator - мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Migrate(version uint) error {
	args := m.Called(version)
	return args.Error(0)
}

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	var gotDir, gotURL string
	engine := func(dir, db string) (Migrator, error) {
		gotDir, gotURL = dir, db
		return mockM, nil
	}

	err := NewMigration(Client("/tmp/bt.db"), engine).Up()

	assert.NoError(t, err)
	assert.Equal(t, "sql/client", gotDir)
	assert.Equal(t, "sqlite3:///tmp/bt.db", gotURL)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// ErrNoChange не должна считаться ошибкой в методе Up()
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(dir, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration(Server("postgres://localhost/bt"), engine).Up()
	assert.NoError(t, err)
}

func TestMigration_Up_EngineError(t *testing.T) {
	engine := func(dir, db string) (Migrator, error) {
		return nil, errors.New("unknown driver")
	}

	err := NewMigration(Client("bt.db"), engine).Up()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestMigration_Up_StepAndCloseErrors(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(errors.New("syntax error"))
	mockM.On("Close").Return(errors.New("source closed"), errors.New("db closed"))

	engine := func(dir, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration(Client("bt.db"), engine).Up()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, err.Error(), "source closed")
	assert.Contains(t, err.Error(), "db closed")
}

func TestMigration_To(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Migrate", uint(1)).Return(nil)
	mockM.On("Close").Return(nil, nil)

	engine := func(dir, db string) (Migrator, error) {
		return mockM, nil
	}

	require.NoError(t, NewMigration(Client("bt.db"), engine).To(1))
	mockM.AssertExpectations(t)
}

func tables(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestClientMigrations_AdditiveUpgrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bt.db")

	require.NoError(t, NewMigration(Client(path), nil).To(1))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, []string{"babies", "diapers", "feeds", "growth", "ketones", "sleeps", "vaccines", "visits"}, tables(t, db))

	_, err = db.Exec(`INSERT INTO feeds (baby_id, event_at, data) VALUES (1, 1704448800000, '{"type":"Solid Food"}')`)
	require.NoError(t, err)

	require.NoError(t, NewMigration(Client(path), nil).Up())
	// повторный запуск ничего не меняет
	require.NoError(t, NewMigration(Client(path), nil).Up())

	assert.Contains(t, tables(t, db), "medications")
	assert.Contains(t, tables(t, db), "temperatures")

	var data string
	require.NoError(t, db.QueryRow(`SELECT data FROM feeds WHERE id = 1`).Scan(&data))
	assert.Equal(t, `{"type":"Solid Food"}`, data)

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_migrations`).Scan(&version))
	assert.Equal(t, int(ClientVersion), version)
}
