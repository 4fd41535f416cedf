// Package integration runs the persistence layer against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/infrastructure/migration"
	"github.com/facturo/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// pool is the container reused by every test of the package. It is
// started on first use and terminated by TestMain.
var pool struct {
	sync.Mutex
	container *tcpostgres.PostgresContainer
	dsn       string
}

// TestDB is a migrated database plus its connection.
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB starts a private container. Use it for tests that need an
// empty schema or move the schema version.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	container, dsn := runPostgres(t, "facturo_test")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})
	tdb := connect(t, dsn)
	migrateUp(t, tdb.SqlDB)
	return tdb
}

// NewSharedTestDB connects to the package container. Every test owns its
// rows through CreateTestUser, so tests never see each other's data.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	pool.Lock()
	defer pool.Unlock()
	if pool.container == nil {
		container, dsn := runPostgres(t, "facturo_shared")
		first := connect(t, dsn)
		migrateUp(t, first.SqlDB)
		pool.container, pool.dsn = container, dsn
	}
	return connect(t, pool.dsn)
}

// CleanupSharedContainer stops the package container if one was started.
func CleanupSharedContainer() {
	pool.Lock()
	defer pool.Unlock()
	if pool.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = pool.container.Terminate(ctx)
	pool.container, pool.dsn = nil, ""
}

func runPostgres(t *testing.T, database string) (*tcpostgres.PostgresContainer, string) {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(database),
		tcpostgres.WithUsername("facturo"),
		tcpostgres.WithPassword("facturo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres")
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")
	return container, dsn
}

// connect opens a gorm handle configured like the server's. TEST_DB_DEBUG
// logs every statement.
func connect(t *testing.T, dsn string) *TestDB {
	t.Helper()
	level, base := gormlogger.Silent, zap.NewNop()
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level, base = gormlogger.Info, zap.NewExample()
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.NewGormLogger(base, level),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "open database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &TestDB{DB: db, SqlDB: sqlDB, t: t}
}

func migrateUp(t *testing.T, sqlDB *sql.DB) {
	t.Helper()
	m, err := migration.New(sqlDB, migrations.FS, nil)
	require.NoError(t, err, "create migrator")
	require.NoError(t, m.Up(), "apply migrations")
}

// CreateTestUser inserts an account and returns its ID.
func (tdb *TestDB) CreateTestUser() uuid.UUID {
	tdb.t.Helper()
	id := uuid.New()
	err := tdb.DB.Exec(`INSERT INTO users (id, email, password_hash, version) VALUES (?, ?, 'x', 1)`,
		id, fmt.Sprintf("user-%s@example.com", id.String()[:8])).Error
	require.NoError(tdb.t, err, "insert user")
	return id
}
