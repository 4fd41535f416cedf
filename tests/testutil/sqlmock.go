// Package testutil holds fixtures shared by the package tests: in-memory
// databases, sqlmock connections and event recorders.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SQLMock is a PostgreSQL-dialect gorm handle whose statements are checked
// against sqlmock expectations.
type SQLMock struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

// NewSQLMock fails t at cleanup if any expectation is left unmet.
func NewSQLMock(t *testing.T) *SQLMock {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sql expectations")
		_ = conn.Close()
	})
	return &SQLMock{DB: db, Mock: mock}
}
