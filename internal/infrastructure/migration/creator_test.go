package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/facturo/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoice notes", "add_invoice_notes"},
		{"Add-Invoice-Notes", "add_invoice_notes"},
		{"ADD_INVOICE_NOTES", "add_invoice_notes"},
		{"add__invoice__notes", "add_invoice_notes"},
		{"Add Notes 123", "add_notes_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add invoice notes", "Free text notes on invoices")
	require.NoError(t, err)
	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_invoice_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_invoice_notes.down.sql"), mf.DownPath)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(upContent), "-- Up: add invoice notes\n"))
	assert.Contains(t, string(upContent), "-- Free text notes on invoices")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(downContent), "-- Down: add invoice notes\n"))
}

func TestCreateMigration_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"000004_create_invoicing.up.sql", "000004_create_invoicing.down.sql", "000002_catalog.up.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}

	mf, err := CreateMigration(dir, "add payments", "")
	require.NoError(t, err)
	assert.Equal(t, "000005", mf.Version)
	assert.True(t, strings.HasSuffix(mf.UpPath, "000005_add_payments.up.sql"))
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_clients.up.sql":   {Data: []byte("-- test")},
		"000002_add_clients.down.sql": {Data: []byte("-- test")},
		"000001_init.up.sql":          {Data: []byte("-- test")},
		"000001_init.down.sql":        {Data: []byte("-- test")},
		"README.md":                   {Data: []byte("docs")},
		"subdir.up.sql/keep":          {Data: []byte("")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_add_clients"}, got)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_EmbeddedSchema(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "000001_create_identity", got[0])

	// Every up file ships with its rollback.
	for _, name := range got {
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, name)
	}
}

func TestSource(t *testing.T) {
	embedded := fstest.MapFS{"000001_init.up.sql": {Data: []byte("-- test")}}
	assert.Equal(t, embedded, Source(embedded, ""))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000009_local.up.sql"), []byte("-- test"), 0o644))
	got, err := ListMigrations(Source(embedded, dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000009_local"}, got)
}
