package persistence

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplate(t *testing.T, userID uuid.UUID, name string) *printing.InvoiceTemplate {
	t.Helper()
	tpl, err := printing.NewInvoiceTemplate(userID, printing.TemplateInput{
		Name:   name,
		Colors: printing.ColorScheme{Primary: "#112233"},
		Layout: printing.LayoutModern,
	})
	require.NoError(t, err)
	return tpl
}

func TestGormInvoiceTemplateRepository_SetDefaultKeepsOneDefault(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceTemplateRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	a := newTestTemplate(t, userID, "A")
	b := newTestTemplate(t, userID, "B")
	foreign := newTestTemplate(t, otherUser, "Foreign")
	for _, tpl := range []*printing.InvoiceTemplate{a, b, foreign} {
		require.NoError(t, repo.Save(ctx, tpl))
	}
	require.NoError(t, repo.SetDefault(ctx, foreign))

	require.NoError(t, repo.SetDefault(ctx, a))
	require.NoError(t, repo.SetDefault(ctx, b))

	var defaults int64
	require.NoError(t, db.Model(&models.InvoiceTemplateModel{}).
		Where("user_id = ? AND is_default = ?", userID, true).Count(&defaults).Error)
	assert.Equal(t, int64(1), defaults)

	def, err := repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, def.ID)
	assert.Equal(t, "#112233", def.Colors.Primary)

	// the other user's default is untouched
	def, err = repo.FindDefault(ctx, otherUser)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, def.ID)

	list, err := repo.FindAllForUser(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "default template is listed first")
}

func TestGormInvoiceTemplateRepository_FindDefaultMissing(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	_, err := NewGormInvoiceTemplateRepository(db).FindDefault(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceTemplateRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceTemplateRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	tpl := newTestTemplate(t, userID, "A")
	require.NoError(t, repo.Save(ctx, tpl))

	assert.ErrorIs(t, repo.DeleteForUser(ctx, uuid.New(), tpl.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForUser(ctx, userID, tpl.ID))
	_, err := repo.FindByIDForUser(ctx, userID, tpl.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
