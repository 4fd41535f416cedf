package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/facturo/backend/internal/domain/chat"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/subscription"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGormClientRepository_OwnershipAndSearch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	acme, err := partner.NewClient(alice, "ACME SARL", partner.Contact{Email: "contact@acme.fr"})
	require.NoError(t, err)
	globex, err := partner.NewClient(alice, "Globex", partner.Contact{Phone: "0102030405"})
	require.NoError(t, err)
	bobs, err := partner.NewClient(bob, "Acme Bis", partner.Contact{})
	require.NoError(t, err)
	for _, c := range []*partner.Client{acme, globex, bobs} {
		require.NoError(t, repo.Save(ctx, c))
	}

	filter := shared.DefaultFilter()
	filter.Search = "acme"
	found, err := repo.FindAllForUser(ctx, alice, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, acme.ID, found[0].ID)

	_, err = repo.FindByIDForUser(ctx, bob, acme.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err := repo.ExistsForUser(ctx, alice, acme.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsForUser(ctx, bob, acme.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.DeleteForUser(ctx, bob, acme.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForUser(ctx, alice, acme.ID))
	count, err := repo.CountForUser(ctx, alice, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormProductRepository_TypeFilter(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	widget, err := catalog.NewProduct(userID, catalog.ProductInput{Name: "Widget", Price: decimal.NewFromInt(10), TVA: decimal.NewFromInt(20)})
	require.NoError(t, err)
	audit, err := catalog.NewProduct(userID, catalog.ProductInput{Name: "Audit", Price: decimal.NewFromInt(500), TVA: decimal.NewFromInt(20), Type: catalog.ProductTypeService})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, widget))
	require.NoError(t, repo.Save(ctx, audit))

	filter := shared.DefaultFilter()
	filter.Filters["product_type"] = catalog.ProductTypeService
	services, err := repo.FindAllForUser(ctx, userID, filter)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Audit", services[0].Name)
	assert.True(t, services[0].Price.Equal(decimal.NewFromInt(500)))
}

func TestGormSupplierRepository_Update(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormSupplierRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	s, err := partner.NewSupplier(userID, "Papeterie", partner.SupplierDetails{ContactPerson: "Jo"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	require.NoError(t, s.Update("Papeterie Centrale", partner.SupplierDetails{Website: "https://papeterie.fr"}))
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByIDForUser(ctx, userID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Papeterie Centrale", found.Name)
	assert.Equal(t, "https://papeterie.fr", found.Website)
	assert.Empty(t, found.ContactPerson)
}

func TestGormCompanyProfileRepository_Upsert(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.FindByUser(ctx, userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	first, err := company.NewProfile(userID, company.Details{Name: "Atelier Dupont"})
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	second, err := company.NewProfile(userID, company.Details{Name: "Atelier Dupont & Fils", TaxID: "FR123"})
	require.NoError(t, err)
	require.NoError(t, second.SetAsset(company.AssetLogo, "https://cdn/logo.png"))
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID, "the stored row keeps its identity")

	found, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "Atelier Dupont & Fils", found.Name)
	assert.Equal(t, "FR123", found.TaxID)
	assert.Equal(t, "https://cdn/logo.png", found.LogoURL)
}

func TestGormSubscriptionRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormSubscriptionRepository(db)
	ctx := context.Background()

	pending, err := subscription.Submit(uuid.New(), subscription.PaymentBankTransfer, "", 0)
	require.NoError(t, err)
	active, err := subscription.Submit(uuid.New(), subscription.PaymentCash, "", 6)
	require.NoError(t, err)
	require.NoError(t, active.Approve(uuid.New(), time.Now()))
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, active))

	list, err := repo.FindByStatus(ctx, subscription.StatusPending, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.UserID, list[0].UserID)

	count, err := repo.CountByStatus(ctx, subscription.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByUser(ctx, active.UserID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, found.Status)
	require.NotNil(t, found.ExpiresAt)
	assert.Equal(t, 6, found.PlanMonths)

	dup, err := subscription.Submit(pending.UserID, subscription.PaymentCard, "", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
}

func TestGormChatMessageRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormChatMessageRepository(db)
	users := NewGormUserRepository(db)
	ctx := context.Background()

	identity.HashCost = bcrypt.MinCost
	user, err := identity.NewUser("client@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user, identity.NewProfile(user.ID, "Client")))
	adminID := uuid.New()

	base := time.Now().Add(-time.Hour)
	send := func(sender uuid.UUID, fromAdmin bool, content string, at time.Time) {
		msg, err := chat.NewMessage(user.ID, sender, content, fromAdmin)
		require.NoError(t, err)
		msg.CreatedAt = at
		msg.UpdatedAt = at
		require.NoError(t, repo.Create(ctx, msg))
	}
	send(user.ID, false, "Bonjour", base)
	send(user.ID, false, "Une question", base.Add(time.Minute))
	send(adminID, true, "Oui ?", base.Add(2*time.Minute))

	msgs, err := repo.FindByConversation(ctx, user.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Bonjour", msgs[0].Content)

	conversations, err := repo.ListConversations(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "client@example.com", conversations[0].Email)
	assert.Equal(t, int64(2), conversations[0].UnreadCount)
	assert.Equal(t, "Oui ?", conversations[0].LastMessage)

	n, err := repo.MarkRead(ctx, user.ID, false, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = repo.MarkRead(ctx, user.ID, false, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
