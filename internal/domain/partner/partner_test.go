package partner

import (
	"testing"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	userID := uuid.New()

	t.Run("creates client with trimmed fields", func(t *testing.T) {
		client, err := NewClient(userID, "  Acme SARL ", Contact{Email: " contact@acme.fr ", Phone: "+33 1 23 45 67 89"})
		require.NoError(t, err)

		assert.Equal(t, "Acme SARL", client.Name)
		assert.Equal(t, "contact@acme.fr", client.Email)
		assert.Equal(t, userID, client.UserID)
		assert.True(t, client.BelongsTo(userID))
		require.Len(t, client.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClientCreated, client.GetDomainEvents()[0].EventType())
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := NewClient(userID, "   ", Contact{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CLIENT_NAME", domainErr.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewClient(userID, "Acme", Contact{Email: "not-an-email"})
		assert.Error(t, err)
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, err := NewClient(userID, "Acme", Contact{Phone: "call me"})
		assert.Error(t, err)
	})
}

func TestClient_Update(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme", Contact{})
	require.NoError(t, err)
	client.ClearDomainEvents()

	require.NoError(t, client.Update("Acme Group", Contact{Address: "1 rue de Paris"}))

	assert.Equal(t, "Acme Group", client.Name)
	assert.Equal(t, "1 rue de Paris", client.Address)
	assert.Equal(t, 2, client.Version)
	assert.Len(t, client.GetDomainEvents(), 1)

	assert.Error(t, client.Update("", Contact{}))
	assert.Equal(t, "Acme Group", client.Name)
}

func TestNewSupplier(t *testing.T) {
	userID := uuid.New()

	t.Run("full details", func(t *testing.T) {
		s, err := NewSupplier(userID, "Papeterie Martin", SupplierDetails{
			ContactPerson: "Jeanne Martin",
			Website:       "papeterie-martin.fr",
			Contact:       Contact{Email: "jm@papeterie-martin.fr"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Jeanne Martin", s.ContactPerson)
		assert.Equal(t, "papeterie-martin.fr", s.Website)
		assert.Equal(t, "jm@papeterie-martin.fr", s.Email)
	})

	t.Run("invalid website", func(t *testing.T) {
		_, err := NewSupplier(userID, "X", SupplierDetails{Website: "not a site"})
		assert.Error(t, err)
	})

	t.Run("update", func(t *testing.T) {
		s, err := NewSupplier(userID, "X", SupplierDetails{})
		require.NoError(t, err)
		require.NoError(t, s.Update("Y", SupplierDetails{ContactPerson: "Bob"}))
		assert.Equal(t, "Y", s.Name)
		assert.Equal(t, "Bob", s.ContactPerson)
	})
}
