package catalog

import (
	"testing"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProductInput {
	return ProductInput{
		Name:  "Formation Go",
		Price: decimal.NewFromInt(500),
		TVA:   decimal.NewFromInt(20),
		Type:  ProductTypeService,
	}
}

func TestNewProduct(t *testing.T) {
	userID := uuid.New()

	t.Run("valid service", func(t *testing.T) {
		p, err := NewProduct(userID, validInput())
		require.NoError(t, err)
		assert.Equal(t, "Formation Go", p.Name)
		assert.True(t, p.IsService())
		assert.Equal(t, "600", p.PriceWithTax().String())
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("type defaults to product", func(t *testing.T) {
		in := validInput()
		in.Type = ""
		p, err := NewProduct(userID, in)
		require.NoError(t, err)
		assert.Equal(t, ProductTypeProduct, p.Type)
	})

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		code   string
	}{
		{"empty name", func(in *ProductInput) { in.Name = " " }, "INVALID_PRODUCT_NAME"},
		{"negative price", func(in *ProductInput) { in.Price = decimal.NewFromInt(-1) }, "INVALID_PRICE"},
		{"tva above 100", func(in *ProductInput) { in.TVA = decimal.NewFromFloat(100.01) }, "INVALID_TVA"},
		{"negative tva", func(in *ProductInput) { in.TVA = decimal.NewFromInt(-5) }, "INVALID_TVA"},
		{"unknown type", func(in *ProductInput) { in.Type = "subscription" }, "INVALID_PRODUCT_TYPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewProduct(userID, in)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}

	t.Run("boundaries are accepted", func(t *testing.T) {
		in := validInput()
		in.Price = decimal.Zero
		in.TVA = decimal.NewFromInt(100)
		_, err := NewProduct(userID, in)
		assert.NoError(t, err)
	})
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct(uuid.New(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Formation Go avancée"
	in.Type = ""
	require.NoError(t, p.Update(in))

	assert.Equal(t, "Formation Go avancée", p.Name)
	assert.Equal(t, ProductTypeService, p.Type)
	assert.Equal(t, 2, p.Version)
}
