package company_test

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/application/common"
	appcompany "github.com/facturo/backend/internal/application/company"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/facturo/backend/internal/infrastructure/storage"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func newProfileService(t *testing.T) (*appcompany.ProfileService, *storage.MemoryBlobStore) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	blobs := storage.NewMemoryBlobStore("https://files.example.com")
	return appcompany.NewProfileService(persistence.NewGormCompanyProfileRepository(db), blobs, 1024, nil), blobs
}

func TestProfileService_Upsert(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()
	p := identity.Principal{UserID: uuid.New()}

	_, err := svc.Get(ctx, p)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	created, err := svc.Upsert(ctx, p, appcompany.ProfileRequest{Name: "Atelier Martin", TaxID: "FR123"})
	require.NoError(t, err)
	assert.Equal(t, "Atelier Martin", created.Name)

	updated, err := svc.Upsert(ctx, p, appcompany.ProfileRequest{Name: "Atelier Martin SARL"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Atelier Martin SARL", updated.Name)

	got, err := svc.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Atelier Martin SARL", got.Name)
}

func TestProfileService_UploadAsset(t *testing.T) {
	svc, blobs := newProfileService(t)
	ctx := context.Background()
	p := identity.Principal{UserID: uuid.New()}

	_, err := svc.UploadAsset(ctx, p, company.AssetLogo, common.Upload{Filename: "logo.png", Data: pngBytes})
	assert.ErrorIs(t, err, shared.ErrNotFound, "the profile must exist first")

	_, err = svc.Upsert(ctx, p, appcompany.ProfileRequest{Name: "Atelier Martin"})
	require.NoError(t, err)

	resp, err := svc.UploadAsset(ctx, p, company.AssetLogo, common.Upload{Filename: "logo.png", Data: pngBytes})
	require.NoError(t, err)
	key := p.UserID.String() + "/logo.png"
	assert.Equal(t, "https://files.example.com/"+key, resp.LogoURL)
	obj, ok := blobs.Get(key)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)

	resp, err = svc.UploadAsset(ctx, p, company.AssetLogo, common.Upload{Filename: "logo.jpeg", Data: jpegBytes})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/"+p.UserID.String()+"/logo.jpg", resp.LogoURL)
	_, ok = blobs.Get(key)
	assert.False(t, ok, "the png logo was replaced")
	assert.Equal(t, 1, blobs.Len())

	resp, err = svc.UploadAsset(ctx, p, company.AssetStamp, common.Upload{Data: pngBytes})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.StampURL)
	assert.Empty(t, resp.SignatureURL)
}

func TestProfileService_UploadAsset_Rejections(t *testing.T) {
	svc, blobs := newProfileService(t)
	ctx := context.Background()
	p := identity.Principal{UserID: uuid.New()}
	_, err := svc.Upsert(ctx, p, appcompany.ProfileRequest{Name: "Atelier Martin"})
	require.NoError(t, err)

	tests := []struct {
		name string
		kind company.AssetKind
		data []byte
		code string
	}{
		{name: "unknown kind", kind: "banner", data: pngBytes, code: "INVALID_ASSET_KIND"},
		{name: "empty file", kind: company.AssetLogo, data: nil, code: "EMPTY_UPLOAD"},
		{name: "not an image", kind: company.AssetLogo, data: []byte("plain text"), code: "UNSUPPORTED_FILE_TYPE"},
		{name: "too large", kind: company.AssetLogo, data: append(append([]byte{}, pngBytes...), make([]byte, 2048)...), code: "UPLOAD_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadAsset(ctx, p, tt.kind, common.Upload{Data: tt.data})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
	assert.Zero(t, blobs.Len())
}
