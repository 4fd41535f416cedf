// Package company manages the issuer profile printed on every document.
package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProfileService handles company profile operations
type ProfileService struct {
	profileRepo   company.ProfileRepository
	blobs         common.BlobStore
	maxUploadSize int64
	logger        *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo company.ProfileRepository, blobs common.BlobStore, maxUploadSize int64, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		profileRepo:   profileRepo,
		blobs:         blobs,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, p identity.Principal) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// Upsert creates the caller's profile or replaces its text fields
func (s *ProfileService) Upsert(ctx context.Context, p identity.Principal, req ProfileRequest) (*ProfileResponse, error) {
	profile, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile, err = company.NewProfile(p.UserID, req.details())
	} else {
		err = profile.Update(req.details())
	}
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UploadAsset stores a logo, signature or stamp at {user_id}/{kind}.{ext},
// replacing the previous file, and records its public URL on the profile.
// The profile must exist.
func (s *ProfileService) UploadAsset(ctx context.Context, p identity.Principal, kind company.AssetKind, file common.Upload) (*ProfileResponse, error) {
	if !kind.IsValid() {
		return nil, company.ErrInvalidAssetKind
	}
	profile, err := s.profileRepo.FindByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	contentType, ext, err := file.Sniff(common.ImageTypes, s.maxUploadSize)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s.%s", p.UserID, kind, ext)
	url, err := s.blobs.Put(ctx, key, file.Data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}
	previous := profile.AssetURL(kind)
	if err := profile.SetAsset(kind, url); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.dropReplaced(ctx, previous, url, p, kind)

	s.logger.Info("company asset uploaded",
		zap.String("user_id", p.UserID.String()),
		zap.String("kind", string(kind)),
		zap.String("key", key))

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// dropReplaced deletes the previous file when the new upload changed its
// extension, so a png logo replaced by a jpg does not linger
func (s *ProfileService) dropReplaced(ctx context.Context, previous, current string, p identity.Principal, kind company.AssetKind) {
	if previous == "" || previous == current {
		return
	}
	for _, ext := range common.ImageTypes {
		key := fmt.Sprintf("%s/%s.%s", p.UserID, kind, ext)
		if strings.HasSuffix(previous, "/"+key) {
			if err := s.blobs.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to delete replaced asset", zap.String("key", key), zap.Error(err))
			}
			return
		}
	}
}

func (s *ProfileService) load(ctx context.Context, p identity.Principal) (*company.Profile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, p.UserID)
	if err == nil {
		return profile, nil
	}
	if shared.IsNotFound(err) {
		return nil, nil
	}
	return nil, err
}
