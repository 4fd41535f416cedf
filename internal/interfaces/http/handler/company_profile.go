package handler

import (
	"context"

	"github.com/facturo/backend/internal/application/common"
	companyapp "github.com/facturo/backend/internal/application/company"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileService manages the issuer identity printed on documents
type ProfileService interface {
	Get(ctx context.Context, p identity.Principal) (*companyapp.ProfileResponse, error)
	Upsert(ctx context.Context, p identity.Principal, req companyapp.ProfileRequest) (*companyapp.ProfileResponse, error)
	UploadAsset(ctx context.Context, p identity.Principal, kind company.AssetKind, file common.Upload) (*companyapp.ProfileResponse, error)
}

// CompanyProfileHandler handles /api/v1/company-profile
type CompanyProfileHandler struct {
	BaseHandler
	profileService ProfileService
	maxUpload      int64
}

// NewCompanyProfileHandler creates a new CompanyProfileHandler
func NewCompanyProfileHandler(profileService ProfileService, maxUpload int64, log *zap.Logger) *CompanyProfileHandler {
	return &CompanyProfileHandler{
		BaseHandler:    newBaseHandler(log),
		profileService: profileService,
		maxUpload:      maxUpload,
	}
}

// Get godoc
// @Summary      Get the company profile
// @Description  Returns the caller's company profile
// @Tags         company
// @Produce      json
// @Success      200 {object} dto.Response{data=companyapp.ProfileResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /company-profile [get]
func (h *CompanyProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Upsert godoc
// @Summary      Create or replace the company profile
// @Description  Creates or replaces the caller's company profile
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        request body companyapp.ProfileRequest true "Company profile"
// @Success      200 {object} dto.Response{data=companyapp.ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /company-profile [put]
func (h *CompanyProfileHandler) Upsert(c *gin.Context) {
	var req companyapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Upsert(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UploadAsset godoc
// @Summary      Upload a company asset
// @Description  Stores a logo, signature or stamp from the "file" form field
// @Tags         company
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind path string true "Asset kind" Enums(logo, signature, stamp)
// @Param        file formData file true "PNG, JPEG, GIF, WebP or SVG image"
// @Success      200 {object} dto.Response{data=companyapp.ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /company-profile/assets/{kind} [post]
func (h *CompanyProfileHandler) UploadAsset(c *gin.Context) {
	kind := company.AssetKind(c.Param("kind"))
	file, ok := h.formFile(c, "file", h.maxUpload, true)
	if !ok {
		return
	}
	profile, err := h.profileService.UploadAsset(c.Request.Context(), principal(c), kind, *file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
