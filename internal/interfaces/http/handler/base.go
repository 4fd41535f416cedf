// Package handler holds the gin handlers of the HTTP API.
package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/logger"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/facturo/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// principal returns the authenticated caller set by the auth middleware
func principal(c *gin.Context) identity.Principal {
	return middleware.GetPrincipal(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError answers with the status of a domain error. Anything else is
// logged and reported as a generic 500 carrying the request ID.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.Enrich(c.Request.Context(), h.logger).Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON binds and validates the request body; on failure it has already
// answered.
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates the query string; on failure it has
// already answered.
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathID parses a UUID path parameter; on failure it has already answered.
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// formFile reads a multipart file into memory, refusing files larger than
// maxSize. A missing optional file returns (nil, true).
func (h *BaseHandler) formFile(c *gin.Context, field string, maxSize int64, required bool) (*common.Upload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, true
		}
		if errors.Is(err, http.ErrMissingFile) {
			h.Error(c, http.StatusBadRequest, "EMPTY_UPLOAD", "File field "+field+" is required")
			return nil, false
		}
		h.BadRequest(c, "Malformed multipart form")
		return nil, false
	}
	if maxSize > 0 && header.Size > maxSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Uploaded file is too large")
		return nil, false
	}
	data, err := readFormFile(header, maxSize)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return &common.Upload{Filename: header.Filename, Data: data}, true
}

func readFormFile(header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if maxSize > 0 {
		// One byte past the limit lets the service reject oversize files.
		r = io.LimitReader(f, maxSize+1)
	}
	return io.ReadAll(r)
}

// writePage sends a page of items with pagination meta
func writePage[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}
