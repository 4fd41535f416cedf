package common

import (
	"net/http"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
)

// Upload is a file received from a multipart form
type Upload struct {
	Filename string
	Data     []byte
}

// ImageTypes are accepted for company assets
var ImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ProofTypes are accepted for payment proofs
var ProofTypes = map[string]string{
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// Sniff detects the content type from the bytes, ignoring the client's
// claim, and returns it with the file extension to store it under.
func (u Upload) Sniff(allowed map[string]string, maxSize int64) (contentType, ext string, err error) {
	if len(u.Data) == 0 {
		return "", "", shared.NewDomainError("EMPTY_UPLOAD", "Uploaded file is empty")
	}
	if maxSize > 0 && int64(len(u.Data)) > maxSize {
		return "", "", shared.NewDomainError("UPLOAD_TOO_LARGE", "Uploaded file is too large")
	}
	contentType = http.DetectContentType(u.Data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowed[contentType]
	if !ok {
		return "", "", shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Unsupported file type "+contentType)
	}
	return contentType, ext, nil
}
