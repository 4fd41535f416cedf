// Package company holds the issuing company profile printed on every document.
package company

import (
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssetKind names an image attached to the company profile
type AssetKind string

const (
	AssetLogo      AssetKind = "logo"
	AssetSignature AssetKind = "signature"
	AssetStamp     AssetKind = "stamp"
)

// ErrInvalidAssetKind is returned for an unknown asset kind
var ErrInvalidAssetKind = shared.NewDomainError("INVALID_ASSET_KIND", "Asset must be logo, signature or stamp")

// IsValid checks if the AssetKind is a valid value
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetLogo, AssetSignature, AssetStamp:
		return true
	}
	return false
}

// Details carries the editable text fields of a profile
type Details struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
	TaxID   string
}

func (d Details) normalize() (Details, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Website = strings.TrimSpace(d.Website)
	d.TaxID = strings.TrimSpace(d.TaxID)

	if d.Name == "" {
		return d, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(d.Name) > 200 {
		return d, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	if len(d.Address) > 500 {
		return d, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return d, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(d.TaxID) > 50 {
		return d, shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	return d, nil
}

// Profile is the company that issues the user's documents. A user has zero or one.
type Profile struct {
	shared.OwnedAggregateRoot
	Details
	LogoURL      string
	SignatureURL string
	StampURL     string
}

// NewProfile creates the profile of userID
func NewProfile(userID uuid.UUID, details Details) (*Profile, error) {
	details, err := details.normalize()
	if err != nil {
		return nil, err
	}
	return &Profile{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Details:            details,
	}, nil
}

// Update replaces the text fields; asset URLs are kept
func (p *Profile) Update(details Details) error {
	details, err := details.normalize()
	if err != nil {
		return err
	}
	p.Details = details
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetAsset records the public URL of an uploaded image
func (p *Profile) SetAsset(kind AssetKind, url string) error {
	switch kind {
	case AssetLogo:
		p.LogoURL = url
	case AssetSignature:
		p.SignatureURL = url
	case AssetStamp:
		p.StampURL = url
	default:
		return ErrInvalidAssetKind
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// AssetURL returns the URL stored for kind
func (p *Profile) AssetURL(kind AssetKind) string {
	switch kind {
	case AssetLogo:
		return p.LogoURL
	case AssetSignature:
		return p.SignatureURL
	case AssetStamp:
		return p.StampURL
	}
	return ""
}
