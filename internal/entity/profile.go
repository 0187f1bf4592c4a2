package entity

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier gates access to the remote OCR backend.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPro     SubscriptionTier = "pro"
	TierPremium SubscriptionTier = "premium"
)

// OCR engine names a profile can select.
const (
	EngineTesseract    = "tesseract"
	EngineGoogleVision = "google-vision"
)

// Profile represents a profile for data transfer between layers.
type Profile struct {
	ID                 uuid.UUID        `json:"id"`
	FullName           string           `json:"full_name"`
	BusinessName       *string          `json:"business_name,omitempty"`
	DefaultCurrency    string           `json:"default_currency"`
	SubscriptionTier   SubscriptionTier `json:"subscription_tier"`
	OCREngine          string           `json:"ocr_engine"`
	MonthlyUploadCount int              `json:"monthly_upload_count"`
	UploadLimit        int              `json:"upload_limit"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CanUseRemoteOCR reports whether the profile's tier and remaining quota
// allow a google-vision request this month.
func (p *Profile) CanUseRemoteOCR() bool {
	if p.SubscriptionTier != TierPro && p.SubscriptionTier != TierPremium {
		return false
	}
	return p.UploadLimit <= 0 || p.MonthlyUploadCount < p.UploadLimit
}
