package entity

import (
	"time"

	"github.com/google/uuid"
)

// Receipt represents a receipt for data transfer between layers.
type Receipt struct {
	ID           uuid.UUID `json:"id"`
	ProfileID    uuid.UUID `json:"profile_id"`
	MerchantName string    `json:"merchant_name"`
	Amount       float64   `json:"amount"`
	ReceiptDate  time.Time `json:"receipt_date"`
	Tax          *float64  `json:"tax,omitempty"`
	IsBusiness   bool      `json:"is_business"`
	Notes        string    `json:"notes"`
	FilePath     string    `json:"file_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
