package dto

import (
	"time"

	"github.com/noah-isme/lris-api/internal/models"
)

// RecordDistributionRequest is the payload for a new ledger entry.
type RecordDistributionRequest struct {
	SchoolID         string          `json:"SchoolID" validate:"required,max=50"`
	ResourceCategory models.Category `json:"ResourceCategory" validate:"required,max=50"`
	ResourceItemID   *int64          `json:"ResourceItemID"`
	ResourceName     *string         `json:"ResourceName" validate:"omitempty,max=255"`
	Quantity         int             `json:"Quantity" validate:"gt=0,lte=2147483647"`
	DateDistributed  *time.Time      `json:"DateDistributed"`
	Notes            *string         `json:"Notes"`
}
