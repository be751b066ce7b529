package models

import "time"

// DistributionRecord is an append-only ledger entry. SchoolID and
// ResourceItemID are weak references: nothing cascades when the referenced
// rows change or disappear.
type DistributionRecord struct {
	ID               int64     `db:"distribution_id" json:"DistributionID"`
	SchoolID         string    `db:"school_id" json:"SchoolID"`
	ResourceCategory Category  `db:"resource_category" json:"ResourceCategory"`
	ResourceItemID   *int64    `db:"resource_item_id" json:"ResourceItemID"`
	ResourceName     *string   `db:"resource_name" json:"ResourceName"`
	Quantity         int       `db:"quantity" json:"Quantity"`
	DateDistributed  time.Time `db:"date_distributed" json:"DateDistributed"`
	Notes            *string   `db:"notes" json:"Notes"`
}
