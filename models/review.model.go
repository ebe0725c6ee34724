package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewStatus defines the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewType defines the direction of a review
type ReviewType string

const (
	ReviewTypeGuestToHost ReviewType = "guest-to-host"
	ReviewTypeHostToGuest ReviewType = "host-to-guest"
)

// Review sources
const (
	SourceHostaway = "hostaway"
	SourceGoogle   = "google"
)

// ReviewCategory is one per-category score inside a review (scale 0-10)
type ReviewCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

type Review struct {
	gorm.Model
	// Provider review id; unique together with Source for idempotent upserts
	ExternalID  *string                             `gorm:"uniqueIndex:idx_reviews_source_external;index" json:"externalId"`
	Source      string                              `gorm:"type:varchar(20);not null;uniqueIndex:idx_reviews_source_external" json:"source"`
	ListingID   uint                                `gorm:"not null;index" json:"listingId"`
	Type        ReviewType                          `gorm:"type:varchar(20);not null;index" json:"type"`
	Status      ReviewStatus                        `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Rating      *float64                            `gorm:"index" json:"rating"` // 0-10, nullable
	Content     string                              `gorm:"type:text;not null" json:"content"`
	AuthorName  string                              `gorm:"default:''" json:"authorName"`
	AuthorEmail *string                             `json:"authorEmail,omitempty"`
	Categories  datatypes.JSONSlice[ReviewCategory] `json:"categories"`
	SubmittedAt time.Time                           `gorm:"index" json:"submittedAt"`

	// Moderation audit fields, set only by the matching transition
	ApprovedBy      *uint      `json:"approvedBy"`
	ApprovedAt      *time.Time `json:"approvedAt"`
	RejectedBy      *uint      `json:"rejectedBy"`
	RejectedAt      *time.Time `json:"rejectedAt"`
	RejectionReason string     `gorm:"type:text" json:"rejectionReason,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`

	// Approved reviews are still withheld from the public widget until toggled
	IsPublic bool `gorm:"default:false;index" json:"isPublic"`
}
