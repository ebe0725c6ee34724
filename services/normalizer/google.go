package normalizer

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"flexreviews/models"
)

// GooglePlaceDetails is the relevant slice of the Place Details response
type GooglePlaceDetails struct {
	Result struct {
		Name    string         `json:"name"`
		Rating  float64        `json:"rating"`
		Reviews []GoogleReview `json:"reviews"`
	} `json:"result"`
	Status string `json:"status"`
}

// GoogleReview is the raw per-review shape from the Place Details API
type GoogleReview struct {
	AuthorName string  `json:"author_name" validate:"required"`
	Rating     float64 `json:"rating" validate:"required,min=1,max=5"`
	Text       string  `json:"text" validate:"required"`
	Time       int64   `json:"time" validate:"required"`
}

// NormalizeGoogle maps Place Details reviews onto the canonical model.
// Google only exposes already-public reviews, so they enter as approved.
// Stars (1-5) are doubled onto the canonical 0-10 scale.
func NormalizeGoogle(listingID uint, entries []GoogleReview) ([]models.Review, []Reject) {
	reviews := make([]models.Review, 0, len(entries))
	var rejected []Reject

	for _, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			rejected = append(rejected, Reject{Reason: err.Error(), Entry: entry})
			continue
		}

		rating := entry.Rating * 2
		externalID := googleExternalID(listingID, entry)
		reviews = append(reviews, models.Review{
			ExternalID:  &externalID,
			Source:      models.SourceGoogle,
			ListingID:   listingID,
			Type:        models.ReviewTypeGuestToHost,
			Status:      models.ReviewStatusApproved,
			Rating:      &rating,
			Content:     entry.Text,
			AuthorName:  entry.AuthorName,
			SubmittedAt: time.Unix(entry.Time, 0).UTC(),
		})
	}

	return reviews, rejected
}

// googleExternalID synthesizes a deterministic idempotency key. Google
// assigns no review id, so repeated ingestion must derive the same key from
// immutable fields.
func googleExternalID(listingID uint, entry GoogleReview) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%s|%d", listingID, entry.AuthorName, entry.Time)))
	return hex.EncodeToString(sum[:])
}
