package query

import (
	"time"

	"flexreviews/models"
	"flexreviews/services/store"
)

// DefaultLimit is used when the caller does not request one
const DefaultLimit = 10

// PublicReview is the external-facing review shape. Internal ids and
// moderation audit fields are stripped before anything crosses the trust
// boundary.
type PublicReview struct {
	AuthorName  string                  `json:"authorName"`
	Rating      *float64                `json:"rating"`
	Content     string                  `json:"content"`
	Categories  []models.ReviewCategory `json:"categories"`
	SubmittedAt time.Time               `json:"submittedAt"`
	Source      string                  `json:"source"`
}

// Service is the only read path reachable by unauthenticated callers
type Service struct {
	store *store.ReviewStore
}

func New(reviewStore *store.ReviewStore) *Service {
	return &Service{store: reviewStore}
}

// ClampLimit normalizes a caller-requested limit into [1, MaxPublicLimit]
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > store.MaxPublicLimit {
		return store.MaxPublicLimit
	}
	return limit
}

// GetPublicReviews returns approved, publicly visible reviews for a listing,
// newest first, shaped for external consumption.
func (s *Service) GetPublicReviews(listingID uint, limit int) ([]PublicReview, error) {
	reviews, err := s.store.GetPublic(listingID, ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	public := make([]PublicReview, 0, len(reviews))
	for _, review := range reviews {
		public = append(public, PublicReview{
			AuthorName:  review.AuthorName,
			Rating:      review.Rating,
			Content:     review.Content,
			Categories:  review.Categories,
			SubmittedAt: review.SubmittedAt,
			Source:      review.Source,
		})
	}
	return public, nil
}
