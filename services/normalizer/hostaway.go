package normalizer

import (
	"math"
	"strconv"
	"time"

	"flexreviews/models"
)

const hostawayTimeLayout = "2006-01-02 15:04:05"

// HostawayResponse is the envelope returned by the Hostaway reviews API
type HostawayResponse struct {
	Status string           `json:"status"`
	Result []HostawayReview `json:"result"`
}

// HostawayReview is the raw per-review shape from Hostaway
type HostawayReview struct {
	ID             int                `json:"id" validate:"required"`
	Type           string             `json:"type" validate:"required,oneof=host-to-guest guest-to-host"`
	Status         string             `json:"status"`
	Rating         *float64           `json:"rating" validate:"omitempty,min=0,max=10"`
	PublicReview   string             `json:"publicReview" validate:"required"`
	ReviewCategory []HostawayCategory `json:"reviewCategory" validate:"dive"`
	SubmittedAt    string             `json:"submittedAt" validate:"required"`
	GuestName      string             `json:"guestName" validate:"required"`
	ListingID      uint               `json:"listingId" validate:"required"`
	ListingName    string             `json:"listingName"`
}

type HostawayCategory struct {
	Category string  `json:"category" validate:"required"`
	Rating   float64 `json:"rating" validate:"min=0,max=10"`
}

// NormalizeHostaway maps raw Hostaway entries onto the canonical review
// model. Malformed entries are routed to the reject list with a reason.
// Hostaway reviews always enter the moderation queue as pending.
func NormalizeHostaway(entries []HostawayReview, opts Options) ([]models.Review, []Reject) {
	reviews := make([]models.Review, 0, len(entries))
	var rejected []Reject

	for _, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			rejected = append(rejected, Reject{Reason: err.Error(), Entry: entry})
			continue
		}
		if entry.Status != "" && entry.Status != "published" {
			rejected = append(rejected, Reject{Reason: "only published hostaway reviews are ingested", Entry: entry})
			continue
		}
		submittedAt, err := time.Parse(hostawayTimeLayout, entry.SubmittedAt)
		if err != nil {
			rejected = append(rejected, Reject{Reason: "invalid submittedAt timestamp", Entry: entry})
			continue
		}

		rating := entry.Rating
		if rating == nil && opts.DeriveRatingFromCategories && len(entry.ReviewCategory) > 0 {
			avg := averageCategoryRating(entry.ReviewCategory)
			rating = &avg
		}

		categories := make([]models.ReviewCategory, 0, len(entry.ReviewCategory))
		for _, cat := range entry.ReviewCategory {
			categories = append(categories, models.ReviewCategory{
				Category: cat.Category,
				Rating:   cat.Rating,
			})
		}

		externalID := strconv.Itoa(entry.ID)
		reviews = append(reviews, models.Review{
			ExternalID:  &externalID,
			Source:      models.SourceHostaway,
			ListingID:   entry.ListingID,
			Type:        models.ReviewType(entry.Type),
			Status:      models.ReviewStatusPending,
			Rating:      rating,
			Content:     entry.PublicReview,
			AuthorName:  entry.GuestName,
			Categories:  categories,
			SubmittedAt: submittedAt,
		})
	}

	return reviews, rejected
}

func averageCategoryRating(categories []HostawayCategory) float64 {
	var sum float64
	for _, cat := range categories {
		sum += cat.Rating
	}
	avg := sum / float64(len(categories))
	return math.Round(avg*10) / 10
}
