package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"flexreviews/models"
	"flexreviews/services/normalizer"
	"flexreviews/services/store"
)

// Fetcher pulls a raw review payload from an external provider. The concrete
// clients live in utils and carry bounded timeouts.
type Fetcher interface {
	FetchReviews(ctx context.Context) ([]byte, error)
}

// Result is what one sync run produced
type Result struct {
	Reviews  []models.Review     `json:"reviews"`
	Rejected []normalizer.Reject `json:"rejected,omitempty"`
	Stats    *store.Stats        `json:"stats"`
}

// Service orchestrates fetch -> normalize -> upsert for the Hostaway source.
// Upserts run row by row, so a provider failure mid-batch leaves the
// committed rows consistent and the next run resumes idempotently.
type Service struct {
	store   *store.ReviewStore
	fetcher Fetcher
	opts    normalizer.Options
}

func New(reviewStore *store.ReviewStore, fetcher Fetcher, opts normalizer.Options) *Service {
	return &Service{store: reviewStore, fetcher: fetcher, opts: opts}
}

// SyncHostaway ingests the current Hostaway review set. One bad record never
// aborts the batch: normalization rejects and per-row store failures are both
// reported in the result's reject list.
func (s *Service) SyncHostaway(ctx context.Context) (*Result, error) {
	payload, err := s.fetcher.FetchReviews(ctx)
	if err != nil {
		return nil, err
	}

	var envelope normalizer.HostawayResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed hostaway payload: %v", models.ErrValidation, err)
	}
	reviews, rejected := normalizer.NormalizeHostaway(envelope.Result, s.opts)

	// Listing names ride along on the raw entries, not the canonical model
	listingNames := make(map[uint]string)
	for _, entry := range envelope.Result {
		if entry.ListingName != "" {
			listingNames[entry.ListingID] = entry.ListingName
		}
	}

	stored := make([]models.Review, 0, len(reviews))
	for i := range reviews {
		review := &reviews[i]
		if err := s.store.EnsureListing(review.ListingID, listingNames[review.ListingID]); err != nil {
			rejected = append(rejected, normalizer.Reject{Reason: err.Error(), Entry: review})
			continue
		}
		saved, err := s.store.Upsert(review)
		if err != nil {
			log.Printf("[INGESTION] Failed to upsert hostaway review %v: %v", review.ExternalID, err)
			rejected = append(rejected, normalizer.Reject{Reason: err.Error(), Entry: review})
			continue
		}
		stored = append(stored, *saved)
	}

	stats, err := s.store.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to compute review stats: %w", err)
	}

	return &Result{Reviews: stored, Rejected: rejected, Stats: stats}, nil
}
