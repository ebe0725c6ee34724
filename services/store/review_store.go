package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	"flexreviews/models"

	"gorm.io/gorm"
)

// MaxPublicLimit caps how many reviews the public read path may return
const MaxPublicLimit = 50

const defaultPageSize = 20

// ReviewStore is the persistence layer for reviews, keyed by the
// (source, external_id) pair for idempotent upserts.
type ReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// ListingFilter narrows GetByListing results
type ListingFilter struct {
	Status    models.ReviewStatus
	Type      models.ReviewType
	MinRating *float64
	MaxRating *float64
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// Stats are the dashboard aggregates returned alongside ingestion results
type Stats struct {
	Total         int64   `json:"total"`
	Pending       int64   `json:"pending"`
	Approved      int64   `json:"approved"`
	AverageRating float64 `json:"averageRating"`
	ThisWeek      int64   `json:"thisWeek"`
}

// Upsert inserts a new review or updates the row matched by
// (source, external_id). A duplicate-key race on insert is retried as an
// update inside the same transaction. Re-ingesting a review whose stored
// status moved beyond pending never reverts the moderation decision.
func (s *ReviewStore) Upsert(review *models.Review) (*models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("source = ? AND external_id = ?", review.Source, review.ExternalID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			createErr := tx.Create(review).Error
			if createErr == nil {
				return nil
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			// Lost the insert race; fall through to the update path
			if err := tx.Where("source = ? AND external_id = ?", review.Source, review.ExternalID).
				First(&existing).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return mergeExisting(tx, review, &existing)
	})
	if err != nil {
		return nil, classify(err)
	}
	return review, nil
}

// mergeExisting refreshes provider-supplied fields while keeping the stored
// moderation state and audit fields whenever the manager already acted.
func mergeExisting(tx *gorm.DB, incoming, existing *models.Review) error {
	if existing.Status != models.ReviewStatusPending {
		incoming.Status = existing.Status
		incoming.ApprovedBy = existing.ApprovedBy
		incoming.ApprovedAt = existing.ApprovedAt
		incoming.RejectedBy = existing.RejectedBy
		incoming.RejectedAt = existing.RejectedAt
		incoming.RejectionReason = existing.RejectionReason
	}
	incoming.IsPublic = existing.IsPublic
	incoming.Notes = existing.Notes
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	return tx.Save(incoming).Error
}

// GetByID fetches a single review
func (s *ReviewStore) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		return nil, classify(err)
	}
	return &review, nil
}

// GetByListing returns reviews for a listing with filters and pagination,
// ordered by submitted_at descending.
func (s *ReviewStore) GetByListing(listingID uint, filter ListingFilter) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("listing_id = ?", listingID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		query = query.Where("rating <= ?", *filter.MaxRating)
	}
	if filter.From != nil {
		query = query.Where("submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("submitted_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	var reviews []models.Review
	if err := query.
		Order("submitted_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, classify(err)
	}
	return reviews, total, nil
}

// GetPublic returns only approved, publicly visible reviews, newest first.
// The limit is clamped to [1, MaxPublicLimit].
func (s *ReviewStore) GetPublic(listingID uint, limit int) ([]models.Review, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPublicLimit {
		limit = MaxPublicLimit
	}

	var reviews []models.Review
	if err := s.db.
		Where("listing_id = ? AND status = ? AND is_public = ?", listingID, models.ReviewStatusApproved, true).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, classify(err)
	}
	return reviews, nil
}

// Stats computes the dashboard aggregates across all listings
func (s *ReviewStore) Stats() (*Stats, error) {
	stats := &Stats{}

	if err := s.db.Model(&models.Review{}).Count(&stats.Total).Error; err != nil {
		return nil, classify(err)
	}
	if err := s.db.Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusPending).
		Count(&stats.Pending).Error; err != nil {
		return nil, classify(err)
	}
	if err := s.db.Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusApproved).
		Count(&stats.Approved).Error; err != nil {
		return nil, classify(err)
	}
	if err := s.db.Model(&models.Review{}).
		Where("submitted_at >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&stats.ThisWeek).Error; err != nil {
		return nil, classify(err)
	}

	var avg float64
	if err := s.db.Model(&models.Review{}).
		Where("rating IS NOT NULL").
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return nil, classify(err)
	}
	stats.AverageRating = math.Round(avg*100) / 100

	return stats, nil
}

// EnsureListing creates the listing row for a provider listing id if it does
// not exist yet, so review rows always have a resolvable listing reference.
func (s *ReviewStore) EnsureListing(listingID uint, name string) error {
	listing := models.Listing{Model: gorm.Model{ID: listingID}, Name: name}
	if err := s.db.Where("id = ?", listingID).FirstOrCreate(&listing).Error; err != nil {
		return classify(err)
	}
	return nil
}

// classify maps storage errors onto the shared taxonomy: missing rows become
// ErrNotFound, everything else is treated as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: review", models.ErrNotFound)
	}
	return fmt.Errorf("%w: %v", models.ErrTransient, err)
}
