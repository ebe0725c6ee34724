package store

import (
	"testing"
	"time"

	"flexreviews/database"
	"flexreviews/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *ReviewStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewReviewStore(db)
}

func makeReview(externalID string, listingID uint, submittedAt time.Time) *models.Review {
	rating := 9.0
	return &models.Review{
		ExternalID:  &externalID,
		Source:      models.SourceHostaway,
		ListingID:   listingID,
		Type:        models.ReviewTypeGuestToHost,
		Status:      models.ReviewStatusPending,
		Rating:      &rating,
		Content:     "Great stay, would come back.",
		AuthorName:  "Shane Finkelstein",
		SubmittedAt: submittedAt,
	}
}

func TestUpsertInsertsAndOrdersByListing(t *testing.T) {
	s := newTestStore(t)
	older := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Upsert(makeReview("101", 5, older))
	require.NoError(t, err)
	_, err = s.Upsert(makeReview("102", 5, newer))
	require.NoError(t, err)

	reviews, total, err := s.GetByListing(5, ListingFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, reviews, 2)
	require.Equal(t, "102", *reviews[0].ExternalID) // newest first
	require.Equal(t, "101", *reviews[1].ExternalID)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.Upsert(makeReview("101", 5, submitted))
	require.NoError(t, err)

	update := makeReview("101", 5, submitted)
	update.Content = "Edited provider content."
	second, err := s.Upsert(update)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, total, err := s.GetByListing(5, ListingFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	stored, err := s.GetByID(first.ID)
	require.NoError(t, err)
	require.Equal(t, "Edited provider content.", stored.Content)
}

func TestUpsertNeverRevertsModerationDecision(t *testing.T) {
	s := newTestStore(t)
	submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	saved, err := s.Upsert(makeReview("101", 5, submitted))
	require.NoError(t, err)

	// Simulate a manager decision between ingestion runs
	managerID := uint(1)
	approvedAt := time.Now()
	require.NoError(t, s.db.Model(&models.Review{}).Where("id = ?", saved.ID).Updates(map[string]interface{}{
		"status":      models.ReviewStatusApproved,
		"approved_by": managerID,
		"approved_at": approvedAt,
		"is_public":   true,
		"notes":       "verified guest",
	}).Error)

	reingested, err := s.Upsert(makeReview("101", 5, submitted))
	require.NoError(t, err)

	require.Equal(t, models.ReviewStatusApproved, reingested.Status)
	require.NotNil(t, reingested.ApprovedBy)
	require.Equal(t, managerID, *reingested.ApprovedBy)
	require.NotNil(t, reingested.ApprovedAt)
	require.True(t, reingested.IsPublic)
	require.Equal(t, "verified guest", reingested.Notes)
}

func TestGetPublicFiltersAndClamps(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	pending := makeReview("201", 5, base)
	approvedHidden := makeReview("202", 5, base.Add(time.Hour))
	approvedHidden.Status = models.ReviewStatusApproved
	approvedPublic := makeReview("203", 5, base.Add(2*time.Hour))
	approvedPublic.Status = models.ReviewStatusApproved
	approvedPublic.IsPublic = true
	rejectedPublic := makeReview("204", 5, base.Add(3*time.Hour))
	rejectedPublic.Status = models.ReviewStatusRejected
	rejectedPublic.IsPublic = true
	olderPublic := makeReview("205", 5, base.Add(-time.Hour))
	olderPublic.Status = models.ReviewStatusApproved
	olderPublic.IsPublic = true

	for _, r := range []*models.Review{pending, approvedHidden, approvedPublic, rejectedPublic, olderPublic} {
		_, err := s.Upsert(r)
		require.NoError(t, err)
	}

	reviews, err := s.GetPublic(5, 500) // clamped to MaxPublicLimit
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "203", *reviews[0].ExternalID)
	require.Equal(t, "205", *reviews[1].ExternalID)

	reviews, err = s.GetPublic(5, 0) // clamped up to 1
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "203", *reviews[0].ExternalID)
}

func TestGetByListingFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	lowRated := makeReview("301", 7, base)
	low := 4.0
	lowRated.Rating = &low
	hostToGuest := makeReview("302", 7, base.Add(time.Hour))
	hostToGuest.Type = models.ReviewTypeHostToGuest
	approved := makeReview("303", 7, base.Add(48*time.Hour))
	approved.Status = models.ReviewStatusApproved

	for _, r := range []*models.Review{lowRated, hostToGuest, approved} {
		_, err := s.Upsert(r)
		require.NoError(t, err)
	}

	reviews, _, err := s.GetByListing(7, ListingFilter{Status: models.ReviewStatusApproved})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "303", *reviews[0].ExternalID)

	reviews, _, err = s.GetByListing(7, ListingFilter{Type: models.ReviewTypeHostToGuest})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "302", *reviews[0].ExternalID)

	min := 8.0
	reviews, _, err = s.GetByListing(7, ListingFilter{MinRating: &min})
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	from := base.Add(24 * time.Hour)
	reviews, _, err = s.GetByListing(7, ListingFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "303", *reviews[0].ExternalID)
}

func TestGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetByID(999)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	recent := makeReview("401", 5, time.Now().Add(-24*time.Hour))
	old := makeReview("402", 5, time.Now().AddDate(0, -2, 0))
	approved := makeReview("403", 5, time.Now().AddDate(0, -1, 0))
	approved.Status = models.ReviewStatusApproved
	unrated := makeReview("404", 5, time.Now().Add(-48*time.Hour))
	unrated.Rating = nil

	for _, r := range []*models.Review{recent, old, approved, unrated} {
		_, err := s.Upsert(r)
		require.NoError(t, err)
	}

	stats, err := s.Stats()
	require.NoError(t, err)
	require.EqualValues(t, 4, stats.Total)
	require.EqualValues(t, 3, stats.Pending)
	require.EqualValues(t, 1, stats.Approved)
	require.EqualValues(t, 2, stats.ThisWeek)
	require.InDelta(t, 9.0, stats.AverageRating, 0.001) // null ratings excluded
}

func TestEnsureListing(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureListing(5, "Shoreditch Heights"))
	require.NoError(t, s.EnsureListing(5, "renamed")) // second call is a no-op

	var listing models.Listing
	require.NoError(t, s.db.First(&listing, 5).Error)
	require.Equal(t, "Shoreditch Heights", listing.Name)
}
