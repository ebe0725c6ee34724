package moderation

import (
	"testing"
	"time"

	"flexreviews/database"
	"flexreviews/models"
	"flexreviews/services/store"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, allowReversal bool) (*Service, *store.ReviewStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	reviewStore := store.NewReviewStore(db)
	return New(db, reviewStore, allowReversal), reviewStore
}

func seedReview(t *testing.T, s *store.ReviewStore, externalID string) *models.Review {
	t.Helper()
	rating := 9.0
	review, err := s.Upsert(&models.Review{
		ExternalID:  &externalID,
		Source:      models.SourceHostaway,
		ListingID:   5,
		Type:        models.ReviewTypeGuestToHost,
		Status:      models.ReviewStatusPending,
		Rating:      &rating,
		Content:     "Great stay.",
		AuthorName:  "Shane Finkelstein",
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return review
}

func TestApproveSetsAuditFields(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")

	approved, err := svc.Approve(review.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, uint(1), *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	require.Nil(t, approved.RejectedBy)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")

	first, err := svc.Approve(review.ID, 1)
	require.NoError(t, err)

	second, err := svc.Approve(review.ID, 2)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, second.Status)
	require.Equal(t, *first.ApprovedBy, *second.ApprovedBy) // original approver kept
}

func TestApproveUnknownReview(t *testing.T) {
	svc, _ := newTestService(t, false)
	_, err := svc.Approve(999, 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")

	_, err := svc.Reject(review.ID, 1, "   ")
	require.ErrorIs(t, err, models.ErrValidation)

	stored, err := reviewStore.GetByID(review.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, stored.Status)
}

func TestRejectSetsAuditFieldsAndIsIdempotent(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")

	rejected, err := svc.Reject(review.ID, 1, "spam content")
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusRejected, rejected.Status)
	require.Equal(t, "spam content", rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedBy)
	require.NotNil(t, rejected.RejectedAt)

	again, err := svc.Reject(review.ID, 2, "another reason")
	require.NoError(t, err)
	require.Equal(t, "spam content", again.RejectionReason) // no-op keeps original
}

func TestConflictingTransitionsFail(t *testing.T) {
	svc, reviewStore := newTestService(t, false)

	approved := seedReview(t, reviewStore, "101")
	_, err := svc.Approve(approved.ID, 1)
	require.NoError(t, err)
	_, err = svc.Reject(approved.ID, 1, "changed my mind")
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	rejected := seedReview(t, reviewStore, "102")
	_, err = svc.Reject(rejected.ID, 1, "spam")
	require.NoError(t, err)
	_, err = svc.Approve(rejected.ID, 1)
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	// Original states unchanged
	stored, err := reviewStore.GetByID(approved.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, stored.Status)
}

func TestSetPublicRequiresApproval(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")

	_, err := svc.SetPublic(review.ID, true)
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.Approve(review.ID, 1)
	require.NoError(t, err)

	// Approved but not yet public: absent from the public read path
	public, err := reviewStore.GetPublic(5, 10)
	require.NoError(t, err)
	require.Empty(t, public)

	updated, err := svc.SetPublic(review.ID, true)
	require.NoError(t, err)
	require.True(t, updated.IsPublic)
	require.Equal(t, models.ReviewStatusApproved, updated.Status) // toggle is not a state change

	public, err = reviewStore.GetPublic(5, 10)
	require.NoError(t, err)
	require.Len(t, public, 1)

	updated, err = svc.SetPublic(review.ID, false)
	require.NoError(t, err)
	require.False(t, updated.IsPublic)
}

func TestReversalDisabled(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	review := seedReview(t, reviewStore, "101")
	_, err := svc.Approve(review.ID, 1)
	require.NoError(t, err)

	_, err = svc.Revoke(review.ID, 1)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	_, err = svc.Reopen(review.ID, 1)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestRevokeClearsApproval(t *testing.T) {
	svc, reviewStore := newTestService(t, true)
	review := seedReview(t, reviewStore, "101")

	_, err := svc.Approve(review.ID, 1)
	require.NoError(t, err)
	_, err = svc.SetPublic(review.ID, true)
	require.NoError(t, err)

	revoked, err := svc.Revoke(review.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, revoked.Status)
	require.Nil(t, revoked.ApprovedBy)
	require.Nil(t, revoked.ApprovedAt)
	require.False(t, revoked.IsPublic)

	public, err := reviewStore.GetPublic(5, 10)
	require.NoError(t, err)
	require.Empty(t, public)
}

func TestReopenClearsRejection(t *testing.T) {
	svc, reviewStore := newTestService(t, true)
	review := seedReview(t, reviewStore, "101")

	_, err := svc.Reject(review.ID, 1, "spam")
	require.NoError(t, err)

	reopened, err := svc.Reopen(review.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, reopened.Status)
	require.Nil(t, reopened.RejectedBy)
	require.Nil(t, reopened.RejectedAt)
	require.Empty(t, reopened.RejectionReason)

	// Reopened reviews can be approved again
	_, err = svc.Approve(review.ID, 2)
	require.NoError(t, err)
}

func TestBulkModerateReturnsPerItemResults(t *testing.T) {
	svc, reviewStore := newTestService(t, false)
	first := seedReview(t, reviewStore, "101")
	second := seedReview(t, reviewStore, "102")

	results := svc.BulkModerate(1, []BulkAction{
		{ReviewID: first.ID, Action: ActionApprove},
		{ReviewID: second.ID, Action: ActionReject}, // missing reason
		{ReviewID: 999, Action: ActionApprove},      // unknown review
		{ReviewID: first.ID, Action: "PUBLISH"},     // unknown action
	})

	require.Len(t, results, 4)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
	require.False(t, results[2].Success)
	require.False(t, results[3].Success)

	// One item's failure never blocks the others
	stored, err := reviewStore.GetByID(first.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusApproved, stored.Status)
	stored, err = reviewStore.GetByID(second.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewStatusPending, stored.Status)
}
