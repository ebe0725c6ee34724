package moderation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flexreviews/models"
	"flexreviews/services/store"

	"gorm.io/gorm"
)

// Service applies moderation state transitions:
//
//	pending  --approve--> approved
//	pending  --reject--> rejected
//	approved --setPublic--> approved (visibility toggle)
//	approved --revoke--> pending   (reversal, optional)
//	rejected --reopen--> pending   (reversal, optional)
//
// Status and audit fields change in a single conditional UPDATE so a review
// is never observable as approved without an approver.
type Service struct {
	db            *gorm.DB
	store         *store.ReviewStore
	allowReversal bool
}

func New(db *gorm.DB, reviewStore *store.ReviewStore, allowReversal bool) *Service {
	return &Service{db: db, store: reviewStore, allowReversal: allowReversal}
}

// Approve moves a pending review to approved and records who approved it.
// Approving an already-approved review is a no-op returning current state.
func (s *Service) Approve(reviewID, managerID uint) (*models.Review, error) {
	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	switch review.Status {
	case models.ReviewStatusApproved:
		return review, nil
	case models.ReviewStatusRejected:
		return nil, fmt.Errorf("%w: cannot approve a rejected review, reopen it first", models.ErrInvalidTransition)
	}

	now := time.Now()
	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":      models.ReviewStatusApproved,
			"approved_by": managerID,
			"approved_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost a concurrent transition; re-read and settle
		return s.settle(reviewID, models.ReviewStatusApproved)
	}
	return s.store.GetByID(reviewID)
}

// Reject moves a pending review to rejected. A non-empty reason is required.
// Rejecting an already-rejected review is a no-op returning current state.
func (s *Service) Reject(reviewID, managerID uint, reason string) (*models.Review, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", models.ErrValidation)
	}

	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	switch review.Status {
	case models.ReviewStatusRejected:
		return review, nil
	case models.ReviewStatusApproved:
		return nil, fmt.Errorf("%w: cannot reject an approved review, revoke it first", models.ErrInvalidTransition)
	}

	now := time.Now()
	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":           models.ReviewStatusRejected,
			"rejected_by":      managerID,
			"rejected_at":      now,
			"rejection_reason": reason,
			"is_public":        false,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.settle(reviewID, models.ReviewStatusRejected)
	}
	return s.store.GetByID(reviewID)
}

// SetPublic toggles visibility on the public read path. Only approved
// reviews may be exposed.
func (s *Service) SetPublic(reviewID uint, public bool) (*models.Review, error) {
	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != models.ReviewStatusApproved {
		return nil, fmt.Errorf("%w: only approved reviews can be made public", models.ErrInvalidTransition)
	}

	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusApproved).
		Update("is_public", public)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, result.Error)
	}
	return s.store.GetByID(reviewID)
}

// Revoke reverses an approval back to pending, clearing the approval audit
// fields and withdrawing the review from the public surface. Gated by the
// reversal config flag.
func (s *Service) Revoke(reviewID, managerID uint) (*models.Review, error) {
	if !s.allowReversal {
		return nil, fmt.Errorf("%w: moderation reversal is disabled", models.ErrInvalidTransition)
	}

	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	switch review.Status {
	case models.ReviewStatusPending:
		return review, nil
	case models.ReviewStatusRejected:
		return nil, fmt.Errorf("%w: cannot revoke a rejected review", models.ErrInvalidTransition)
	}

	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusApproved).
		Updates(map[string]interface{}{
			"status":      models.ReviewStatusPending,
			"approved_by": nil,
			"approved_at": nil,
			"is_public":   false,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.settle(reviewID, models.ReviewStatusPending)
	}
	return s.store.GetByID(reviewID)
}

// Reopen reverses a rejection back to pending, clearing the rejection audit
// fields. Gated by the reversal config flag.
func (s *Service) Reopen(reviewID, managerID uint) (*models.Review, error) {
	if !s.allowReversal {
		return nil, fmt.Errorf("%w: moderation reversal is disabled", models.ErrInvalidTransition)
	}

	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	switch review.Status {
	case models.ReviewStatusPending:
		return review, nil
	case models.ReviewStatusApproved:
		return nil, fmt.Errorf("%w: cannot reopen an approved review", models.ErrInvalidTransition)
	}

	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewStatusRejected).
		Updates(map[string]interface{}{
			"status":           models.ReviewStatusPending,
			"rejected_by":      nil,
			"rejected_at":      nil,
			"rejection_reason": "",
		})
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.settle(reviewID, models.ReviewStatusPending)
	}
	return s.store.GetByID(reviewID)
}

// settle resolves a conditional update that matched no rows: if a concurrent
// caller already landed the same transition the call is idempotent, otherwise
// the transition conflicts.
func (s *Service) settle(reviewID uint, wanted models.ReviewStatus) (*models.Review, error) {
	review, err := s.store.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == wanted {
		return review, nil
	}
	return nil, fmt.Errorf("%w: review is %s", models.ErrInvalidTransition, review.Status)
}

// Bulk actions
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

type BulkAction struct {
	ReviewID uint   `json:"reviewId"`
	Action   string `json:"action"`
	Reason   string `json:"reason,omitempty"`
}

type BulkResult struct {
	ReviewID uint           `json:"reviewId"`
	Success  bool           `json:"success"`
	Message  string         `json:"message,omitempty"`
	Review   *models.Review `json:"review,omitempty"`
}

// BulkModerate applies approve/reject actions item by item. One item's
// failure never blocks the others; the caller gets a per-item result list.
func (s *Service) BulkModerate(managerID uint, actions []BulkAction) []BulkResult {
	results := make([]BulkResult, 0, len(actions))
	for _, action := range actions {
		var review *models.Review
		var err error
		switch action.Action {
		case ActionApprove:
			review, err = s.Approve(action.ReviewID, managerID)
		case ActionReject:
			review, err = s.Reject(action.ReviewID, managerID, action.Reason)
		default:
			err = fmt.Errorf("%w: unknown action %q", models.ErrValidation, action.Action)
		}
		result := BulkResult{ReviewID: action.ReviewID, Success: err == nil, Review: review}
		if err != nil {
			result.Message = userMessage(err)
		}
		results = append(results, result)
	}
	return results
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "Review not found!"
	case errors.Is(err, models.ErrInvalidTransition):
		return err.Error()
	case errors.Is(err, models.ErrValidation):
		return err.Error()
	default:
		return "Failed to moderate review!"
	}
}
