package reviewController

import (
	"errors"

	"flexreviews/middleware"
	"flexreviews/models"
	"flexreviews/services/moderation"

	"github.com/gofiber/fiber/v2"
)

// ModerationController exposes the manager-only moderation transitions
type ModerationController struct {
	Moderation *moderation.Service
}

func NewModerationController(moderationSvc *moderation.Service) *ModerationController {
	return &ModerationController{Moderation: moderationSvc}
}

// Approve handles POST /api/reviews/:id/approve
func (mc *ModerationController) Approve(c *fiber.Ctx) error {
	managerID, reviewID, ok := moderationIds(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	review, err := mc.Moderation.Approve(reviewID, managerID)
	if err != nil {
		return moderationError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review approved!", review)
}

// Reject handles POST /api/reviews/:id/reject
func (mc *ModerationController) Reject(c *fiber.Ctx) error {
	managerID, reviewID, ok := moderationIds(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	reqData, _ := c.Locals("validatedReject").(*struct {
		Reason string `json:"reason"`
	})
	reason := ""
	if reqData != nil {
		reason = reqData.Reason
	}

	review, err := mc.Moderation.Reject(reviewID, managerID, reason)
	if err != nil {
		return moderationError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review rejected!", review)
}

// SetPublic handles POST /api/reviews/:id/public
func (mc *ModerationController) SetPublic(c *fiber.Ctx) error {
	_, reviewID, ok := moderationIds(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	reqData, _ := c.Locals("validatedSetPublic").(*struct {
		IsPublic *bool `json:"isPublic"`
	})
	if reqData == nil || reqData.IsPublic == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "isPublic is required!", nil)
	}

	review, err := mc.Moderation.SetPublic(reviewID, *reqData.IsPublic)
	if err != nil {
		return moderationError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review visibility updated!", review)
}

// Revoke handles POST /api/reviews/:id/revoke (approved -> pending)
func (mc *ModerationController) Revoke(c *fiber.Ctx) error {
	managerID, reviewID, ok := moderationIds(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	review, err := mc.Moderation.Revoke(reviewID, managerID)
	if err != nil {
		return moderationError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Approval revoked!", review)
}

// Reopen handles POST /api/reviews/:id/reopen (rejected -> pending)
func (mc *ModerationController) Reopen(c *fiber.Ctx) error {
	managerID, reviewID, ok := moderationIds(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	review, err := mc.Moderation.Reopen(reviewID, managerID)
	if err != nil {
		return moderationError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review reopened!", review)
}

// Bulk handles POST /api/reviews/bulk with per-item results
func (mc *ModerationController) Bulk(c *fiber.Ctx) error {
	managerID, ok := c.Locals("managerId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, _ := c.Locals("validatedBulk").(*struct {
		Actions []moderation.BulkAction `json:"actions"`
	})
	if reqData == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	results := mc.Moderation.BulkModerate(managerID, reqData.Actions)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bulk moderation finished!", fiber.Map{
		"results": results,
	})
}

func moderationIds(c *fiber.Ctx) (managerID uint, reviewID uint, ok bool) {
	managerID, mok := c.Locals("managerId").(uint)
	id, err := c.ParamsInt("id")
	if !mok || err != nil || id <= 0 {
		return 0, 0, false
	}
	return managerID, uint(id), true
}

// moderationError maps the service error taxonomy onto HTTP responses
func moderationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	case errors.Is(err, models.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, models.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, models.ErrTransient):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Storage is unavailable, try again later!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to moderate review!", nil)
	}
}
