package reviewValidator

import (
	"time"

	"flexreviews/middleware"
	"flexreviews/models"
	"flexreviews/services/moderation"
	"flexreviews/services/store"

	"github.com/gofiber/fiber/v2"
)

// RejectReview validates the rejection request body
func RejectReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Reason == "" {
			errors["reason"] = "Rejection reason is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}

// SetPublic validates the visibility toggle request body
func SetPublic() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IsPublic *bool `json:"isPublic"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.IsPublic == nil {
			errors["isPublic"] = "isPublic is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSetPublic", reqData)
		return c.Next()
	}
}

// BulkModerate validates the bulk moderation batch shape. Per-item problems
// (unknown review, missing reason) surface in the per-item results instead.
func BulkModerate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Actions []moderation.BulkAction `json:"actions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Actions) == 0 {
			errors["actions"] = "At least one action is required!"
		}
		for _, action := range reqData.Actions {
			if action.Action != moderation.ActionApprove && action.Action != moderation.ActionReject {
				errors["actions"] = "Action must be APPROVE or REJECT!"
				break
			}
			if action.ReviewID == 0 {
				errors["actions"] = "Every action needs a reviewId!"
				break
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulk", reqData)
		return c.Next()
	}
}

// ListReviews validates dashboard filter query params and stashes the
// resulting store filter.
func ListReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		filter := store.ListingFilter{
			Page:  c.QueryInt("page", 1),
			Limit: c.QueryInt("limit", 20),
		}

		if status := c.Query("status"); status != "" {
			switch models.ReviewStatus(status) {
			case models.ReviewStatusPending, models.ReviewStatusApproved, models.ReviewStatusRejected:
				filter.Status = models.ReviewStatus(status)
			default:
				errors["status"] = "Status must be pending, approved or rejected!"
			}
		}

		if reviewType := c.Query("type"); reviewType != "" {
			switch models.ReviewType(reviewType) {
			case models.ReviewTypeGuestToHost, models.ReviewTypeHostToGuest:
				filter.Type = models.ReviewType(reviewType)
			default:
				errors["type"] = "Type must be guest-to-host or host-to-guest!"
			}
		}

		if min := c.QueryFloat("minRating", -1); min >= 0 {
			filter.MinRating = &min
		}
		if max := c.QueryFloat("maxRating", -1); max >= 0 {
			filter.MaxRating = &max
		}
		if filter.MinRating != nil && filter.MaxRating != nil && *filter.MinRating > *filter.MaxRating {
			errors["minRating"] = "minRating cannot exceed maxRating!"
		}

		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				errors["from"] = "from must be a YYYY-MM-DD date!"
			} else {
				filter.From = &t
			}
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				errors["to"] = "to must be a YYYY-MM-DD date!"
			} else {
				end := t.AddDate(0, 0, 1)
				filter.To = &end
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedListingFilter", filter)
		return c.Next()
	}
}
