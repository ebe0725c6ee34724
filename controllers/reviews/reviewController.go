package reviewController

import (
	"errors"
	"time"

	"flexreviews/middleware"
	"flexreviews/models"
	"flexreviews/services/ingestion"
	"flexreviews/services/query"
	"flexreviews/services/store"

	"github.com/gofiber/fiber/v2"
)

// ReviewController serves ingestion, the manager dashboard listing view and
// the public read path.
type ReviewController struct {
	Ingestion *ingestion.Service
	Query     *query.Service
	Store     *store.ReviewStore
}

func NewReviewController(ingestionSvc *ingestion.Service, querySvc *query.Service, reviewStore *store.ReviewStore) *ReviewController {
	return &ReviewController{Ingestion: ingestionSvc, Query: querySvc, Store: reviewStore}
}

// IngestHostaway triggers an ingestion run from the Hostaway source and
// returns the normalized reviews plus dashboard aggregates.
func (rc *ReviewController) IngestHostaway(c *fiber.Ctx) error {
	result, err := rc.Ingestion.SyncHostaway(c.Context())
	if err != nil {
		if errors.Is(err, models.ErrTransient) {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Hostaway is unreachable, try again later!", nil)
		}
		if errors.Is(err, models.ErrValidation) {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Hostaway returned a malformed payload!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to ingest reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews ingested!", fiber.Map{
		"data": fiber.Map{
			"reviews":  result.Reviews,
			"rejected": result.Rejected,
			"stats":    result.Stats,
		},
	})
}

// GetPublicReviews is the public read path: approved + public reviews only,
// rate-limited and cached by the route guard.
func (rc *ReviewController) GetPublicReviews(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listingId")
	if err != nil || listingID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid listing id!", nil)
	}

	limit := query.ClampLimit(c.QueryInt("limit", query.DefaultLimit))
	reviews, err := rc.Query.GetPublicReviews(uint(listingID), limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	// lastUpdated rides beside the envelope so cached bodies carry the
	// snapshot time of the response they were built from
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  true,
		"message": "Reviews fetched!",
		"data": fiber.Map{
			"reviews":   reviews,
			"listingId": listingID,
			"count":     len(reviews),
			"limit":     limit,
		},
		"lastUpdated": time.Now().UTC(),
	})
}

// GetListingReviews is the manager dashboard view with filters, validated by
// the ListReviews middleware.
func (rc *ReviewController) GetListingReviews(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listingId")
	if err != nil || listingID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid listing id!", nil)
	}

	filter, _ := c.Locals("validatedListingFilter").(store.ListingFilter)

	reviews, total, err := rc.Store.GetByListing(uint(listingID), filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	})
}
