package googleController

import (
	"errors"

	"flexreviews/middleware"
	"flexreviews/models"
	"flexreviews/services/normalizer"
	"flexreviews/utils"

	"github.com/gofiber/fiber/v2"
)

// GoogleController is the exploratory Google Places integration. Reviews are
// normalized into the canonical shape but not persisted.
type GoogleController struct {
	Client *utils.GooglePlacesClient
	Opts   normalizer.Options
}

func NewGoogleController(client *utils.GooglePlacesClient, opts normalizer.Options) *GoogleController {
	return &GoogleController{Client: client, Opts: opts}
}

// Test handles GET /api/google-reviews/test
func (gc *GoogleController) Test(c *fiber.Ctx) error {
	if !gc.Client.Enabled() {
		// Degrade to a capability description instead of failing
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Google Places integration is not configured.", fiber.Map{
			"configured": false,
			"capabilities": []string{
				"Fetches up to 5 most relevant reviews per place via the Place Details API",
				"Normalizes author, 1-5 star rating and text into the canonical review shape",
				"Reviews enter as approved since Google only exposes public reviews",
			},
			"requires": []string{"GOOGLE_PLACES_API_KEY"},
		})
	}

	placeID := c.Query("placeId")
	if placeID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "placeId query parameter is required!", nil)
	}
	listingID := c.QueryInt("listingId", 0)
	if listingID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "listingId query parameter is required!", nil)
	}

	payload, err := gc.Client.FetchPlaceReviews(c.Context(), placeID)
	if err != nil {
		if errors.Is(err, models.ErrTransient) {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Google Places is unreachable, try again later!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch Google reviews!", nil)
	}

	reviews, rejected, err := normalizer.Normalize(models.SourceGoogle, uint(listingID), payload, gc.Opts)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Malformed Google Places response!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Google reviews normalized!", fiber.Map{
		"configured": true,
		"reviews":    reviews,
		"rejected":   rejected,
	})
}
