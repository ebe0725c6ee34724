package utils

import (
	"context"
	"fmt"
	"time"

	"flexreviews/config"
	"flexreviews/models"

	"github.com/go-resty/resty/v2"
)

// GooglePlacesClient fetches place reviews from the Place Details API
type GooglePlacesClient struct {
	client *resty.Client
	apiKey string
}

func NewGooglePlacesClient(cfg *config.Config) *GooglePlacesClient {
	client := resty.New().
		SetBaseURL(cfg.GooglePlacesApiUrl).
		SetTimeout(10 * time.Second)

	return &GooglePlacesClient{
		client: client,
		apiKey: cfg.GooglePlacesApiKey,
	}
}

// Enabled reports whether an API key is configured. Without one the Google
// endpoint degrades to a capability description instead of failing.
func (g *GooglePlacesClient) Enabled() bool {
	return g.apiKey != ""
}

// FetchPlaceReviews returns the raw Place Details payload for a place id
func (g *GooglePlacesClient) FetchPlaceReviews(ctx context.Context, placeID string) ([]byte, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   "name,rating,reviews",
			"key":      g.apiKey,
		}).
		Get("/details/json")
	if err != nil {
		return nil, fmt.Errorf("%w: google places request failed: %v", models.ErrTransient, err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("%w: google places returned %d", models.ErrTransient, resp.StatusCode())
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("google places API error (%d): %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
