package utils

import (
	"context"
	"fmt"
	"time"

	"flexreviews/config"
	"flexreviews/models"

	"github.com/go-resty/resty/v2"
)

// HostawayClient fetches the review set from the Hostaway API
type HostawayClient struct {
	client    *resty.Client
	apiKey    string
	accountId string
}

func NewHostawayClient(cfg *config.Config) *HostawayClient {
	client := resty.New().
		SetBaseURL(cfg.HostawayApiUrl).
		SetTimeout(10 * time.Second)

	return &HostawayClient{
		client:    client,
		apiKey:    cfg.HostawayApiKey,
		accountId: cfg.HostawayAccountId,
	}
}

// FetchReviews returns the raw reviews payload. Connection failures and 5xx
// responses are classified as transient so the calling layer may retry.
func (h *HostawayClient) FetchReviews(ctx context.Context) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+h.apiKey).
		SetQueryParam("accountId", h.accountId).
		Get("/reviews")
	if err != nil {
		return nil, fmt.Errorf("%w: hostaway request failed: %v", models.ErrTransient, err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("%w: hostaway returned %d", models.ErrTransient, resp.StatusCode())
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("hostaway API error (%d): %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
