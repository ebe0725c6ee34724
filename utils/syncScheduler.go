package utils

import (
	"context"
	"log"
	"time"

	"flexreviews/services/ingestion"

	"github.com/robfig/cron/v3"
)

// InitializeSyncScheduler sets up the periodic Hostaway review sync so the
// dashboard stays current without manual ingestion runs.
func InitializeSyncScheduler(svc *ingestion.Service, cronSpec, digestEmail string) *cron.Cron {
	log.Println("[REVIEW-SYNC] Initializing review sync scheduler...")

	c := cron.New()

	_, err := c.AddFunc(cronSpec, func() {
		log.Println("[REVIEW-SYNC] Running scheduled review sync...")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := svc.SyncHostaway(ctx)
		if err != nil {
			log.Printf("[REVIEW-SYNC] Sync failed: %v", err)
			return
		}

		log.Printf("[REVIEW-SYNC] Sync finished: %d ingested, %d rejected, %d pending",
			len(result.Reviews), len(result.Rejected), result.Stats.Pending)

		if digestEmail != "" && result.Stats.Pending > 0 {
			if err := SendPendingReviewDigest(digestEmail, result.Stats.Pending, len(result.Reviews)); err != nil {
				log.Printf("[REVIEW-SYNC] Failed to send digest email: %v", err)
			}
		}
	})
	if err != nil {
		log.Printf("[REVIEW-SYNC] Invalid cron spec %q: %v", cronSpec, err)
		return c
	}

	c.Start()
	log.Printf("[REVIEW-SYNC] Review sync scheduler started with spec %q", cronSpec)
	return c
}
