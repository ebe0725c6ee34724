package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// GuardConfig configures the per-route rate-limit and cache decorator for
// public-facing routes.
type GuardConfig struct {
	MaxRequests int           // requests allowed per window, 0 disables limiting
	Window      time.Duration // rate-limit window
	CacheTTL    time.Duration // response cache lifetime, 0 disables caching
}

// Guard builds the middleware chain bounding load on a public route. The
// limiter rejects over-budget callers with 429 before the handler runs; the
// cache short-circuits repeat requests with the same route and params within
// the TTL. Both stores are in-process and safe for concurrent requests.
func Guard(cfg GuardConfig) []fiber.Handler {
	var handlers []fiber.Handler

	if cfg.MaxRequests > 0 {
		handlers = append(handlers, limiter.New(limiter.Config{
			Max:        cfg.MaxRequests,
			Expiration: cfg.Window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + ":" + c.Route().Path
			},
			LimitReached: func(c *fiber.Ctx) error {
				return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests! Please retry later.", nil)
			},
		}))
	}

	if cfg.CacheTTL > 0 {
		handlers = append(handlers, cache.New(cache.Config{
			Expiration: cfg.CacheTTL,
			Methods:    []string{fiber.MethodGet},
			KeyGenerator: func(c *fiber.Ctx) string {
				// Key by path + normalized params so each listing/limit pair
				// caches independently
				return c.Path() + "?limit=" + c.Query("limit")
			},
			// Only successful responses may live for the full TTL. Error
			// responses expire immediately so one failed lookup never keeps
			// serving stale errors to every caller
			ExpirationGenerator: func(c *fiber.Ctx, _ *cache.Config) time.Duration {
				if c.Response().StatusCode() >= fiber.StatusBadRequest {
					return time.Nanosecond
				}
				return cfg.CacheTTL
			},
		}))
	}

	return handlers
}
