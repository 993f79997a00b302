package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mediq-risk-service/internal/domain"
)

// RateLimiter throttles requests per client IP using token buckets. The
// limiter table is LRU-bounded so an open endpoint cannot grow it without
// limit; evicted clients simply start over with a fresh bucket.
type RateLimiter struct {
	logger   *logrus.Logger
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	enabled  bool
}

// NewRateLimiter creates a rate limiter from configuration.
func NewRateLimiter(logger *logrus.Logger, cfg domain.RateLimitConfig) (*RateLimiter, error) {
	maxClients := cfg.MaxClients
	if maxClients <= 0 {
		maxClients = 1024
	}
	limiters, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		logger:   logger,
		limiters: limiters,
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		enabled:  cfg.Enabled,
	}, nil
}

// Middleware returns the gin handler enforcing the limit. Rejected requests
// receive a 429 with the standard error envelope.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		client := c.ClientIP()
		limiter, ok := rl.limiters.Get(client)
		if !ok {
			limiter = rate.NewLimiter(rl.limit, rl.burst)
			rl.limiters.Add(client, limiter)
		}

		if !limiter.Allow() {
			rl.logger.WithFields(logrus.Fields{
				"client_ip": client,
				"path":      c.Request.URL.Path,
			}).Warn("Request rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAPIError(
				domain.ErrCodeRateLimit,
				"Too many requests",
				"Request rate limit exceeded; retry later",
				c.GetString("correlation_id"),
			))
			return
		}

		c.Next()
	}
}
