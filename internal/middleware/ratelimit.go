package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/yosef-agil/thirtys-api/internal/pkg/response"
)

// RateLimit returns a fixed-window rate limiter for public endpoints,
// keyed by client IP. Pass-through when Redis is not configured.
func RateLimit(client *redis.Client, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			window := time.Now().Unix() / 60
			key := fmt.Sprintf("ratelimit:%s:%s:%d", r.URL.Path, getClientIP(r), window)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis being down should not take the booking flow down with it
				log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(r.Context(), key, time.Minute)
			}

			if count > int64(perMinute) {
				response.TooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
