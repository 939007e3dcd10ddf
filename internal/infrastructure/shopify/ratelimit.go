package shopify

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// proactiveRate throttle proactivo (req/s). El Admin API GraphQL usa un
	// bucket de costo; a 2 req/s una corrida de sync nunca lo agota.
	proactiveRate = 2.0

	// defaultRetryDelay espera por defecto cuando Shopify señala THROTTLED
	// sin header Retry-After.
	defaultRetryDelay = time.Second

	headerRetryAfter = "Retry-After"
)

// RateLimiter throttling proactivo para el Admin API.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter construye el limiter con el throttle proactivo.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(proactiveRate), 1)}
}

// Wait bloquea hasta que sea seguro hacer la siguiente petición.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// retryDelay calcula cuánto esperar antes de reintentar una respuesta
// throttled, honrando Retry-After (en segundos, admite decimales) si viene.
func retryDelay(resp *http.Response) time.Duration {
	if resp == nil {
		return defaultRetryDelay
	}
	if retryAfter := resp.Header.Get(headerRetryAfter); retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return defaultRetryDelay
}
