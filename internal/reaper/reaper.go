package reaper

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reapedSessions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sessions_reaped_total",
	Help: "Total number of expired sessions removed by the reaper.",
})

// SessionDeleter is the narrow slice of the store the reaper needs.
type SessionDeleter interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Reaper periodically deletes session rows whose expiry has passed. Expired
// sessions already fail verification, so the sweep only reclaims storage and
// needs no coordination with in-flight requests.
type Reaper struct {
	store    SessionDeleter
	interval time.Duration
}

func New(store SessionDeleter, interval time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		interval: interval,
	}
}

func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	count, err := r.store.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Printf("ERROR: Session reaper sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Session reaper removed %d expired sessions", count)
	}
	reapedSessions.Add(float64(count))
}
