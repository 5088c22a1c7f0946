package worker

// consumption_cron.go
// Background goroutine that recomputes weekly consumption for every active
// location once a week, at the configured weekday and hour.

import (
	"context"
	"time"

	"kitchenops/internal/dto"

	"github.com/rs/zerolog/log"
)

const cronTickInterval = time.Minute

// ConsumptionCalculator is the slice of the consumption service the cron
// needs. A failing location reports calculated 0 without aborting siblings.
type ConsumptionCalculator interface {
	CalculateAllLocations(ctx context.Context) ([]dto.LocationCalcResult, error)
}

// ConsumptionCronConfig holds all dependencies for the weekly recompute goroutine.
type ConsumptionCronConfig struct {
	Calculator ConsumptionCalculator
	Weekday    time.Weekday // 0 = Sunday
	Hour       int          // 0-23, server local time
	Now        func() time.Time
}

// StartConsumptionCron launches a goroutine that ticks every minute and runs
// the batch recompute when the configured weekday and hour arrive. At most one
// run per hour window. Respects the context for graceful shutdown.
func StartConsumptionCron(ctx context.Context, cfg ConsumptionCronConfig) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	go func() {
		ticker := time.NewTicker(cronTickInterval)
		defer ticker.Stop()

		log.Info().
			Stringer("weekday", cfg.Weekday).
			Int("hour", cfg.Hour).
			Msg("consumption_cron: started")

		var lastRun time.Time
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("consumption_cron: shutting down")
				return
			case <-ticker.C:
				now := cfg.Now()
				if now.Weekday() != cfg.Weekday || now.Hour() != cfg.Hour {
					continue
				}
				windowStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
				if !lastRun.Before(windowStart) {
					continue // already ran in this window
				}
				lastRun = now
				runBatch(ctx, cfg.Calculator)
			}
		}
	}()
}

func runBatch(ctx context.Context, calc ConsumptionCalculator) {
	log.Info().Msg("consumption_cron: weekly recompute starting")

	results, err := calc.CalculateAllLocations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("consumption_cron: batch recompute failed")
		return
	}

	total, failed := 0, 0
	for _, r := range results {
		total += r.Calculated
		if r.Error != "" {
			failed++
			log.Warn().
				Str("location_id", r.LocationID).
				Str("location", r.Location).
				Str("error", r.Error).
				Msg("consumption_cron: location failed")
		}
	}
	log.Info().
		Int("locations", len(results)).
		Int("failed", failed).
		Int("records", total).
		Msg("consumption_cron: weekly recompute finished")
}
