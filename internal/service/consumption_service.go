package service

import (
	"context"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ConsumptionService derives per-product, per-station weekly consumption from
// boundary inventory counts and recorded production.
type ConsumptionService interface {
	// CalculateWeekly recomputes the aggregates for one location and one 7-day
	// window [weekStart, weekEnd]. Returns the number of upserted records.
	CalculateWeekly(ctx context.Context, locationID uuid.UUID, weekStart, weekEnd time.Time) (int, error)
	// CalculateAllLocations runs CalculateWeekly for every active location
	// with the window [today-7d, today]. A failing location is logged and
	// reported with calculated 0; it never aborts its siblings.
	CalculateAllLocations(ctx context.Context) ([]dto.LocationCalcResult, error)
	// ListByLocation returns the stored aggregates of a location's stations
	// for the trailing number of weeks.
	ListByLocation(ctx context.Context, locationID uuid.UUID, weeks int) ([]model.WeeklyConsumption, error)
}

type consumptionService struct {
	consumptionRepo repository.ConsumptionRepository
	inventoryRepo   repository.InventoryRepository
	locationRepo    repository.LocationRepository
	now             func() time.Time
}

func NewConsumptionService(
	consumptionRepo repository.ConsumptionRepository,
	inventoryRepo repository.InventoryRepository,
	locationRepo repository.LocationRepository,
) ConsumptionService {
	return &consumptionService{
		consumptionRepo: consumptionRepo,
		inventoryRepo:   inventoryRepo,
		locationRepo:    locationRepo,
		now:             time.Now,
	}
}

// truncateToDay drops the time-of-day component, keeping the calendar date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ── CalculateWeekly ───────────────────────────────────────────────────────────
// consumption = max(0, opening + produced - closing) per (product, station).
// Keys with a boundary count on either end participate; production-only keys
// are skipped (no boundary, no derivable consumption). Missing boundary values
// default to zero. Zero results are not persisted: a zero week leaves no row,
// which keeps "recomputed as zero" distinct from "never recomputed".

func (s *consumptionService) CalculateWeekly(ctx context.Context, locationID uuid.UUID, weekStart, weekEnd time.Time) (int, error) {
	weekStart = truncateToDay(weekStart)
	weekEnd = truncateToDay(weekEnd)

	stationIDs, err := s.locationRepo.StationIDs(ctx, locationID)
	if err != nil {
		return 0, err
	}
	if len(stationIDs) == 0 {
		// a location without stations has nothing to calculate — not an error
		return 0, nil
	}

	opening, err := s.inventoryRepo.CountsOn(ctx, stationIDs, weekStart)
	if err != nil {
		return 0, err
	}
	closing, err := s.inventoryRepo.CountsOn(ctx, stationIDs, weekEnd)
	if err != nil {
		return 0, err
	}
	produced, err := s.inventoryRepo.ProductionBetween(ctx, stationIDs, weekStart, weekEnd)
	if err != nil {
		return 0, err
	}

	keys := make(map[repository.ProductStationKey]struct{}, len(opening)+len(closing))
	for k := range opening {
		keys[k] = struct{}{}
	}
	for k := range closing {
		keys[k] = struct{}{}
	}

	calculated := 0
	for key := range keys {
		consumption := opening[key].Add(produced[key]).Sub(closing[key])
		if consumption.LessThanOrEqual(decimal.Zero) {
			// negative deltas clamp to zero, and zero is never persisted
			continue
		}

		if err := s.consumptionRepo.Upsert(ctx, &model.WeeklyConsumption{
			ProductID:   key.ProductID,
			StationID:   key.StationID,
			WeekStart:   weekStart,
			WeekEnd:     weekEnd,
			Consumption: consumption,
		}); err != nil {
			return calculated, err
		}
		calculated++
	}

	log.Info().
		Str("location_id", locationID.String()).
		Str("week_start", weekStart.Format("2006-01-02")).
		Int("calculated", calculated).
		Msg("weekly consumption recomputed")

	return calculated, nil
}

// ── CalculateAllLocations ─────────────────────────────────────────────────────

func (s *consumptionService) CalculateAllLocations(ctx context.Context) ([]dto.LocationCalcResult, error) {
	locations, err := s.locationRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	weekEnd := truncateToDay(s.now())
	weekStart := weekEnd.AddDate(0, 0, -7)

	// sequential on purpose: deterministic log order and error attribution,
	// and a slow location cannot starve the others through contention
	results := make([]dto.LocationCalcResult, 0, len(locations))
	for _, loc := range locations {
		res := dto.LocationCalcResult{LocationID: loc.ID.String(), Location: loc.Name}

		calculated, err := s.CalculateWeekly(ctx, loc.ID, weekStart, weekEnd)
		if err != nil {
			log.Error().
				Str("location_id", loc.ID.String()).
				Str("location", loc.Name).
				Err(err).
				Msg("weekly consumption failed for location")
			res.Calculated = 0
			res.Error = err.Error()
		} else {
			res.Calculated = calculated
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *consumptionService) ListByLocation(ctx context.Context, locationID uuid.UUID, weeks int) ([]model.WeeklyConsumption, error) {
	if weeks < 1 {
		weeks = 4
	}
	stationIDs, err := s.locationRepo.StationIDs(ctx, locationID)
	if err != nil {
		return nil, err
	}
	since := truncateToDay(s.now()).AddDate(0, 0, -7*weeks)
	return s.consumptionRepo.ListByLocation(ctx, stationIDs, since)
}
