package service

import (
	"context"
	"testing"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	svc           InventoryService
	inventoryRepo *stubInventoryRepo
	locationRepo  *stubLocationRepo
	productRepo   *stubProductRepo

	station *model.Station
	product *model.Product
	userID  uuid.UUID
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		inventoryRepo: newStubInventoryRepo(),
		locationRepo:  newStubLocationRepo(),
		productRepo:   newStubProductRepo(),
		userID:        uuid.New(),
	}
	loc := f.locationRepo.addLocation("Main Kitchen")
	f.station = f.locationRepo.addStation(loc.ID, "Line")
	f.product = f.productRepo.addProduct("flour", "6")
	f.svc = NewInventoryService(f.inventoryRepo, f.locationRepo, f.productRepo)
	return f
}

func TestRecordCount_RecountingSameDayOverwrites(t *testing.T) {
	f := newInventoryFixture()
	req := dto.RecordCountRequest{
		StationID: f.station.ID.String(),
		ProductID: f.product.ID.String(),
		Date:      "2026-08-28",
		Quantity:  decimal.NewFromInt(10),
	}

	first, err := f.svc.RecordCount(context.Background(), f.userID, req)
	require.NoError(t, err)

	req.Quantity = decimal.NewFromInt(8)
	second, err := f.svc.RecordCount(context.Background(), f.userID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same key must hit the same row")
	assert.Len(t, f.inventoryRepo.counts, 1)
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestRecordCount_UnknownStationOrProduct(t *testing.T) {
	f := newInventoryFixture()

	req := dto.RecordCountRequest{
		StationID: uuid.NewString(),
		ProductID: f.product.ID.String(),
		Date:      "2026-08-28",
		Quantity:  decimal.NewFromInt(1),
	}
	_, err := f.svc.RecordCount(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrStationNotFound)

	req.StationID = f.station.ID.String()
	req.ProductID = uuid.NewString()
	_, err = f.svc.RecordCount(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLogProduction_EntriesAccumulate(t *testing.T) {
	f := newInventoryFixture()
	req := dto.LogProductionRequest{
		StationID: f.station.ID.String(),
		ProductID: f.product.ID.String(),
		Date:      "2026-08-28",
		Quantity:  decimal.NewFromInt(5),
	}

	_, err := f.svc.LogProduction(context.Background(), f.userID, req)
	require.NoError(t, err)
	req.Quantity = decimal.NewFromInt(3)
	_, err = f.svc.LogProduction(context.Background(), f.userID, req)
	require.NoError(t, err)

	// both entries survive; consumption sums them later
	assert.Len(t, f.inventoryRepo.production, 2)

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	sums, err := f.inventoryRepo.ProductionBetween(context.Background(),
		[]uuid.UUID{f.station.ID}, day, day)
	require.NoError(t, err)
	total := sums[repository.ProductStationKey{ProductID: f.product.ID, StationID: f.station.ID}]
	assert.True(t, total.Equal(decimal.NewFromInt(8)))
}

func TestLogProduction_NegativeQuantityRejected(t *testing.T) {
	f := newInventoryFixture()
	req := dto.LogProductionRequest{
		StationID: f.station.ID.String(),
		ProductID: f.product.ID.String(),
		Date:      "2026-08-28",
		Quantity:  decimal.NewFromInt(-2),
	}
	_, err := f.svc.LogProduction(context.Background(), f.userID, req)
	assert.Error(t, err)
	assert.Empty(t, f.inventoryRepo.production)
}
