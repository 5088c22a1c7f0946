package service

// In-memory repository stubs shared by the service tests. They mirror the
// gorm implementations' observable behavior (upsert semantics, guarded
// updates, order-scoped item lookup) without a database.

import (
	"context"
	"sort"
	"time"

	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── LocationRepository stub ──────────────────────────────────────────────────

type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
	stations  map[uuid.UUID]*model.Station
	sheet     map[uuid.UUID][]model.StationProduct
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{
		locations: make(map[uuid.UUID]*model.Location),
		stations:  make(map[uuid.UUID]*model.Station),
		sheet:     make(map[uuid.UUID][]model.StationProduct),
	}
}

func (r *stubLocationRepo) addLocation(name string) *model.Location {
	l := &model.Location{ID: uuid.New(), Name: name, Active: true}
	r.locations[l.ID] = l
	return l
}

func (r *stubLocationRepo) addStation(locationID uuid.UUID, name string) *model.Station {
	s := &model.Station{ID: uuid.New(), LocationID: locationID, Name: name, Active: true}
	r.stations[s.ID] = s
	return s
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cloned := *l
	r.locations[l.ID] = &cloned
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var out []model.Location
	for _, l := range r.locations {
		if l.Active || includeInactive {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubLocationRepo) ListActive(ctx context.Context) ([]model.Location, error) {
	return r.List(ctx, false)
}

func (r *stubLocationRepo) Update(_ context.Context, l *model.Location) error {
	cloned := *l
	r.locations[l.ID] = &cloned
	return nil
}

func (r *stubLocationRepo) CreateStation(_ context.Context, s *model.Station) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cloned := *s
	r.stations[s.ID] = &cloned
	return nil
}

func (r *stubLocationRepo) FindStationByID(_ context.Context, id uuid.UUID) (*model.Station, error) {
	s, ok := r.stations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubLocationRepo) StationIDs(_ context.Context, locationID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, s := range r.stations {
		if s.LocationID == locationID && s.Active {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (r *stubLocationRepo) AssignProduct(_ context.Context, sp *model.StationProduct) error {
	r.sheet[sp.StationID] = append(r.sheet[sp.StationID], *sp)
	return nil
}

func (r *stubLocationRepo) UnassignProduct(_ context.Context, stationID, productID uuid.UUID) error {
	kept := r.sheet[stationID][:0]
	for _, sp := range r.sheet[stationID] {
		if sp.ProductID != productID {
			kept = append(kept, sp)
		}
	}
	r.sheet[stationID] = kept
	return nil
}

func (r *stubLocationRepo) StationProducts(_ context.Context, stationID uuid.UUID) ([]model.StationProduct, error) {
	out := append([]model.StationProduct(nil), r.sheet[stationID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

var _ repository.LocationRepository = (*stubLocationRepo)(nil)

// ── InventoryRepository stub ─────────────────────────────────────────────────

type countKey struct {
	StationID uuid.UUID
	ProductID uuid.UUID
	Date      string
}

type stubInventoryRepo struct {
	counts     map[countKey]*model.InventoryCount
	production []model.ProductionLog
	countsErr  error
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{counts: make(map[countKey]*model.InventoryCount)}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func (r *stubInventoryRepo) addCount(stationID, productID uuid.UUID, date time.Time, qty string) {
	q, _ := decimal.NewFromString(qty)
	_ = r.UpsertCount(context.Background(), &model.InventoryCount{
		StationID: stationID,
		ProductID: productID,
		CountDate: date,
		Quantity:  q,
	})
}

func (r *stubInventoryRepo) addProduction(stationID, productID uuid.UUID, date time.Time, qty string) {
	q, _ := decimal.NewFromString(qty)
	r.production = append(r.production, model.ProductionLog{
		ID:               uuid.New(),
		StationID:        stationID,
		ProductID:        productID,
		LogDate:          date,
		QuantityProduced: q,
	})
}

func (r *stubInventoryRepo) UpsertCount(_ context.Context, c *model.InventoryCount) error {
	key := countKey{c.StationID, c.ProductID, dayKey(c.CountDate)}
	if existing, ok := r.counts[key]; ok {
		existing.Quantity = c.Quantity
		c.ID = existing.ID
		return nil
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.counts[key] = &cloned
	return nil
}

func (r *stubInventoryRepo) ListCounts(_ context.Context, stationID uuid.UUID, date time.Time) ([]model.InventoryCount, error) {
	var out []model.InventoryCount
	for _, c := range r.counts {
		if c.StationID == stationID && dayKey(c.CountDate) == dayKey(date) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) CreateProductionLog(_ context.Context, p *model.ProductionLog) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.production = append(r.production, *p)
	return nil
}

func (r *stubInventoryRepo) ListProductionLogs(_ context.Context, stationID uuid.UUID, from, to time.Time) ([]model.ProductionLog, error) {
	var out []model.ProductionLog
	for _, p := range r.production {
		if p.StationID == stationID && !p.LogDate.Before(from) && !p.LogDate.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) CountsOn(_ context.Context, stationIDs []uuid.UUID, date time.Time) (map[repository.ProductStationKey]decimal.Decimal, error) {
	if r.countsErr != nil {
		return nil, r.countsErr
	}
	out := make(map[repository.ProductStationKey]decimal.Decimal)
	for _, c := range r.counts {
		if dayKey(c.CountDate) != dayKey(date) || !containsID(stationIDs, c.StationID) {
			continue
		}
		out[repository.ProductStationKey{ProductID: c.ProductID, StationID: c.StationID}] = c.Quantity
	}
	return out, nil
}

func (r *stubInventoryRepo) ProductionBetween(_ context.Context, stationIDs []uuid.UUID, from, to time.Time) (map[repository.ProductStationKey]decimal.Decimal, error) {
	out := make(map[repository.ProductStationKey]decimal.Decimal)
	for _, p := range r.production {
		if p.LogDate.Before(from) || p.LogDate.After(to) || !containsID(stationIDs, p.StationID) {
			continue
		}
		key := repository.ProductStationKey{ProductID: p.ProductID, StationID: p.StationID}
		out[key] = out[key].Add(p.QuantityProduced)
	}
	return out, nil
}

func (r *stubInventoryRepo) StockByProductOn(_ context.Context, stationIDs []uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, c := range r.counts {
		if dayKey(c.CountDate) != dayKey(date) || !containsID(stationIDs, c.StationID) {
			continue
		}
		out[c.ProductID] = out[c.ProductID].Add(c.Quantity)
	}
	return out, nil
}

func (r *stubInventoryRepo) LatestCountDate(_ context.Context, stationIDs []uuid.UUID, notAfter time.Time) (*time.Time, error) {
	var latest *time.Time
	for _, c := range r.counts {
		if c.CountDate.After(notAfter) || !containsID(stationIDs, c.StationID) {
			continue
		}
		d := c.CountDate
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── ConsumptionRepository stub ───────────────────────────────────────────────

type consumptionKey struct {
	ProductID uuid.UUID
	StationID uuid.UUID
	WeekStart string
}

type stubConsumptionRepo struct {
	entries map[consumptionKey]*model.WeeklyConsumption
}

func newStubConsumptionRepo() *stubConsumptionRepo {
	return &stubConsumptionRepo{entries: make(map[consumptionKey]*model.WeeklyConsumption)}
}

func (r *stubConsumptionRepo) Upsert(_ context.Context, w *model.WeeklyConsumption) error {
	key := consumptionKey{w.ProductID, w.StationID, dayKey(w.WeekStart)}
	if existing, ok := r.entries[key]; ok {
		existing.Consumption = w.Consumption
		existing.WeekEnd = w.WeekEnd
		return nil
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	cloned := *w
	r.entries[key] = &cloned
	return nil
}

func (r *stubConsumptionRepo) AverageByProduct(_ context.Context, stationIDs []uuid.UUID, since time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	counts := make(map[uuid.UUID]int64)
	for _, w := range r.entries {
		if w.WeekStart.Before(since) || !containsID(stationIDs, w.StationID) {
			continue
		}
		sums[w.ProductID] = sums[w.ProductID].Add(w.Consumption)
		counts[w.ProductID]++
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for id, sum := range sums {
		out[id] = sum.Div(decimal.NewFromInt(counts[id]))
	}
	return out, nil
}

func (r *stubConsumptionRepo) ListByLocation(_ context.Context, stationIDs []uuid.UUID, since time.Time) ([]model.WeeklyConsumption, error) {
	var out []model.WeeklyConsumption
	for _, w := range r.entries {
		if !w.WeekStart.Before(since) && containsID(stationIDs, w.StationID) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return out, nil
}

var _ repository.ConsumptionRepository = (*stubConsumptionRepo)(nil)

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) addProduct(name, conversionFactor string) *model.Product {
	cf, _ := decimal.NewFromString(conversionFactor)
	p := &model.Product{
		ID:               uuid.New(),
		Code:             name,
		Name:             name,
		UnitOfMeasure:    "kg",
		UnitOfOrder:      "case",
		ConversionFactor: cf,
		Active:           true,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListActiveForDelivery(_ context.Context, deliveryDay *string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if deliveryDay != nil && p.DeliveryDay != nil && *p.DeliveryDay != *deliveryDay {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── OrderRepository stub ─────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.OrderRequest
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.OrderRequest)}
}

func (r *stubOrderRepo) CreateWithItems(_ context.Context, o *model.OrderRequest) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderRequestID = o.ID
	}
	cloned := *o
	cloned.Items = append([]model.OrderItem(nil), o.Items...)
	r.orders[o.ID] = &cloned
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrderRequest, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.OrderRequest, int64, error) {
	var out []model.OrderRequest
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && o.LocationID.String() != filter.LocationID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusGuarded(_ context.Context, id uuid.UUID, from, to string) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (r *stubOrderRepo) FindItem(_ context.Context, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) UpdateItem(_ context.Context, item *model.OrderItem) error {
	o, ok := r.orders[item.OrderRequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range o.Items {
		if o.Items[i].ID == item.ID {
			o.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)
