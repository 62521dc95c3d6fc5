package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cast_manager/internal/models"
	"cast_manager/internal/redis"

	"github.com/bsm/redislock"
)

// fakeStore backs every repository interface with in-memory data and
// captures what ReplaceDay would have written.
type fakeStore struct {
	settings     *models.SalesSettings
	taxRate      *models.TaxRate
	orders       []models.Order
	casts        []models.Cast
	products     []models.Product
	backRates    []models.CastBackRate
	attendance   []models.Attendance
	wageTiers    []models.WageTier
	costumes     []models.CostumeBonus
	specialDay   *models.SpecialDayWage
	channelSales []models.ChannelSale
	finalizedIDs []uint

	failOrders bool

	replaceCalls int
	gotCastIDs   []uint
	gotItems     []models.CastDailyItem
	gotStats     []models.CastDailyStats
	gotChannel   []uint
}

var errNotFound = errors.New("record not found")

// SettingsRepository
func (f *fakeStore) GetByStoreID(storeID uint) (*models.SalesSettings, error) {
	if f.settings == nil {
		return nil, errNotFound
	}
	return f.settings, nil
}
func (f *fakeStore) Upsert(settings *models.SalesSettings) error { f.settings = settings; return nil }
func (f *fakeStore) GetTaxRate(storeID uint) (*models.TaxRate, error) {
	if f.taxRate == nil {
		return nil, errNotFound
	}
	return f.taxRate, nil
}
func (f *fakeStore) UpsertTaxRate(rate *models.TaxRate) error { f.taxRate = rate; return nil }

// OrderRepository
func (f *fakeStore) Create(order *models.Order) error { return nil }
func (f *fakeStore) GetByID(id uint) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i], nil
		}
	}
	return nil, errNotFound
}
func (f *fakeStore) GetByStoreAndDate(storeID uint, date time.Time) ([]models.Order, error) {
	if f.failOrders {
		return nil, errors.New("connection reset")
	}
	return f.orders, nil
}
func (f *fakeStore) GetByDateRange(storeID uint, start, end time.Time) ([]models.Order, error) {
	return f.orders, nil
}

// castRepo wraps fakeStore because CastRepository and OrderRepository method
// names collide.
type castRepo struct{ f *fakeStore }

func (r castRepo) Create(cast *models.Cast) error                   { return nil }
func (r castRepo) GetByID(id uint) (*models.Cast, error)            { return nil, errNotFound }
func (r castRepo) GetByStoreID(storeID uint) ([]models.Cast, error) { return r.f.casts, nil }
func (r castRepo) Update(cast *models.Cast) error                   { return nil }
func (r castRepo) Delete(id uint) error                             { return nil }

type productRepo struct{ f *fakeStore }

func (r productRepo) Create(product *models.Product) error { return nil }
func (r productRepo) GetByStoreID(storeID uint) ([]models.Product, error) {
	return r.f.products, nil
}
func (r productRepo) GetBackRates(storeID uint) ([]models.CastBackRate, error) {
	return r.f.backRates, nil
}
func (r productRepo) CreateBackRate(rate *models.CastBackRate) error { return nil }

type attendanceRepo struct{ f *fakeStore }

func (r attendanceRepo) GetByStoreAndDate(storeID uint, date time.Time) ([]models.Attendance, error) {
	return r.f.attendance, nil
}
func (r attendanceRepo) GetWageTiers(storeID uint) ([]models.WageTier, error) {
	return r.f.wageTiers, nil
}
func (r attendanceRepo) GetCostumeBonuses(storeID uint) ([]models.CostumeBonus, error) {
	return r.f.costumes, nil
}
func (r attendanceRepo) GetSpecialDayWage(storeID uint, date time.Time) (*models.SpecialDayWage, error) {
	return r.f.specialDay, nil
}

type channelRepo struct{ f *fakeStore }

func (r channelRepo) Create(sale *models.ChannelSale) error { return nil }
func (r channelRepo) GetUnprocessed(storeID uint, date time.Time) ([]models.ChannelSale, error) {
	return r.f.channelSales, nil
}

type dailyRepo struct{ f *fakeStore }

func (r dailyRepo) GetFinalizedCastIDs(storeID uint, date time.Time) ([]uint, error) {
	return r.f.finalizedIDs, nil
}
func (r dailyRepo) GetStatsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyStats, error) {
	return r.f.gotStats, nil
}
func (r dailyRepo) GetItemsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyItem, error) {
	return r.f.gotItems, nil
}
func (r dailyRepo) GetItemsByCast(storeID uint, date time.Time, castID uint) ([]models.CastDailyItem, error) {
	return r.f.gotItems, nil
}
func (r dailyRepo) ReplaceDay(storeID uint, date time.Time, castIDs []uint, items []models.CastDailyItem, stats []models.CastDailyStats, processedChannelIDs []uint) error {
	r.f.replaceCalls++
	r.f.gotCastIDs = castIDs
	r.f.gotItems = items
	r.f.gotStats = stats
	r.f.gotChannel = processedChannelIDs
	return nil
}

type busyLocker struct{}

func (busyLocker) ObtainRecalcLock(ctx context.Context, storeID uint, date time.Time, ttl time.Duration) (*redislock.Lock, error) {
	return nil, redis.ErrLockNotObtained
}
func (busyLocker) InvalidateDailyStats(storeID uint, date string) error { return nil }

func newService(f *fakeStore) RecalcService {
	return NewRecalcService(f, f, castRepo{f}, productRepo{f}, attendanceRepo{f}, channelRepo{f}, dailyRepo{f}, nil, nil, time.Minute)
}

func baseSettings(method models.HelpDistributionMethod, inclusion models.HelpSalesInclusion) *models.SalesSettings {
	group := models.AggregationSetting{
		MultiCastDistribution:  models.AllEqual,
		HelpDistributionMethod: method,
		HelpSalesInclusion:     inclusion,
		HelpRatio:              50,
		RoundingMethod:         models.RoundNone,
		RoundingPosition:       1,
		RoundingTiming:         models.PerItemTiming,
	}
	return &models.SalesSettings{
		StoreID:           1,
		Item:              group,
		Receipt:           group,
		NonHelpStaffNames: "walk-in",
	}
}

func testDate() time.Time {
	return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
}

func baseFake(settings *models.SalesSettings) *fakeStore {
	return &fakeStore{
		settings: settings,
		taxRate:  &models.TaxRate{StoreID: 1, ConsumptionTaxPercent: 10},
		casts: []models.Cast{
			{ID: 1, StoreID: 1, Name: "Aoi", IsActive: true},
			{ID: 2, StoreID: 1, Name: "Beni", IsActive: true},
			{ID: 3, StoreID: 1, Name: "Chika", IsActive: true},
		},
	}
}

func statFor(t *testing.T, stats []models.CastDailyStats, castID uint) models.CastDailyStats {
	t.Helper()
	for _, st := range stats {
		if st.CastID == castID {
			return st
		}
	}
	t.Fatalf("no stats row for cast %d in %+v", castID, stats)
	return models.CastDailyStats{}
}

// One item of 1000, nominated Aoi alone on the line: everything lands on Aoi.
func TestRecalculateDailySelfOnly(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	f.orders = []models.Order{{
		ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
		Items: []models.OrderItem{{OrderID: 10, ProductName: "Champagne", CastName: "Aoi", Quantity: 1, UnitPrice: 1000, Subtotal: 1000, NeedsCast: true}},
	}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	if result.CastsProcessed != 1 || result.ItemsProcessed != 1 {
		t.Fatalf("result = %+v", result)
	}
	st := statFor(t, f.gotStats, 1)
	if st.SelfSalesItemBased != 1000 || st.SelfSalesReceiptBased != 1000 {
		t.Errorf("Aoi stats = %+v, expected 1000 self in both views", st)
	}
	if st.NominationCount != 1 {
		t.Errorf("nomination count = %d, expected 1", st.NominationCount)
	}
	row := f.gotItems[0]
	if row.CastID != 1 || !row.IsSelf || row.SelfSales != 1000 || row.SelfSalesReceiptBased != 1000 {
		t.Errorf("item row = %+v", row)
	}
}

// Equal split between the nominated cast and one helper, help sales included.
func TestRecalculateDailyEqualSplit(t *testing.T) {
	f := baseFake(baseSettings(models.EqualSplit, models.BothSelfAndHelp))
	f.orders = []models.Order{{
		ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
		Items: []models.OrderItem{{OrderID: 10, ProductName: "Bottle", CastName: "Aoi,Beni", Quantity: 1, UnitPrice: 1000, Subtotal: 1000, NeedsCast: true}},
	}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	aoi := statFor(t, f.gotStats, 1)
	beni := statFor(t, f.gotStats, 2)
	if aoi.SelfSalesItemBased != 500 {
		t.Errorf("Aoi self item-based = %d, expected 500", aoi.SelfSalesItemBased)
	}
	if beni.HelpSalesItemBased != 500 {
		t.Errorf("Beni help item-based = %d, expected 500", beni.HelpSalesItemBased)
	}
	// The line is mixed, so the receipt view splits the same 1000 once.
	if aoi.SelfSalesReceiptBased != 500 || beni.HelpSalesReceiptBased != 500 {
		t.Errorf("receipt view: aoi=%d beni=%d, expected 500/500", aoi.SelfSalesReceiptBased, beni.HelpSalesReceiptBased)
	}
}

// Ratio split with two helpers: Aoi 500, Beni and Chika 250 each.
func TestRecalculateDailyRatioSplit(t *testing.T) {
	f := baseFake(baseSettings(models.RatioSplit, models.BothSelfAndHelp))
	f.orders = []models.Order{{
		ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
		Items: []models.OrderItem{{OrderID: 10, ProductName: "Bottle", CastName: "Aoi,Beni,Chika", Quantity: 1, UnitPrice: 1000, Subtotal: 1000, NeedsCast: true}},
	}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	if got := statFor(t, f.gotStats, 1).SelfSalesItemBased; got != 500 {
		t.Errorf("Aoi self = %d, expected 500", got)
	}
	if got := statFor(t, f.gotStats, 2).HelpSalesItemBased; got != 250 {
		t.Errorf("Beni help = %d, expected 250", got)
	}
	if got := statFor(t, f.gotStats, 3).HelpSalesItemBased; got != 250 {
		t.Errorf("Chika help = %d, expected 250", got)
	}
}

// A read failure aborts with no writes and zero counts.
func TestRecalculateDailyReadErrorAborts(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	f.failOrders = true

	result := newService(f).RecalculateDaily(1, testDate())
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.CastsProcessed != 0 || result.ItemsProcessed != 0 {
		t.Errorf("counts = %+v, expected zero", result)
	}
	if f.replaceCalls != 0 {
		t.Errorf("ReplaceDay called %d times after a read error", f.replaceCalls)
	}
}

// A finalized cast is excluded from the delete set, the stats and the counts,
// no matter what new order data exists for it.
func TestRecalculateDailyFinalizedCastUntouched(t *testing.T) {
	f := baseFake(baseSettings(models.EqualSplit, models.BothSelfAndHelp))
	f.finalizedIDs = []uint{1}
	f.orders = []models.Order{{
		ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
		Items: []models.OrderItem{{OrderID: 10, ProductName: "Bottle", CastName: "Aoi,Beni", Quantity: 1, UnitPrice: 1000, Subtotal: 1000, NeedsCast: true}},
	}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	for _, id := range f.gotCastIDs {
		if id == 1 {
			t.Error("finalized cast present in the delete set")
		}
	}
	for _, row := range f.gotItems {
		if row.CastID == 1 {
			t.Errorf("finalized cast received an item row: %+v", row)
		}
	}
	for _, st := range f.gotStats {
		if st.CastID == 1 {
			t.Errorf("finalized cast received a stats row: %+v", st)
		}
	}
	if result.CastsProcessed != 1 {
		t.Errorf("casts processed = %d, expected only Beni", result.CastsProcessed)
	}
}

// Recomputing with unchanged inputs yields identical output rows.
func TestRecalculateDailyIdempotent(t *testing.T) {
	f := baseFake(baseSettings(models.RatioSplit, models.BothSelfAndHelp))
	f.orders = []models.Order{
		{
			ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
			Items: []models.OrderItem{
				{OrderID: 10, ProductName: "Bottle", CastName: "Aoi,Beni", Quantity: 1, UnitPrice: 5000, Subtotal: 5000, NeedsCast: true},
				{OrderID: 10, ProductName: "Cocktail", CastName: "Beni", Quantity: 2, UnitPrice: 800, Subtotal: 1600, NeedsCast: true},
			},
		},
		{
			ID: 11, StoreID: 1, StaffName: "Chika", OrderDate: testDate(),
			Items: []models.OrderItem{
				{OrderID: 11, ProductName: "Champagne", CastName: "Chika", Quantity: 1, UnitPrice: 12000, Subtotal: 12000, NeedsCast: true},
			},
		},
	}

	svc := newService(f)
	if result := svc.RecalculateDaily(1, testDate()); !result.Success {
		t.Fatalf("first run failed: %s", result.Error)
	}
	firstItems := f.gotItems
	firstStats := f.gotStats

	if result := svc.RecalculateDaily(1, testDate()); !result.Success {
		t.Fatalf("second run failed: %s", result.Error)
	}
	if !reflect.DeepEqual(firstItems, f.gotItems) {
		t.Errorf("item rows differ between runs:\nfirst:  %+v\nsecond: %+v", firstItems, f.gotItems)
	}
	if !reflect.DeepEqual(firstStats, f.gotStats) {
		t.Errorf("stats differ between runs:\nfirst:  %+v\nsecond: %+v", firstStats, f.gotStats)
	}
}

// Channel sales add to self sales in both views and get flagged, except for
// finalized casts whose sales stay unprocessed.
func TestRecalculateDailyChannelSales(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	f.finalizedIDs = []uint{2}
	f.channelSales = []models.ChannelSale{
		{ID: 100, StoreID: 1, CastID: 1, ActualPrice: 2000, Quantity: 2, SaleDate: testDate()},
		{ID: 101, StoreID: 1, CastID: 2, ActualPrice: 900, Quantity: 1, SaleDate: testDate()},
	}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	st := statFor(t, f.gotStats, 1)
	if st.SelfSalesItemBased != 4000 || st.SelfSalesReceiptBased != 4000 {
		t.Errorf("channel sales not applied: %+v", st)
	}
	if !reflect.DeepEqual(f.gotChannel, []uint{100}) {
		t.Errorf("processed channel ids = %v, expected [100]", f.gotChannel)
	}
}

// Base wage plus costume and special-day bonuses over a shift that crosses
// midnight.
func TestRecalculateDailyWages(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	clockIn := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	clockOut := time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC) // next day, recorded on shift date
	costumeID := uint(7)
	f.attendance = []models.Attendance{{StoreID: 1, CastID: 1, Date: testDate(), ClockIn: &clockIn, ClockOut: &clockOut, CostumeID: &costumeID}}
	f.wageTiers = []models.WageTier{{StoreID: 1, CastID: 1, BaseHourlyWage: 2000}}
	f.costumes = []models.CostumeBonus{{ID: 7, StoreID: 1, CostumeName: "dress", BonusPerHour: 300}}
	f.specialDay = &models.SpecialDayWage{StoreID: 1, Date: testDate(), BonusPerHour: 500}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	st := statFor(t, f.gotStats, 1)
	if st.WorkMinutes != 300 {
		t.Errorf("work minutes = %d, expected 300 across midnight", st.WorkMinutes)
	}
	if st.HourlyWage != 2800 {
		t.Errorf("hourly wage = %d, expected 2800", st.HourlyWage)
	}
	if st.WageAmount != 14000 {
		t.Errorf("wage amount = %d, expected 14000", st.WageAmount)
	}
}

// Two shifts at different effective rates report the minutes-weighted hourly
// rate while the wage amount sums per shift.
func TestRecalculateDailyWagesMultiShift(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	in1 := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	out1 := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	in2 := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	out2 := time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)
	costumeID := uint(7)
	f.attendance = []models.Attendance{
		{StoreID: 1, CastID: 1, Date: testDate(), ClockIn: &in1, ClockOut: &out1, CostumeID: &costumeID},
		{StoreID: 1, CastID: 1, Date: testDate(), ClockIn: &in2, ClockOut: &out2},
	}
	f.wageTiers = []models.WageTier{{StoreID: 1, CastID: 1, BaseHourlyWage: 2000}}
	f.costumes = []models.CostumeBonus{{ID: 7, StoreID: 1, CostumeName: "dress", BonusPerHour: 300}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	st := statFor(t, f.gotStats, 1)
	if st.WorkMinutes != 180 {
		t.Errorf("work minutes = %d, expected 180", st.WorkMinutes)
	}
	// 120 min at 2300 plus 60 min at 2000
	if st.WageAmount != 6600 {
		t.Errorf("wage amount = %d, expected 6600", st.WageAmount)
	}
	if st.HourlyWage != 2200 {
		t.Errorf("hourly wage = %d, expected weighted 2200", st.HourlyWage)
	}
}

// The per-(store,date) lock turns a concurrent invocation into a structured
// failure.
func TestRecalculateDailyLockBusy(t *testing.T) {
	f := baseFake(baseSettings(models.AllToNomination, models.SelfOnly))
	svc := NewRecalcService(f, f, castRepo{f}, productRepo{f}, attendanceRepo{f}, channelRepo{f}, dailyRepo{f}, busyLocker{}, nil, time.Minute)

	result := svc.RecalculateDaily(1, testDate())
	if result.Success {
		t.Fatal("expected lock failure")
	}
	if f.replaceCalls != 0 {
		t.Error("locked run must not write")
	}
}

// Tax exclusion and per-item floor rounding happen before the split.
func TestRecalculateDailyNormalization(t *testing.T) {
	settings := baseSettings(models.AllToNomination, models.SelfOnly)
	settings.Item.ExcludeConsumptionTax = true
	settings.Item.RoundingMethod = models.RoundFloor
	settings.Item.RoundingPosition = 100
	f := baseFake(settings)
	f.orders = []models.Order{{
		ID: 10, StoreID: 1, StaffName: "Aoi", OrderDate: testDate(),
		Items: []models.OrderItem{{OrderID: 10, ProductName: "Bottle", CastName: "Aoi", Quantity: 1, UnitPrice: 1180, Subtotal: 1180, NeedsCast: true}},
	}}

	result := newService(f).RecalculateDaily(1, testDate())
	if !result.Success {
		t.Fatalf("recalc failed: %s", result.Error)
	}
	// 1180 incl. 10% tax -> 1072 -> floor to 1000
	if got := statFor(t, f.gotStats, 1).SelfSalesItemBased; got != 1000 {
		t.Errorf("normalized self sales = %d, expected 1000", got)
	}
}
