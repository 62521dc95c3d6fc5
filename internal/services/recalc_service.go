package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cast_manager/internal/models"
	"cast_manager/internal/redis"
	"cast_manager/internal/repository"
	"cast_manager/internal/salescalc"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecalcService recomputes one store's daily distribution: every order item
// is classified, split and commissioned per the store's settings, the
// resulting per-cast rows and stats replace the previous run's output, and
// finalized casts are left untouched. The same entry point serves the HTTP
// handler and the batch job.
type RecalcService interface {
	RecalculateDaily(storeID uint, date time.Time) models.RecalcResult
}

// RecalcBusyMessage is the failure text of a run rejected because another
// invocation holds the per-(store,date) lock.
const RecalcBusyMessage = "recalculation already running for this store and date"

// RecalcLocker serializes runs per (store, date). A nil lock with a nil
// error means locking is disabled.
type RecalcLocker interface {
	ObtainRecalcLock(ctx context.Context, storeID uint, date time.Time, ttl time.Duration) (*redislock.Lock, error)
	InvalidateDailyStats(storeID uint, date string) error
}

// RecalcNotifier reports a finished run to an external webhook. Failures are
// logged, never propagated.
type RecalcNotifier interface {
	NotifyRecalc(storeID uint, date string, result models.RecalcResult) error
}

type recalcService struct {
	settingsRepo   repository.SettingsRepository
	orderRepo      repository.OrderRepository
	castRepo       repository.CastRepository
	productRepo    repository.ProductRepository
	attendanceRepo repository.AttendanceRepository
	channelRepo    repository.ChannelSaleRepository
	dailyRepo      repository.DailyRepository
	locker         RecalcLocker
	notifier       RecalcNotifier
	lockTTL        time.Duration
}

func NewRecalcService(
	settingsRepo repository.SettingsRepository,
	orderRepo repository.OrderRepository,
	castRepo repository.CastRepository,
	productRepo repository.ProductRepository,
	attendanceRepo repository.AttendanceRepository,
	channelRepo repository.ChannelSaleRepository,
	dailyRepo repository.DailyRepository,
	locker RecalcLocker,
	notifier RecalcNotifier,
	lockTTL time.Duration,
) RecalcService {
	return &recalcService{
		settingsRepo:   settingsRepo,
		orderRepo:      orderRepo,
		castRepo:       castRepo,
		productRepo:    productRepo,
		attendanceRepo: attendanceRepo,
		channelRepo:    channelRepo,
		dailyRepo:      dailyRepo,
		locker:         locker,
		notifier:       notifier,
		lockTTL:        lockTTL,
	}
}

// itemRowKey identifies one output row for merge purposes.
type itemRowKey struct {
	OrderID     uint
	CastID      uint
	HelpCastID  uint
	ProductName string
	Category    string
	IsSelf      bool
}

func (s *recalcService) RecalculateDaily(storeID uint, date time.Time) models.RecalcResult {
	dateStr := date.Format("2006-01-02")
	logger := logrus.WithFields(logrus.Fields{"store_id": storeID, "date": dateStr})

	if s.locker != nil {
		lock, err := s.locker.ObtainRecalcLock(context.Background(), storeID, date, s.lockTTL)
		if errors.Is(err, redis.ErrLockNotObtained) {
			logger.Warn("recalculation already running")
			return s.fail(logger, RecalcBusyMessage)
		}
		if err != nil {
			return s.fail(logger, fmt.Sprintf("failed to obtain lock: %v", err))
		}
		if lock != nil {
			defer func() {
				_ = lock.Release(context.Background())
			}()
		}
	}

	in, errMsg := s.loadInputs(storeID, date)
	if errMsg != "" {
		return s.fail(logger, errMsg)
	}

	rows, stats, channelIDs := s.compute(in, storeID, date)

	// Finalized data is immutable until explicitly unlocked elsewhere.
	castIDs := make([]uint, 0, len(stats))
	for _, st := range stats {
		castIDs = append(castIDs, st.CastID)
	}

	if err := s.dailyRepo.ReplaceDay(storeID, date, castIDs, rows, stats, channelIDs); err != nil {
		return s.fail(logger, fmt.Sprintf("failed to persist daily results: %v", err))
	}

	if s.locker != nil {
		if err := s.locker.InvalidateDailyStats(storeID, dateStr); err != nil {
			logger.WithError(err).Warn("failed to invalidate stats cache")
		}
	}

	result := models.RecalcResult{
		Success:        true,
		CastsProcessed: len(stats),
		ItemsProcessed: len(rows),
	}
	logger.WithFields(logrus.Fields{
		"casts": result.CastsProcessed,
		"items": result.ItemsProcessed,
	}).Info("daily recalculation finished")

	s.notify(logger, storeID, dateStr, result)
	return result
}

func (s *recalcService) fail(logger *logrus.Entry, msg string) models.RecalcResult {
	logger.Error(msg)
	return models.RecalcResult{Success: false, Error: msg}
}

func (s *recalcService) notify(logger *logrus.Entry, storeID uint, date string, result models.RecalcResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyRecalc(storeID, date, result); err != nil {
		logger.WithError(err).Warn("recalc notification failed")
	}
}

// recalcInputs is the full read snapshot one run works from.
type recalcInputs struct {
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
}

// loadInputs gathers everything the computation needs. Any read error aborts
// the whole invocation before any write happens.
func (s *recalcService) loadInputs(storeID uint, date time.Time) (*recalcInputs, string) {
	in := &recalcInputs{}
	var err error

	if in.settings, err = s.settingsRepo.GetByStoreID(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load sales settings: %v", err)
	}
	in.taxRate, err = s.settingsRepo.GetTaxRate(storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No explicit configuration: standard consumption tax, no service charge.
		in.taxRate = &models.TaxRate{StoreID: storeID, ConsumptionTaxPercent: 10}
	} else if err != nil {
		return nil, fmt.Sprintf("failed to load tax rate: %v", err)
	}
	if in.orders, err = s.orderRepo.GetByStoreAndDate(storeID, date); err != nil {
		return nil, fmt.Sprintf("failed to load orders: %v", err)
	}
	if in.casts, err = s.castRepo.GetByStoreID(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load cast roster: %v", err)
	}
	if in.products, err = s.productRepo.GetByStoreID(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load products: %v", err)
	}
	if in.backRates, err = s.productRepo.GetBackRates(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load back rates: %v", err)
	}
	if in.attendance, err = s.attendanceRepo.GetByStoreAndDate(storeID, date); err != nil {
		return nil, fmt.Sprintf("failed to load attendance: %v", err)
	}
	if in.wageTiers, err = s.attendanceRepo.GetWageTiers(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load wage tiers: %v", err)
	}
	if in.costumes, err = s.attendanceRepo.GetCostumeBonuses(storeID); err != nil {
		return nil, fmt.Sprintf("failed to load costume bonuses: %v", err)
	}
	if in.specialDay, err = s.attendanceRepo.GetSpecialDayWage(storeID, date); err != nil {
		return nil, fmt.Sprintf("failed to load special day wage: %v", err)
	}
	if in.channelSales, err = s.channelRepo.GetUnprocessed(storeID, date); err != nil {
		return nil, fmt.Sprintf("failed to load channel sales: %v", err)
	}
	if in.finalizedIDs, err = s.dailyRepo.GetFinalizedCastIDs(storeID, date); err != nil {
		return nil, fmt.Sprintf("failed to load finalized casts: %v", err)
	}
	return in, ""
}

// compute runs the classifier, splitter, normalizer and back-rate resolver
// over every order line and folds the shares into merged item rows and
// per-cast daily stats. Finalized casts are dropped from the output entirely.
func (s *recalcService) compute(in *recalcInputs, storeID uint, date time.Time) ([]models.CastDailyItem, []models.CastDailyStats, []uint) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	castByName := make(map[string]uint, len(in.casts))
	for _, c := range in.casts {
		castByName[c.Name] = c.ID
	}
	productByName := make(map[string]*models.Product, len(in.products))
	for i := range in.products {
		productByName[in.products[i].Name] = &in.products[i]
	}
	finalized := make(map[uint]bool, len(in.finalizedIDs))
	for _, id := range in.finalizedIDs {
		finalized[id] = true
	}

	itemPolicy := salescalc.ResolvePolicy(in.settings, salescalc.ItemView)
	receiptPolicy := salescalc.ResolvePolicy(in.settings, salescalc.ReceiptView)
	itemTax := salescalc.EffectiveTaxPercent(itemPolicy, in.taxRate.ConsumptionTaxPercent, in.taxRate.ServiceChargePercent)
	receiptTax := salescalc.EffectiveTaxPercent(receiptPolicy, in.taxRate.ConsumptionTaxPercent, in.taxRate.ServiceChargePercent)

	rows := make(map[itemRowKey]*models.CastDailyItem)
	stats := make(map[uint]*models.CastDailyStats)
	stat := func(castID uint) *models.CastDailyStats {
		st, ok := stats[castID]
		if !ok {
			st = &models.CastDailyStats{StoreID: storeID, CastID: castID, Date: day}
			stats[castID] = st
		}
		return st
	}

	for oi := range in.orders {
		order := &in.orders[oi]
		nominations := salescalc.NominationSet(order, itemPolicy.NonHelpStaffNames)

		for _, name := range nominations {
			if id, ok := castByName[name]; ok {
				stat(id).NominationCount++
			}
		}

		orderRows := s.computeItemView(order, nominations, itemPolicy, itemTax, productByName, castByName, in.backRates, rows, day, storeID)
		s.computeReceiptView(order, nominations, receiptPolicy, receiptTax, castByName, stat, orderRows)
	}

	// Stats from the merged rows (item view), then day-level total rounding.
	for _, row := range rows {
		st := stat(row.CastID)
		if row.IsSelf {
			st.SelfSalesItemBased += row.SelfSales
			st.ProductBackTotal += row.SelfBackAmount
			if row.HelpCastID != nil {
				help := stat(*row.HelpCastID)
				help.HelpSalesItemBased += row.HelpSales
				help.ProductBackTotal += row.HelpBackAmount
			}
		} else {
			st.HelpSalesItemBased += row.HelpSales
			st.ProductBackTotal += row.HelpBackAmount
		}
	}

	s.applyChannelSales(in.channelSales, finalized, stat)
	s.applyWages(in, stat)

	for _, st := range stats {
		st.SelfSalesItemBased = salescalc.RoundTotal(st.SelfSalesItemBased, itemPolicy)
		st.HelpSalesItemBased = salescalc.RoundTotal(st.HelpSalesItemBased, itemPolicy)
		st.SelfSalesReceiptBased = salescalc.RoundTotal(st.SelfSalesReceiptBased, receiptPolicy)
		st.HelpSalesReceiptBased = salescalc.RoundTotal(st.HelpSalesReceiptBased, receiptPolicy)
		st.TotalSalesItemBased = st.SelfSalesItemBased + st.HelpSalesItemBased
		st.TotalSalesReceiptBased = st.SelfSalesReceiptBased + st.HelpSalesReceiptBased
	}

	outRows, outStats := flatten(rows, stats, finalized)
	return outRows, outStats, collectChannelIDs(in.channelSales, finalized)
}

// computeItemView produces and merges the item-based rows for one order and
// returns the rows it touched, keyed by self cast, for receipt-share
// attribution.
func (s *recalcService) computeItemView(
	order *models.Order,
	nominations []string,
	policy salescalc.Policy,
	taxPercent float64,
	productByName map[string]*models.Product,
	castByName map[string]uint,
	backRates []models.CastBackRate,
	rows map[itemRowKey]*models.CastDailyItem,
	day time.Time,
	storeID uint,
) map[uint][]*models.CastDailyItem {
	touched := make(map[uint][]*models.CastDailyItem)

	for ii := range order.Items {
		item := &order.Items[ii]
		needsCast := item.NeedsCast
		category := item.Category
		if p, ok := productByName[item.ProductName]; ok {
			needsCast = p.NeedsCast
			if category == nil {
				category = p.Category
			}
		}
		if !needsCast {
			continue
		}

		c := salescalc.ClassifyItem(item, nominations)
		if len(c.SelfNames) == 0 && len(c.HelpNames) == 0 {
			// Unattributed lines only exist in the receipt view.
			continue
		}

		normalized := salescalc.Normalize(item.Subtotal, policy, taxPercent)
		shares := salescalc.SplitItem(normalized, c, policy, nominations)

		var selfShares, helpShares []salescalc.Share
		for _, sh := range shares {
			if _, ok := castByName[sh.Name]; !ok {
				// Unknown staff name: the share is silently dropped.
				continue
			}
			if sh.Role == salescalc.RoleSelf {
				selfShares = append(selfShares, sh)
			} else {
				helpShares = append(helpShares, sh)
			}
		}

		upsert := func(castID uint, helpCastID *uint, selfAmt, helpAmt int64, isSelf bool) {
			key := itemRowKey{OrderID: order.ID, CastID: castID, ProductName: item.ProductName, IsSelf: isSelf}
			if helpCastID != nil {
				key.HelpCastID = *helpCastID
			}
			if category != nil {
				key.Category = *category
			}
			row, ok := rows[key]
			if !ok {
				row = &models.CastDailyItem{
					StoreID:     storeID,
					Date:        day,
					OrderID:     order.ID,
					CastID:      castID,
					HelpCastID:  helpCastID,
					ProductName: item.ProductName,
					Category:    category,
					IsSelf:      isSelf,
				}
				rows[key] = row
			}
			row.Quantity += item.Quantity
			row.SelfSales += selfAmt
			row.HelpSales += helpAmt
			row.SelfSalesItemBased += selfAmt
			if isSelf {
				row.SelfBackRate = salescalc.ResolveBackRate(backRates, castID, item.ProductName, category, salescalc.RoleSelf, policy.HelpRatio)
				row.SelfBackAmount += salescalc.BackAmount(selfAmt, row.SelfBackRate)
			}
			if helpCastID != nil {
				row.HelpBackRate = salescalc.ResolveBackRate(backRates, *helpCastID, item.ProductName, category, salescalc.RoleHelp, policy.HelpRatio)
				row.HelpBackAmount += salescalc.BackAmount(helpAmt, row.HelpBackRate)
			} else if !isSelf {
				row.HelpBackRate = salescalc.ResolveBackRate(backRates, castID, item.ProductName, category, salescalc.RoleHelp, policy.HelpRatio)
				row.HelpBackAmount += salescalc.BackAmount(helpAmt, row.HelpBackRate)
			}
			if isSelf {
				touched[castID] = append(touched[castID], row)
			}
		}

		switch {
		case len(selfShares) > 0 && len(helpShares) > 0:
			// One row per (self, help) pairing; each share spreads over its
			// partners with the first pairing absorbing the floor remainder.
			for si, ss := range selfShares {
				selfPortions := portionAmounts(ss.Amount, len(helpShares))
				for hi, hs := range helpShares {
					helpPortions := portionAmounts(hs.Amount, len(selfShares))
					selfID := castByName[ss.Name]
					helpID := castByName[hs.Name]
					upsert(selfID, &helpID, selfPortions[hi], helpPortions[si], true)
				}
			}
		case len(selfShares) > 0:
			for _, ss := range selfShares {
				upsert(castByName[ss.Name], nil, ss.Amount, 0, true)
			}
		default:
			for _, hs := range helpShares {
				upsert(castByName[hs.Name], nil, 0, hs.Amount, false)
			}
		}
	}
	return touched
}

// computeReceiptView folds one order's receipt-based split into the stats and
// spreads each cast's receipt share across its item rows proportionally to
// their item-based sales so every row carries both views. Receipt amounts
// with no row to land on (unattributed-only orders) live in the stats only.
func (s *recalcService) computeReceiptView(
	order *models.Order,
	nominations []string,
	policy salescalc.Policy,
	taxPercent float64,
	castByName map[string]uint,
	stat func(uint) *models.CastDailyStats,
	orderRows map[uint][]*models.CastDailyItem,
) {
	rc := salescalc.ClassifyReceipt(order, nominations)

	selfAmt := salescalc.Normalize(rc.SelfRaw+rc.UnattributedRaw, policy, taxPercent)
	helpAmt := salescalc.Normalize(rc.HelpRaw, policy, taxPercent)
	mixedAmt := salescalc.Normalize(rc.MixedRaw, policy, taxPercent)

	selfTargets := nominations
	if len(selfTargets) == 0 {
		selfTargets = rc.SelfNames
	}

	shares := salescalc.SplitReceipt(selfAmt, helpAmt, mixedAmt, selfTargets, rc.HelpNames, policy)
	for _, sh := range shares {
		castID, ok := castByName[sh.Name]
		if !ok {
			continue
		}
		st := stat(castID)
		if sh.Role == salescalc.RoleSelf {
			st.SelfSalesReceiptBased += sh.Amount
			spreadReceiptShare(sh.Amount, orderRows[castID])
		} else {
			st.HelpSalesReceiptBased += sh.Amount
		}
	}
}

// spreadReceiptShare distributes a cast's receipt-based amount across its
// item rows proportionally to their item-based self sales. The touched list
// may repeat a merged row; only distinct rows receive a portion.
func spreadReceiptShare(amount int64, touched []*models.CastDailyItem) {
	if len(touched) == 0 || amount == 0 {
		return
	}
	seen := make(map[*models.CastDailyItem]bool, len(touched))
	rows := make([]*models.CastDailyItem, 0, len(touched))
	for _, r := range touched {
		if !seen[r] {
			seen[r] = true
			rows = append(rows, r)
		}
	}
	var base int64
	for _, r := range rows {
		base += r.SelfSalesItemBased
	}
	if base == 0 {
		rows[0].SelfSalesReceiptBased += amount
		return
	}
	var given int64
	for _, r := range rows[1:] {
		portion := amount * r.SelfSalesItemBased / base
		r.SelfSalesReceiptBased += portion
		given += portion
	}
	rows[0].SelfSalesReceiptBased += amount - given
}

func (s *recalcService) applyChannelSales(sales []models.ChannelSale, finalized map[uint]bool, stat func(uint) *models.CastDailyStats) {
	for _, sale := range sales {
		if finalized[sale.CastID] {
			continue
		}
		amount := sale.ActualPrice * int64(sale.Quantity)
		st := stat(sale.CastID)
		st.SelfSalesItemBased += amount
		st.SelfSalesReceiptBased += amount
	}
}

// collectChannelIDs lists the channel sales a successful run consumes.
// Sales of finalized casts stay unprocessed for a later run.
func collectChannelIDs(sales []models.ChannelSale, finalized map[uint]bool) []uint {
	var ids []uint
	for _, sale := range sales {
		if !finalized[sale.CastID] {
			ids = append(ids, sale.ID)
		}
	}
	return ids
}

// applyWages computes work minutes and wage per cast from attendance.
// A clock-out earlier than clock-in means the shift crossed midnight.
func (s *recalcService) applyWages(in *recalcInputs, stat func(uint) *models.CastDailyStats) {
	baseWage := make(map[uint]int64, len(in.wageTiers))
	for _, t := range in.wageTiers {
		baseWage[t.CastID] = t.BaseHourlyWage
	}
	costumeBonus := make(map[uint]int64, len(in.costumes))
	for _, c := range in.costumes {
		costumeBonus[c.ID] = c.BonusPerHour
	}
	var specialBonus int64
	if in.specialDay != nil {
		specialBonus = in.specialDay.BonusPerHour
	}

	rateMinutes := make(map[uint]int64)
	for _, a := range in.attendance {
		if a.ClockIn == nil || a.ClockOut == nil {
			continue
		}
		minutes := int(a.ClockOut.Sub(*a.ClockIn).Minutes())
		if minutes < 0 {
			minutes += 24 * 60
		}
		hourly := baseWage[a.CastID] + specialBonus
		if a.CostumeID != nil {
			hourly += costumeBonus[*a.CostumeID]
		}
		st := stat(a.CastID)
		st.WorkMinutes += minutes
		st.WageAmount += hourly * int64(minutes) / 60
		rateMinutes[a.CastID] += hourly * int64(minutes)
	}

	// HourlyWage is the minutes-weighted rate across the day's shifts, which
	// may differ per shift (costume changes).
	for castID, rm := range rateMinutes {
		st := stat(castID)
		if st.WorkMinutes > 0 {
			st.HourlyWage = rm / int64(st.WorkMinutes)
		}
	}
}

// portionAmounts splits an amount into n floor portions, first absorbs the
// remainder.
func portionAmounts(amount int64, n int) []int64 {
	portions := make([]int64, n)
	per := amount / int64(n)
	for i := range portions {
		portions[i] = per
	}
	portions[0] += amount - per*int64(n)
	return portions
}

// flatten drops finalized casts and orders the output deterministically so a
// rerun with unchanged inputs produces identical rows.
func flatten(rows map[itemRowKey]*models.CastDailyItem, stats map[uint]*models.CastDailyStats, finalized map[uint]bool) ([]models.CastDailyItem, []models.CastDailyStats) {
	keys := make([]itemRowKey, 0, len(rows))
	for k := range rows {
		if finalized[k.CastID] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.CastID != b.CastID {
			return a.CastID < b.CastID
		}
		if a.OrderID != b.OrderID {
			return a.OrderID < b.OrderID
		}
		if a.HelpCastID != b.HelpCastID {
			return a.HelpCastID < b.HelpCastID
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return !a.IsSelf && b.IsSelf
	})
	outRows := make([]models.CastDailyItem, 0, len(keys))
	for _, k := range keys {
		outRows = append(outRows, *rows[k])
	}

	castIDs := make([]uint, 0, len(stats))
	for id := range stats {
		if !finalized[id] {
			castIDs = append(castIDs, id)
		}
	}
	sort.Slice(castIDs, func(i, j int) bool { return castIDs[i] < castIDs[j] })
	outStats := make([]models.CastDailyStats, 0, len(castIDs))
	for _, id := range castIDs {
		outStats = append(outStats, *stats[id])
	}
	return outRows, outStats
}
