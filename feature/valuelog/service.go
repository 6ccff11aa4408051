package valuelog

import (
	"context"
	"fmt"

	"collection-pricer/core/clock"
	"collection-pricer/core/reconcile"
	"collection-pricer/feature/inventory"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service computes and records collection value snapshots.
type Service struct {
	db       *gorm.DB
	inv      inventory.Inventory
	currency string
	clock    clock.Clock
	logger   *zap.Logger
}

// NewService creates a new value log service.
func NewService(db *gorm.DB, inv inventory.Inventory, currency string, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{db: db, inv: inv, currency: currency, clock: clk, logger: logger}
}

// Migrate creates the snapshot table.
func (s *Service) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Snapshot{}); err != nil {
		return fmt.Errorf("failed to migrate value_snapshots: %w", err)
	}
	return nil
}

// Compute values the owned rows of every enabled set without storing anything.
func (s *Service) Compute(ctx context.Context) (*Snapshot, error) {
	sets, err := s.inv.Sets(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{TakenAt: s.clock.Now(), Currency: s.currency}
	total := decimal.Zero
	confidence := decimal.Zero
	for _, set := range sets {
		rows, err := s.inv.Rows(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if !r.HasName() || !r.Owned() {
				continue
			}
			snap.CardsOwned += r.Quantity
			snap.DistinctOwned++
			total = total.Add(decimal.NewFromFloat(r.Total))
			if r.Price != nil && *r.Price > 0 {
				snap.PricedOwned++
				confidence = confidence.Add(decimal.NewFromFloat(r.Confidence))
			}
		}
	}

	snap.TotalValue = total.Round(2).InexactFloat64()
	if snap.DistinctOwned > 0 {
		snap.Coverage = decimal.NewFromInt(int64(snap.PricedOwned)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(snap.DistinctOwned))).
			Round(1).
			InexactFloat64()
	}
	if snap.PricedOwned > 0 {
		snap.AvgConfidence = confidence.Div(decimal.NewFromInt(int64(snap.PricedOwned))).Round(3).InexactFloat64()
	}
	return snap, nil
}

// Record computes a snapshot and stores it.
func (s *Service) Record(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return nil, fmt.Errorf("failed to store value snapshot: %w", err)
	}
	s.logger.Info("Value snapshot recorded",
		zap.String("total", reconcile.FormatMoney(snap.TotalValue, snap.Currency)),
		zap.Int("cards_owned", snap.CardsOwned),
		zap.Float64("coverage", snap.Coverage))
	return snap, nil
}

// Capture records a snapshot, discarding it. It lets the refresh scheduler
// record one on completion.
func (s *Service) Capture(ctx context.Context) error {
	_, err := s.Record(ctx)
	return err
}

// History returns the newest snapshots first, at most limit of them.
func (s *Service) History(ctx context.Context, limit int) (*History, error) {
	if limit <= 0 {
		limit = 30
	}
	var snaps []Snapshot
	err := s.db.WithContext(ctx).Order("taken_at DESC, id DESC").Limit(limit).Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load value snapshots: %w", err)
	}
	h := &History{Snapshots: snaps}
	if len(snaps) > 0 {
		h.Latest = reconcile.FormatMoney(snaps[0].TotalValue, snaps[0].Currency)
	}
	return h, nil
}
