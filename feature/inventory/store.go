package inventory

import (
	"context"
	"errors"
	"fmt"

	"collection-pricer/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Inventory is what the refresh scheduler and value log need from the collection.
type Inventory interface {
	// Sets returns the enabled sets ordered by position.
	Sets(ctx context.Context) ([]Set, error)
	// Rows returns the rows of a set ordered by position.
	Rows(ctx context.Context, setID uint) ([]Row, error)
	// WriteBack applies a batch of updates atomically.
	WriteBack(ctx context.Context, updates []RowUpdate) error
}

// Store is the gorm-backed Inventory.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore wraps db.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Prepare creates the tables, or adds derived columns an older schema lacks.
func (s *Store) Prepare(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Migrator().HasTable(&Row{}) {
		missing, err := database.MissingColumns(db, Row{}.TableName(), derivedColumns)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			s.logger.Info("Adding derived columns to collection_rows", zap.Strings("columns", missing))
		}
	}
	if err := db.AutoMigrate(&Set{}, &Row{}); err != nil {
		return fmt.Errorf("failed to migrate inventory tables: %w", err)
	}
	return nil
}

func (s *Store) Sets(ctx context.Context) ([]Set, error) {
	var sets []Set
	err := s.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("position ASC, id ASC").
		Find(&sets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sets: %w", err)
	}
	return sets, nil
}

func (s *Store) Rows(ctx context.Context, setID uint) ([]Row, error) {
	var rows []Row
	err := s.db.WithContext(ctx).
		Where("set_id = ?", setID).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rows for set %d: %w", setID, err)
	}
	return rows, nil
}

func (s *Store) WriteBack(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]any{
				"total":      u.Total,
				"confidence": u.Confidence,
				"method":     u.Method,
				"item_key":   u.ItemKey,
			}
			if u.Price != nil {
				fields["price"] = *u.Price
			}
			if u.PricedAt != nil {
				fields["priced_at"] = *u.PricedAt
			}
			if err := tx.Model(&Row{}).Where("id = ?", u.RowID).Updates(fields).Error; err != nil {
				return fmt.Errorf("failed to write row %d: %w", u.RowID, err)
			}
		}
		return nil
	})
}

// SetByName looks a set up by name.
func (s *Store) SetByName(ctx context.Context, name string) (*Set, error) {
	var set Set
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// ReplaceSet upserts set by name and replaces its rows, keeping the derived
// columns of rows whose item key survives the import.
func (s *Store) ReplaceSet(ctx context.Context, set Set, rows []Row) (*Set, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Set
		err := tx.Where("name = ?", set.Name).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if set.Position == 0 {
				var maxPos int
				if err := tx.Model(&Set{}).Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
					return fmt.Errorf("failed to read set positions: %w", err)
				}
				set.Position = maxPos + 1
			}
			set.Enabled = true
			if err := tx.Create(&set).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if set.CatalogSetID != "" {
				existing.CatalogSetID = set.CatalogSetID
			}
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			set = existing
		}

		var old []Row
		if err := tx.Where("set_id = ?", set.ID).Find(&old).Error; err != nil {
			return err
		}
		previous := make(map[string]Row, len(old))
		for _, r := range old {
			previous[ItemKey(set.Name, r.Name, r.Rarity, r.CardID)] = r
		}

		if err := tx.Where("set_id = ?", set.ID).Delete(&Row{}).Error; err != nil {
			return err
		}

		for i := range rows {
			rows[i].ID = 0
			rows[i].SetID = set.ID
			rows[i].Position = i
			if prev, ok := previous[ItemKey(set.Name, rows[i].Name, rows[i].Rarity, rows[i].CardID)]; ok && rows[i].Price == nil {
				rows[i].Price = prev.Price
				rows[i].Confidence = prev.Confidence
				rows[i].Method = prev.Method
				rows[i].PricedAt = prev.PricedAt
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import set %q: %w", set.Name, err)
	}
	return &set, nil
}
