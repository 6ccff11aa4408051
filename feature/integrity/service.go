package integrity

import (
	"context"
	"errors"

	"collection-pricer/core/kvstore"
	"collection-pricer/core/storage"
	"collection-pricer/feature/integrity/checks"
	"collection-pricer/feature/inventory"
	"collection-pricer/feature/valuelog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoStorage is returned by storage checks when the object tier is not in use.
var ErrNoStorage = errors.New("object storage is not configured as the durable tier")

// models are the tables the pricer owns.
var models = []any{
	inventory.Set{},
	inventory.Row{},
	kvstore.Entry{},
	valuelog.Snapshot{},
}

// SourceChecker reports whether any price source can run.
type SourceChecker interface {
	CheckConfigured() error
	Currency() string
}

// SourcesReport describes the price source configuration.
type SourcesReport struct {
	Configured bool   `json:"configured"`
	Currency   string `json:"currency"`
	Error      string `json:"error,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	client  storage.Client
	storage storage.Config
	sources SourceChecker
	logger  *zap.Logger
}

// NewService creates a new integrity service. db and client may be nil.
func NewService(db *gorm.DB, client storage.Client, storageCfg storage.Config, sources SourceChecker, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		client:  client,
		storage: storageCfg,
		sources: sources,
		logger:  logger,
	}
}

// CheckSchema compares the database with the pricer's models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models...)
}

// CheckStorage reports on the durable bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	return checks.CheckBucket(ctx, s.client, s.storage.Bucket)
}

// FixStorage creates the durable bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return ErrNoStorage
	}
	return checks.FixBucket(ctx, s.client, s.storage.Bucket, s.storage.Region, s.logger)
}

// CheckSources reports whether a lookup could be answered.
func (s *Service) CheckSources() SourcesReport {
	report := SourcesReport{Configured: true, Currency: s.sources.Currency()}
	if err := s.sources.CheckConfigured(); err != nil {
		report.Configured = false
		report.Error = err.Error()
	}
	return report
}
