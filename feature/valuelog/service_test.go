package valuelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collection-pricer/core/clock"
	"collection-pricer/feature/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func price(v float64) *float64 { return &v }

func testInventory() *inventory.MemoryInventory {
	sets := []inventory.Set{
		{ID: 1, Name: "Base", Position: 1, Enabled: true},
		{ID: 2, Name: "Jungle", Position: 2, Enabled: true},
		{ID: 3, Name: "Disabled", Position: 3, Enabled: false},
	}
	rows := map[uint][]inventory.Row{
		1: {
			{Name: "Charizard", Quantity: 2, Price: price(100), Total: 200, Confidence: 0.9},
			{Name: "Pikachu", Quantity: 0, Price: price(5), Total: 0, Confidence: 0.6},
			{Name: "Blastoise", Quantity: 1},
			{Name: "  ", Quantity: 3, Price: price(1), Total: 3},
		},
		2: {
			{Name: "Scyther", Quantity: 1, Cond: "LP", Price: price(20), Total: 16, Confidence: 0.6},
		},
		3: {
			{Name: "Mew", Quantity: 5, Price: price(12), Total: 60, Confidence: 1},
		},
	}
	return inventory.NewMemoryInventory(sets, rows)
}

func setupService(t *testing.T) (*Service, *clock.Fake) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	clk := clock.NewFake(epoch)
	s := NewService(db, testInventory(), "GBP", clk, zap.NewNop())
	require.NoError(t, s.Migrate(context.Background()))
	return s, clk
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestService_Compute(t *testing.T) {
	s, _ := setupService(t)

	snap, err := s.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, epoch, snap.TakenAt)
	assert.Equal(t, "GBP", snap.Currency)
	assert.Equal(t, 216.0, snap.TotalValue)
	assert.Equal(t, 4, snap.CardsOwned)
	assert.Equal(t, 3, snap.DistinctOwned)
	assert.Equal(t, 2, snap.PricedOwned)
	assert.Equal(t, 66.7, snap.Coverage)
	assert.Equal(t, 0.75, snap.AvgConfidence)
}

func TestService_ComputeEmpty(t *testing.T) {
	s, _ := setupService(t)
	s.inv = inventory.NewMemoryInventory(nil, nil)

	snap, err := s.Compute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.TotalValue)
	assert.Zero(t, snap.Coverage)
	assert.Zero(t, snap.AvgConfidence)
}

func TestService_RecordAndHistory(t *testing.T) {
	ctx := context.Background()
	s, clk := setupService(t)

	first, err := s.Record(ctx)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	clk.Advance(24 * time.Hour)
	require.NoError(t, s.Capture(ctx))

	history, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history.Snapshots, 2)
	assert.True(t, history.Snapshots[0].TakenAt.After(history.Snapshots[1].TakenAt))
	assert.Equal(t, "£216.00", history.Latest)

	history, err = s.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history.Snapshots, 1)
}

func TestService_HistoryEmpty(t *testing.T) {
	s, _ := setupService(t)

	history, err := s.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, history.Snapshots)
	assert.Empty(t, history.Latest)
}

func TestService_RecordStoreError(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewService(db, testInventory(), "GBP", clock.NewFake(epoch), zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `value_snapshots`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.Record(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store value snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler(t *testing.T) {
	s, _ := setupService(t)
	app := fiber.New()
	feature := NewFeature(s)
	require.NoError(t, feature.Load(app))

	assert.Equal(t, "valuelog", feature.Name())
	assert.True(t, feature.IsEnabled())

	resp, err := app.Test(httptest.NewRequest("POST", "/valuelog", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var snap Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 216.0, snap.TotalValue)

	resp, err = app.Test(httptest.NewRequest("GET", "/valuelog?limit=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var history History
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history.Snapshots, 1)
	assert.Equal(t, "£216.00", history.Latest)
}

func TestHandler_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewService(db, testInventory(), "GBP", clock.NewFake(epoch), zap.NewNop())
	app := fiber.New()
	NewHandler(s).RegisterRoutes(app)

	mock.ExpectQuery("SELECT \\* FROM `value_snapshots`").WillReturnError(errors.New("gone away"))

	resp, err := app.Test(httptest.NewRequest("GET", "/valuelog", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
