package checks

import (
	"testing"

	"collection-pricer/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceRow struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Price *float64
}

func (priceRow) TableName() string { return "price_rows" }

type auditEntry struct {
	ID  uint `gorm:"primaryKey"`
	Key string
}

func (auditEntry) TableName() string { return "audit_entries" }

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, priceRow{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	t.Run("Matched", func(t *testing.T) {
		require.NoError(t, db.AutoMigrate(&priceRow{}))

		report, err := CheckSchema(db, priceRow{})
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, "sqlite", report.Driver)
		assert.Equal(t, "ok", report.Tables["price_rows"].Status)
	})

	t.Run("MissingTable", func(t *testing.T) {
		report, err := CheckSchema(db, priceRow{}, auditEntry{})
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, "missing", report.Tables["audit_entries"].Status)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		require.NoError(t, db.Exec("CREATE TABLE audit_entries (id INTEGER PRIMARY KEY)").Error)

		report, err := CheckSchema(db, auditEntry{})
		require.NoError(t, err)
		assert.False(t, report.Matched)
		tbl := report.Tables["audit_entries"]
		assert.Equal(t, "error", tbl.Status)
		assert.Equal(t, []string{"key"}, tbl.MissingColumns)
	})
}
