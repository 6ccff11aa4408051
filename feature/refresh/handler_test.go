package refresh

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	h := newHarness(t, testConfig(3))
	app := fiber.New()
	require.NoError(t, NewFeature(h.scheduler).Load(app))

	resp, err := app.Test(httptest.NewRequest("POST", "/refresh", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, StateCheckpointed, report.State)
	assert.Equal(t, 3, report.Processed)

	resp, err = app.Test(httptest.NewRequest("GET", "/refresh/status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, StateCheckpointed, st.State)
	require.NotNil(t, st.Cursor)
	assert.Equal(t, report.RunID, st.Cursor.RunID)

	resp, err = app.Test(httptest.NewRequest("POST", "/refresh/restart", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.False(t, report.Resumed)
}

func TestHandler_Conflict(t *testing.T) {
	h := newHarness(t, testConfig(3))
	app := fiber.New()
	NewHandler(h.scheduler).RegisterRoutes(app)

	h.scheduler.mu.Lock()
	defer h.scheduler.mu.Unlock()

	resp, err := app.Test(httptest.NewRequest("POST", "/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	h := newHarness(t, testConfig(3))
	feature := NewFeature(h.scheduler)

	assert.Equal(t, "refresh", feature.Name())
	assert.True(t, feature.IsEnabled())
}
