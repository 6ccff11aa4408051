package pricing

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"collection-pricer/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetPrice(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		price      float64
		target     string
		wantStatus int
		wantBody   string
	}{
		{"Resolved", configured(), 10, "/prices?name=Charizard&set=Base&quantity=3", fiber.StatusOK, `"total":30`},
		{"MissingName", configured(), 10, "/prices?set=Base", fiber.StatusBadRequest, "name or card_id is required"},
		{"NotConfigured", DefaultConfig(), 10, "/prices?name=Charizard&set=Base", fiber.StatusServiceUnavailable, "no price source configured"},
		{"NoData", configured(), 0, "/prices?card_id=base1-4", fiber.StatusNotFound, "no price data found for this request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.cfg, newFakeSource(reconcile.SourceCatalog, tt.price))
			app := fiber.New()
			NewHandler(svc).RegisterRoutes(app)

			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestHandleGetPrice_QuoteShape(t *testing.T) {
	svc := newTestService(t, configured(), newFakeSource(reconcile.SourceCatalog, 10))
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/prices?name=Charizard&set=Base&condition=played", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quote Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.Equal(t, "single-source", string(quote.Resolution.Method))
	assert.Equal(t, 6.0, quote.Total)
	assert.Equal(t, "£10.00", quote.Formatted)
}

func TestLoader(t *testing.T) {
	svc := newTestService(t, configured())
	feature := NewFeature(svc)

	assert.Equal(t, "pricing", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.Same(t, svc, feature.Service())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))
}
