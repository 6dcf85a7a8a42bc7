package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMarketFlow_QuoteIngestAndHistory(t *testing.T) {
	app := setupApp(t)
	token := app.loginAdmin(t)

	app.createCompany(t, token, "DTC")

	// Two snapshots; unknown tickers are skipped without failing the batch
	rec := app.pipelineRequest(t, "/api/pipeline/quotes",
		`{"quotes":[{"ticker":"DTC","price":500},{"ticker":"GHOST","price":100}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["recorded"] != float64(1) {
		t.Errorf("expected 1 recorded, got %v", parseJSON(t, rec)["recorded"])
	}

	rec = app.pipelineRequest(t, "/api/pipeline/quotes",
		`{"quotes":[{"ticker":"DTC","price":600}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second ingest failed: %d %s", rec.Code, rec.Body.String())
	}

	// Latest quote carries the change vs the previous snapshot
	rec = app.request("GET", "/api/v1/companies/DTC/quote", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get quote failed: %d %s", rec.Code, rec.Body.String())
	}
	quote := parseJSON(t, rec)["quote"].(map[string]interface{})
	if quote["price"] != float64(600) {
		t.Errorf("expected price 600, got %v", quote["price"])
	}
	if quote["change_24h_pct"] != float64(20) {
		t.Errorf("expected 20%% change, got %v", quote["change_24h_pct"])
	}

	// History, newest first
	rec = app.request("GET", "/api/v1/companies/DTC/quotes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"] != float64(2) {
		t.Errorf("expected 2 quotes, got %v", result["total_items"])
	}
	quotes := result["data"].([]interface{})
	if newest := quotes[0].(map[string]interface{}); newest["price"] != float64(600) {
		t.Errorf("expected newest quote first, got %v", newest["price"])
	}
}

func TestMarketFlow_AssetPrices(t *testing.T) {
	app := setupApp(t)

	rec := app.pipelineRequest(t, "/api/pipeline/asset-prices",
		`{"prices":[{"asset":"BTC","price":5000000},{"asset":"ETH","price":300000}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["recorded"] != float64(2) {
		t.Errorf("expected 2 recorded, got %v", parseJSON(t, rec)["recorded"])
	}

	rec = app.request("GET", "/api/v1/assets/prices", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get prices failed: %d %s", rec.Code, rec.Body.String())
	}
	prices := parseJSON(t, rec)["prices"].(map[string]interface{})
	if prices["BTC"] != float64(5000000) {
		t.Errorf("expected BTC 5000000, got %v", prices["BTC"])
	}

	rec = app.request("GET", "/api/v1/assets/BTC/prices", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["total_items"] != float64(1) {
		t.Errorf("expected 1 BTC snapshot, got %v", parseJSON(t, rec)["total_items"])
	}

	rec = app.request("GET", "/api/v1/assets/SOL/prices", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for asset without data, got %d", rec.Code)
	}
}

func TestMarketFlow_PipelineRequiresAPIKey(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/quotes",
		strings.NewReader(`{"quotes":[{"ticker":"DTC","price":500}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}
}
