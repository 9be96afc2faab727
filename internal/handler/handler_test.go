package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"baniya/internal/catalog"
	"baniya/internal/compare"
	"baniya/internal/domain"
	"baniya/internal/ledger"
	"baniya/internal/logger"
	"baniya/internal/receipt"
	"baniya/internal/recommend"
	"baniya/internal/sales"
	"baniya/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

var now = time.Date(2025, 2, 12, 10, 30, 0, 0, time.UTC)

type stubExtractor struct {
	items []domain.PriceComparisonItem
	err   error
}

func (s stubExtractor) Extract(context.Context, receipt.Upload) ([]domain.PriceComparisonItem, error) {
	return s.items, s.err
}

type brokenCatalog struct{}

func (brokenCatalog) Snapshot() *catalog.Snapshot { return nil }

func testCards() []domain.CardOffer {
	return []domain.CardOffer{
		{
			ID:          "card-a",
			Name:        "Card A",
			RewardRates: map[domain.Category]float64{domain.Grocery: 5},
			BestFor:     []domain.Category{domain.Grocery},
		},
		{
			ID:              "card-b",
			Name:            "Card B",
			AnnualFeeAmount: 500,
			RewardRates:     map[domain.Category]float64{domain.Travel: 10},
			BestFor:         []domain.Category{domain.Travel},
		},
	}
}

func newTestRouter(t *testing.T, src recommend.CatalogSource, ex receipt.Extractor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTest(t)

	rec := recommend.NewService(src, nil, recommend.Policy{MinScore: 0, Limit: 5}, log)
	fund := ledger.NewService(memory.NewStorage(), "demo", log, ledger.WithClock(func() time.Time { return now }))

	r := gin.New()
	Register(r, Handlers{
		Cards:   NewCardHandler(rec, log),
		Compare: NewCompareHandler(compare.NewAnalyzer(ex, "blinkit", log), 1<<20, log),
		Sales:   NewSalesHandler(sales.Default()),
		Fund:    NewFundHandler(fund, log),
	})
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodGet, "/api/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Baniya.ai API"}`, w.Body.String())

	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecommend(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodPost, "/api/cc-helper/recommend",
		`{"grocery":5000,"dining":3000,"travel":0,"shopping":0,"utilities":0,"fuel":99}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []domain.ScoredRecommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "card-a", got[0].Card.ID)
	assert.Equal(t, 63, got[0].MatchScore)
	assert.Equal(t, 3000.0, got[0].EstimatedSavings)
}

func TestRecommendEmptyProfileReturnsEmptyArray(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodPost, "/api/cc-helper/recommend", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRecommendInvalid(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "negative", body: `{"dining":-5}`, wantField: "dining"},
		{name: "string", body: `{"grocery":"5000"}`, wantField: "grocery"},
		{name: "fraction", body: `{"travel":1.5}`, wantField: "travel"},
		{name: "not json", body: `grocery=5000`},
		{name: "array", body: `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/cc-helper/recommend", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "INVALID_INPUT", body["code"])
			assert.Equal(t, tt.wantField, body["field"])
		})
	}
}

func TestCatalogUnavailable(t *testing.T) {
	r := newTestRouter(t, brokenCatalog{}, stubExtractor{})

	w := do(r, http.MethodPost, "/api/cc-helper/recommend", `{"grocery":100}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_UNAVAILABLE")

	w = do(r, http.MethodGet, "/api/cc-helper/cards", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListCards(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodGet, "/api/cc-helper/cards", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got cardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "static", got.Version)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "card-a", got.Cards[0].ID)
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodPost, "/api/qcommerce/compare",
		`{"items":[{"name":"Milk","quantity":"1L","prices":{"blinkit":60,"instamart":58,"zepto":62}}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got domain.PriceComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "blinkit", got.BaselinePlatform)
	assert.Equal(t, 60.0, got.BaselineTotal)
	assert.Equal(t, 58.0, got.BestTotal)
	assert.Equal(t, 2.0, got.TotalSavings)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "instamart", *got.Items[0].BestPlatform)
	assert.Equal(t, "Switch to Instamart to save ₹2!", got.Recommendation)
}

func TestCompareEmptyList(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodPost, "/api/qcommerce/compare", `{"items":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.PriceComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Items)
	assert.Equal(t, 0.0, got.TotalSavings)
}

func TestCompareInvalid(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	tests := map[string]string{
		"blank name":     `{"items":[{"name":"  ","prices":{"zepto":1}}]}`,
		"negative price": `{"items":[{"name":"Milk","prices":{"zepto":-1}}]}`,
		"bad platform":   `{"items":[{"name":"Milk","prices":{"zep/to":1}}]}`,
		"bad baseline":   `{"baseline_platform":"??","items":[]}`,
		"malformed":      `{"items":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/qcommerce/compare", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "INVALID_INPUT")
		})
	}
}

func upload(t *testing.T, r http.Handler, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "order.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/qcommerce/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyze(t *testing.T) {
	ex := stubExtractor{items: []domain.PriceComparisonItem{
		{Name: "Milk", Quantity: "1L", Prices: map[string]float64{"blinkit": 60, "instamart": 58, "zepto": 62}},
	}}
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), ex)

	w := upload(t, r, "file", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got compare.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 60.0, got.TotalBlinkit)
	assert.Equal(t, 2.0, got.TotalSavings)
	assert.Equal(t, 2.0, got.Items[0].PotentialSavings)
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})
		w := upload(t, r, "image", pngHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})
		w := upload(t, r, "file", []byte("%PDF-1.4\n"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"file"`)
	})

	t.Run("extractor failure is opaque", func(t *testing.T) {
		ex := stubExtractor{err: domain.Upstream("receipt extraction failed", errors.New("dial tcp: refused"))}
		r := newTestRouter(t, catalog.NewStaticStore(testCards()), ex)
		w := upload(t, r, "file", pngHeader)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "receipt extraction failed")
		assert.NotContains(t, w.Body.String(), "refused")
	})
}

func TestSalesPredictions(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodGet, "/api/sales/predictions", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []domain.SalePrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 8)

	w = do(r, http.MethodGet, "/api/sales/predictions?platform=Amazon", "")
	var amazon []domain.SalePrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &amazon))
	assert.Len(t, amazon, 3)

	w = do(r, http.MethodGet, "/api/sales/predictions?platform=nobody", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFundFlow(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	w := do(r, http.MethodGet, "/api/shaadi-fund", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_saved":0,"transactions":0,"last_updated":"2025-02-12T10:30:00Z"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/shaadi-fund/add?amount=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"new_total":2,"total_saved":2,"transactions":1,"last_updated":"2025-02-12T10:30:00Z"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/shaadi-fund/add", `{"amount":72.5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/shaadi-fund", "")
	assert.JSONEq(t, `{"total_saved":74.5,"transactions":2,"last_updated":"2025-02-12T10:30:00Z"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/shaadi-fund/transactions?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var txs []domain.FundTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	assert.Len(t, txs, 1)
}

func TestFundAddInvalid(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	tests := map[string]struct {
		target string
		body   string
	}{
		"negative query": {target: "/api/shaadi-fund/add?amount=-1"},
		"text query":     {target: "/api/shaadi-fund/add?amount=lots"},
		"nan query":      {target: "/api/shaadi-fund/add?amount=NaN"},
		"missing amount": {target: "/api/shaadi-fund/add"},
		"empty json":     {target: "/api/shaadi-fund/add", body: `{}`},
		"negative json":  {target: "/api/shaadi-fund/add", body: `{"amount":-10}`},
		"string json":    {target: "/api/shaadi-fund/add", body: `{"amount":"10"}`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := do(r, http.MethodGet, "/api/shaadi-fund", "")
	assert.Contains(t, w.Body.String(), `"transactions":0`)
}

func TestFundTransactionsLimit(t *testing.T) {
	r := newTestRouter(t, catalog.NewStaticStore(testCards()), stubExtractor{})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/shaadi-fund/transactions?limit=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/shaadi-fund/transactions?limit=0", "").Code)

	w := do(r, http.MethodGet, "/api/shaadi-fund/transactions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(domain.CodeInvalidInput))
	assert.Equal(t, http.StatusNotFound, statusOf(domain.CodeNotFound))
	assert.Equal(t, http.StatusBadGateway, statusOf(domain.CodeUpstreamFailure))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(domain.CodeCatalogUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusOf(domain.CodeInternal))
}
