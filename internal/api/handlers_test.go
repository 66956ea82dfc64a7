package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

type stubFeed struct {
	prices []*models.MandiPrice
}

func (s *stubFeed) GetPrices(_ context.Context, market, date string) []*models.MandiPrice {
	return s.prices
}

func newTestRouter(t *testing.T) (*storage.MemStorage, http.Handler) {
	t.Helper()
	store := storage.NewMemStorage()
	modal := decimal.NewFromInt(4500)
	feed := &stubFeed{prices: []*models.MandiPrice{{
		Market: "Delhi Market", Commodity: "Rice", ModalPrice: &modal,
	}}}
	return store, SetupRoutes(NewHandler(store, feed, nil))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy when primary is up", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "postgres", body["storage"])
	})

	t.Run("degraded storage is surfaced", func(t *testing.T) {
		store := storage.NewMemStorage()
		h := NewHandler(store, &stubFeed{}, func() bool { return true })
		router := SetupRoutes(h)

		rec := doJSON(t, router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "memory", body["storage"])
	})
}

func TestGetMandiPricesEndpoint(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/mandi/prices?market=Delhi+Market", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var prices []*models.MandiPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prices))
	require.Len(t, prices, 1)
	assert.Equal(t, "Rice", prices[0].Commodity)
}

func TestPriceAlertEndpoints(t *testing.T) {
	validAlert := map[string]any{
		"user_id":      "u1",
		"commodity":    "Rice",
		"market":       "Delhi Market",
		"target_price": "4000",
		"alert_type":   "above",
	}

	t.Run("create returns the stored alert", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/api/price-alerts", validAlert)
		require.Equal(t, http.StatusCreated, rec.Code)

		var alert models.PriceAlert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alert))
		assert.NotEmpty(t, alert.ID)
		assert.True(t, alert.IsActive)
		assert.Equal(t, models.DefaultPriceUnit, alert.PriceUnit)
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/api/price-alerts", map[string]any{
			"user_id": "u1", "target_price": "4000", "alert_type": "above",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create rejects non-positive target", func(t *testing.T) {
		_, router := newTestRouter(t)
		bad := map[string]any{
			"user_id": "u1", "commodity": "Rice", "market": "Delhi Market",
			"target_price": "0", "alert_type": "above",
		}
		rec := doJSON(t, router, http.MethodPost, "/api/price-alerts", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create rejects unknown alert type", func(t *testing.T) {
		_, router := newTestRouter(t)
		bad := map[string]any{
			"user_id": "u1", "commodity": "Rice", "market": "Delhi Market",
			"target_price": "4000", "alert_type": "sideways",
		}
		rec := doJSON(t, router, http.MethodPost, "/api/price-alerts", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list requires user_id", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodGet, "/api/price-alerts", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list returns the user's alerts", func(t *testing.T) {
		_, router := newTestRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/price-alerts", validAlert).Code)

		rec := doJSON(t, router, http.MethodGet, "/api/price-alerts?user_id=u1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var alerts []*models.PriceAlert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
		assert.Len(t, alerts, 1)
	})

	t.Run("update toggles activity", func(t *testing.T) {
		_, router := newTestRouter(t)
		created := doJSON(t, router, http.MethodPost, "/api/price-alerts", validAlert)
		require.Equal(t, http.StatusCreated, created.Code)

		var alert models.PriceAlert
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &alert))

		rec := doJSON(t, router, http.MethodPut, "/api/price-alerts/"+alert.ID, map[string]any{"is_active": false})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.PriceAlert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.False(t, updated.IsActive)
	})

	t.Run("update of missing alert is 404", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPut, "/api/price-alerts/nope", map[string]any{"is_active": false})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete removes the alert", func(t *testing.T) {
		_, router := newTestRouter(t)
		created := doJSON(t, router, http.MethodPost, "/api/price-alerts", validAlert)
		require.Equal(t, http.StatusCreated, created.Code)

		var alert models.PriceAlert
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &alert))

		assert.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodDelete, "/api/price-alerts/"+alert.ID, nil).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodDelete, "/api/price-alerts/"+alert.ID, nil).Code)
	})
}

func TestCommunityEndpoints(t *testing.T) {
	t.Run("posts come back with stats intact", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodGet, "/api/community/posts", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var posts []*models.CommunityPost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Len(t, posts, 2)
	})

	t.Run("create post requires content", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/api/community/posts", map[string]any{"user_id": "u1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("like on missing post is 404", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/api/community/posts/nope/like", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("stats endpoint", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodGet, "/api/community/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var stats models.CommunityStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.NotEmpty(t, stats.TotalFarmers)
	})
}

func TestBiddingEndpoints(t *testing.T) {
	newListing := map[string]any{
		"farmer_id":     "u1",
		"commodity":     "Rice",
		"quantity":      "10",
		"quantity_unit": "quintal",
		"ask_price":     "4200",
		"price_unit":    models.DefaultPriceUnit,
	}

	t.Run("bid then accept marks the listing sold", func(t *testing.T) {
		_, router := newTestRouter(t)

		created := doJSON(t, router, http.MethodPost, "/api/listings", newListing)
		require.Equal(t, http.StatusCreated, created.Code)
		var listing models.ProduceListing
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &listing))
		assert.Equal(t, models.ListingStatusOpen, listing.Status)

		bidRec := doJSON(t, router, http.MethodPost, "/api/listings/"+listing.ID+"/bids", map[string]any{
			"buyer_id": "b1", "amount": "4300",
		})
		require.Equal(t, http.StatusCreated, bidRec.Code)
		var bid models.Bid
		require.NoError(t, json.Unmarshal(bidRec.Body.Bytes(), &bid))

		acceptRec := doJSON(t, router, http.MethodPost, "/api/bids/"+bid.ID+"/accept", nil)
		require.Equal(t, http.StatusOK, acceptRec.Code)

		// Further bids on a sold listing are refused.
		again := doJSON(t, router, http.MethodPost, "/api/listings/"+listing.ID+"/bids", map[string]any{
			"buyer_id": "b2", "amount": "4400",
		})
		assert.Equal(t, http.StatusConflict, again.Code)
	})

	t.Run("bid on missing listing is 404", func(t *testing.T) {
		_, router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/api/listings/nope/bids", map[string]any{
			"buyer_id": "b1", "amount": "4300",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLogisticsEndpoints(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/logistics/orders", map[string]any{
		"user_id":         "u1",
		"pickup_location": "Sangli, MH",
		"drop_location":   "Mumbai, MH",
		"vehicle_type":    "mini-truck",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.LogisticsOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusRequested, order.Status)

	listRec := doJSON(t, router, http.MethodGet, "/api/logistics/orders?user_id=u1", nil)
	require.Equal(t, http.StatusOK, listRec.Code)

	var orders []*models.LogisticsOrder
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}
