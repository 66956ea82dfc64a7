package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

// PriceFeed supplies current mandi prices for the read endpoint.
type PriceFeed interface {
	GetPrices(ctx context.Context, market, date string) []*models.MandiPrice
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store    storage.Storage
	feed     PriceFeed
	degraded func() bool
}

// NewHandler creates a new Handler. degraded reports whether the persistence
// layer is running on the in-memory fallback; nil means never degraded.
func NewHandler(store storage.Storage, feed PriceFeed, degraded func() bool) *Handler {
	if degraded == nil {
		degraded = func() bool { return false }
	}
	return &Handler{
		store:    store,
		feed:     feed,
		degraded: degraded,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	storageMode := "postgres"
	if h.degraded() {
		status = "degraded"
		storageMode = "memory"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"storage": storageMode,
	})
}

// GetMandiPrices handles GET /api/mandi/prices?market=...&date=...
func (h *Handler) GetMandiPrices(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	date := r.URL.Query().Get("date")

	prices := h.feed.GetPrices(r.Context(), market, date)
	respondJSON(w, http.StatusOK, prices)
}

// ListPriceAlerts handles GET /api/price-alerts?user_id=...
func (h *Handler) ListPriceAlerts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	alerts, err := h.store.GetPriceAlertsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

// CreatePriceAlert handles POST /api/price-alerts
func (h *Handler) CreatePriceAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string          `json:"user_id"`
		Commodity   string          `json:"commodity"`
		Market      string          `json:"market"`
		TargetPrice decimal.Decimal `json:"target_price"`
		PriceUnit   string          `json:"price_unit"`
		AlertType   string          `json:"alert_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Commodity == "" || req.Market == "" {
		http.Error(w, "user_id, commodity and market are required", http.StatusBadRequest)
		return
	}
	if !req.TargetPrice.IsPositive() {
		http.Error(w, "target_price must be positive", http.StatusBadRequest)
		return
	}
	if req.AlertType != models.AlertTypeAbove && req.AlertType != models.AlertTypeBelow {
		http.Error(w, "alert_type must be above or below", http.StatusBadRequest)
		return
	}
	if req.PriceUnit == "" {
		req.PriceUnit = models.DefaultPriceUnit
	}

	alert := &models.PriceAlert{
		UserID:      req.UserID,
		Commodity:   req.Commodity,
		Market:      req.Market,
		TargetPrice: req.TargetPrice,
		PriceUnit:   req.PriceUnit,
		AlertType:   req.AlertType,
		IsActive:    true,
	}
	if err := h.store.CreatePriceAlert(alert); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, alert)
}

// UpdatePriceAlert handles PUT /api/price-alerts/{id}
func (h *Handler) UpdatePriceAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var upd models.PriceAlertUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if upd.TargetPrice != nil && !upd.TargetPrice.IsPositive() {
		http.Error(w, "target_price must be positive", http.StatusBadRequest)
		return
	}
	if upd.AlertType != nil && *upd.AlertType != models.AlertTypeAbove && *upd.AlertType != models.AlertTypeBelow {
		http.Error(w, "alert_type must be above or below", http.StatusBadRequest)
		return
	}

	alert, err := h.store.UpdatePriceAlert(id, &upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "price alert not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, alert)
}

// DeletePriceAlert handles DELETE /api/price-alerts/{id}
func (h *Handler) DeletePriceAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeletePriceAlert(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "price alert not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateDiseaseReport handles POST /api/disease-reports
func (h *Handler) CreateDiseaseReport(w http.ResponseWriter, r *http.Request) {
	var report models.DiseaseReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if report.UserID == "" || report.DiseaseName == "" {
		http.Error(w, "user_id and disease_name are required", http.StatusBadRequest)
		return
	}

	if err := h.store.CreateDiseaseReport(&report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &report)
}

// GetRecentDiseaseReports handles GET /api/disease-reports/recent?user_id=...&limit=...
func (h *Handler) GetRecentDiseaseReports(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 10)

	reports, err := h.store.GetRecentDiseaseReports(userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// GetCommunityPosts handles GET /api/community/posts?limit=...
func (h *Handler) GetCommunityPosts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	posts, err := h.store.GetCommunityPosts(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

// CreateCommunityPost handles POST /api/community/posts
func (h *Handler) CreateCommunityPost(w http.ResponseWriter, r *http.Request) {
	var post models.CommunityPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if post.UserID == "" || post.Content == "" {
		http.Error(w, "user_id and content are required", http.StatusBadRequest)
		return
	}

	if err := h.store.CreateCommunityPost(&post); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &post)
}

// LikeCommunityPost handles POST /api/community/posts/{id}/like
func (h *Handler) LikeCommunityPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.LikeCommunityPost(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// GetCommunityStats handles GET /api/community/stats
func (h *Handler) GetCommunityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetCommunityStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetMarketplaceItems handles GET /api/marketplace/items?category=...
func (h *Handler) GetMarketplaceItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	items, err := h.store.GetMarketplaceItems(category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// CreateMarketplaceItem handles POST /api/marketplace/items
func (h *Handler) CreateMarketplaceItem(w http.ResponseWriter, r *http.Request) {
	var item models.MarketplaceItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if item.SellerID == "" || item.Title == "" || item.Category == "" {
		http.Error(w, "seller_id, title and category are required", http.StatusBadRequest)
		return
	}
	if !item.Price.IsPositive() {
		http.Error(w, "price must be positive", http.StatusBadRequest)
		return
	}
	item.IsActive = true

	if err := h.store.CreateMarketplaceItem(&item); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &item)
}

// GetProduceListings handles GET /api/listings?status=...
func (h *Handler) GetProduceListings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	listings, err := h.store.GetProduceListings(status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, listings)
}

// CreateProduceListing handles POST /api/listings
func (h *Handler) CreateProduceListing(w http.ResponseWriter, r *http.Request) {
	var listing models.ProduceListing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if listing.FarmerID == "" || listing.Commodity == "" {
		http.Error(w, "farmer_id and commodity are required", http.StatusBadRequest)
		return
	}
	if !listing.AskPrice.IsPositive() || !listing.Quantity.IsPositive() {
		http.Error(w, "ask_price and quantity must be positive", http.StatusBadRequest)
		return
	}
	listing.Status = models.ListingStatusOpen

	if err := h.store.CreateProduceListing(&listing); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &listing)
}

// GetBidsForListing handles GET /api/listings/{id}/bids
func (h *Handler) GetBidsForListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	bids, err := h.store.GetBidsForListing(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, bids)
}

// CreateBid handles POST /api/listings/{id}/bids
func (h *Handler) CreateBid(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]

	var bid models.Bid
	if err := json.NewDecoder(r.Body).Decode(&bid); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if bid.BuyerID == "" {
		http.Error(w, "buyer_id is required", http.StatusBadRequest)
		return
	}
	if !bid.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	listing, err := h.store.GetProduceListing(listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if listing.Status != models.ListingStatusOpen {
		http.Error(w, "listing is not open for bidding", http.StatusConflict)
		return
	}

	bid.ListingID = listingID
	bid.Status = models.BidStatusPending
	if err := h.store.CreateBid(&bid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &bid)
}

// AcceptBid handles POST /api/bids/{id}/accept
func (h *Handler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	bid, err := h.store.AcceptBid(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "bid not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, bid)
}

// GetLogisticsOrders handles GET /api/logistics/orders?user_id=...
func (h *Handler) GetLogisticsOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	orders, err := h.store.GetLogisticsOrdersByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// CreateLogisticsOrder handles POST /api/logistics/orders
func (h *Handler) CreateLogisticsOrder(w http.ResponseWriter, r *http.Request) {
	var order models.LogisticsOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if order.UserID == "" || order.PickupLocation == "" || order.DropLocation == "" {
		http.Error(w, "user_id, pickup_location and drop_location are required", http.StatusBadRequest)
		return
	}
	order.Status = models.OrderStatusRequested

	if err := h.store.CreateLogisticsOrder(&order); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, &order)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
