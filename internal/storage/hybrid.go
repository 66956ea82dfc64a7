package storage

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/jayant-source/farmconnect/internal/models"
)

// Hybrid is a Storage decorator that serves every operation from the primary
// (PostgreSQL) backend until the first infrastructure failure, then switches
// to the in-memory fallback for the remainder of the process lifetime.
//
// The downgrade is one-directional on purpose: a flapping database must not
// split reads between backends within one process. Recovery is an operator
// action (restart), surfaced through Degraded(). Writes that reached the
// primary before the downgrade are not replayed into the fallback; that
// visibility gap is accepted.
type Hybrid struct {
	primary  Storage
	fallback Storage
	degraded atomic.Bool
}

// NewHybrid composes a primary backend with an in-memory fallback. A nil
// primary starts the facade already degraded.
func NewHybrid(primary Storage, fallback *MemStorage) *Hybrid {
	h := &Hybrid{primary: primary, fallback: fallback}
	if primary == nil {
		h.degraded.Store(true)
		slog.Warn("no primary storage configured, serving from memory")
	}
	return h
}

// Degraded reports whether the facade has switched to the in-memory backend.
func (h *Hybrid) Degraded() bool {
	return h.degraded.Load()
}

func (h *Hybrid) degrade(op string, err error) {
	if h.degraded.CompareAndSwap(false, true) {
		slog.Warn("primary storage failed, downgrading to in-memory backend for process lifetime",
			"op", op, "error", err)
	}
}

// domainError reports whether err is caller-facing domain state (missing row,
// rejected argument) rather than a backend failure.
func domainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput)
}

// get runs a value-returning operation with the fallback contract. Domain
// errors never count as backend failures.
func get[T any](h *Hybrid, op string, fn func(Storage) (T, error)) (T, error) {
	if h.degraded.Load() {
		return fn(h.fallback)
	}
	v, err := fn(h.primary)
	if err == nil || domainError(err) {
		return v, err
	}
	h.degrade(op, err)
	return fn(h.fallback)
}

// do is get for operations without a result.
func (h *Hybrid) do(op string, fn func(Storage) error) error {
	if h.degraded.Load() {
		return fn(h.fallback)
	}
	err := fn(h.primary)
	if err == nil || domainError(err) {
		return err
	}
	h.degrade(op, err)
	return fn(h.fallback)
}

func (h *Hybrid) GetUser(id string) (*models.User, error) {
	return get(h, "GetUser", func(s Storage) (*models.User, error) { return s.GetUser(id) })
}

func (h *Hybrid) GetUserByPhone(phone string) (*models.User, error) {
	return get(h, "GetUserByPhone", func(s Storage) (*models.User, error) { return s.GetUserByPhone(phone) })
}

func (h *Hybrid) CreateUser(user *models.User) error {
	return h.do("CreateUser", func(s Storage) error { return s.CreateUser(user) })
}

func (h *Hybrid) UpdateUser(user *models.User) error {
	return h.do("UpdateUser", func(s Storage) error { return s.UpdateUser(user) })
}

func (h *Hybrid) CreateDiseaseReport(report *models.DiseaseReport) error {
	return h.do("CreateDiseaseReport", func(s Storage) error { return s.CreateDiseaseReport(report) })
}

func (h *Hybrid) GetDiseaseReport(id string) (*models.DiseaseReport, error) {
	return get(h, "GetDiseaseReport", func(s Storage) (*models.DiseaseReport, error) { return s.GetDiseaseReport(id) })
}

func (h *Hybrid) GetRecentDiseaseReports(userID string, limit int) ([]*models.DiseaseReport, error) {
	return get(h, "GetRecentDiseaseReports", func(s Storage) ([]*models.DiseaseReport, error) {
		return s.GetRecentDiseaseReports(userID, limit)
	})
}

func (h *Hybrid) GetCommunityPosts(limit int) ([]*models.CommunityPost, error) {
	return get(h, "GetCommunityPosts", func(s Storage) ([]*models.CommunityPost, error) { return s.GetCommunityPosts(limit) })
}

func (h *Hybrid) CreateCommunityPost(post *models.CommunityPost) error {
	return h.do("CreateCommunityPost", func(s Storage) error { return s.CreateCommunityPost(post) })
}

func (h *Hybrid) LikeCommunityPost(id string) error {
	return h.do("LikeCommunityPost", func(s Storage) error { return s.LikeCommunityPost(id) })
}

func (h *Hybrid) GetCommunityStats() (*models.CommunityStats, error) {
	return get(h, "GetCommunityStats", func(s Storage) (*models.CommunityStats, error) { return s.GetCommunityStats() })
}

func (h *Hybrid) GetMarketplaceItems(category string) ([]*models.MarketplaceItem, error) {
	return get(h, "GetMarketplaceItems", func(s Storage) ([]*models.MarketplaceItem, error) {
		return s.GetMarketplaceItems(category)
	})
}

func (h *Hybrid) CreateMarketplaceItem(item *models.MarketplaceItem) error {
	return h.do("CreateMarketplaceItem", func(s Storage) error { return s.CreateMarketplaceItem(item) })
}

func (h *Hybrid) GetMandiPrices(market, date string) ([]*models.MandiPrice, error) {
	return get(h, "GetMandiPrices", func(s Storage) ([]*models.MandiPrice, error) { return s.GetMandiPrices(market, date) })
}

func (h *Hybrid) SaveMandiPrices(prices []*models.MandiPrice) error {
	return h.do("SaveMandiPrices", func(s Storage) error { return s.SaveMandiPrices(prices) })
}

func (h *Hybrid) CreatePriceAlert(alert *models.PriceAlert) error {
	return h.do("CreatePriceAlert", func(s Storage) error { return s.CreatePriceAlert(alert) })
}

func (h *Hybrid) GetPriceAlert(id string) (*models.PriceAlert, error) {
	return get(h, "GetPriceAlert", func(s Storage) (*models.PriceAlert, error) { return s.GetPriceAlert(id) })
}

func (h *Hybrid) GetPriceAlertsByUser(userID string) ([]*models.PriceAlert, error) {
	return get(h, "GetPriceAlertsByUser", func(s Storage) ([]*models.PriceAlert, error) {
		return s.GetPriceAlertsByUser(userID)
	})
}

func (h *Hybrid) GetActivePriceAlerts() ([]*models.PriceAlert, error) {
	return get(h, "GetActivePriceAlerts", func(s Storage) ([]*models.PriceAlert, error) { return s.GetActivePriceAlerts() })
}

func (h *Hybrid) UpdatePriceAlert(id string, upd *models.PriceAlertUpdate) (*models.PriceAlert, error) {
	return get(h, "UpdatePriceAlert", func(s Storage) (*models.PriceAlert, error) { return s.UpdatePriceAlert(id, upd) })
}

func (h *Hybrid) DeletePriceAlert(id string) error {
	return h.do("DeletePriceAlert", func(s Storage) error { return s.DeletePriceAlert(id) })
}

func (h *Hybrid) CreateProduceListing(listing *models.ProduceListing) error {
	return h.do("CreateProduceListing", func(s Storage) error { return s.CreateProduceListing(listing) })
}

func (h *Hybrid) GetProduceListing(id string) (*models.ProduceListing, error) {
	return get(h, "GetProduceListing", func(s Storage) (*models.ProduceListing, error) { return s.GetProduceListing(id) })
}

func (h *Hybrid) GetProduceListings(status string) ([]*models.ProduceListing, error) {
	return get(h, "GetProduceListings", func(s Storage) ([]*models.ProduceListing, error) {
		return s.GetProduceListings(status)
	})
}

func (h *Hybrid) CreateBid(bid *models.Bid) error {
	return h.do("CreateBid", func(s Storage) error { return s.CreateBid(bid) })
}

func (h *Hybrid) GetBidsForListing(listingID string) ([]*models.Bid, error) {
	return get(h, "GetBidsForListing", func(s Storage) ([]*models.Bid, error) { return s.GetBidsForListing(listingID) })
}

func (h *Hybrid) AcceptBid(id string) (*models.Bid, error) {
	return get(h, "AcceptBid", func(s Storage) (*models.Bid, error) { return s.AcceptBid(id) })
}

func (h *Hybrid) CreateLogisticsOrder(order *models.LogisticsOrder) error {
	return h.do("CreateLogisticsOrder", func(s Storage) error { return s.CreateLogisticsOrder(order) })
}

func (h *Hybrid) GetLogisticsOrdersByUser(userID string) ([]*models.LogisticsOrder, error) {
	return get(h, "GetLogisticsOrdersByUser", func(s Storage) ([]*models.LogisticsOrder, error) {
		return s.GetLogisticsOrdersByUser(userID)
	})
}
