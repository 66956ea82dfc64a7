package storage

import (
	"errors"

	"github.com/jayant-source/farmconnect/internal/models"
)

// ErrNotFound reports that an entity does not exist. It is domain state, not
// a backend failure: the hybrid facade passes it through without degrading.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput reports that a caller-supplied argument was rejected before
// any backend work happened. Like ErrNotFound, it never degrades the facade.
var ErrInvalidInput = errors.New("invalid input")

// Storage is the unified persistence contract. Two implementations exist:
// the PostgreSQL backend in internal/database and the in-memory backend in
// this package. Hybrid composes the two.
type Storage interface {
	// Users
	GetUser(id string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error

	// Disease reports
	CreateDiseaseReport(report *models.DiseaseReport) error
	GetDiseaseReport(id string) (*models.DiseaseReport, error)
	GetRecentDiseaseReports(userID string, limit int) ([]*models.DiseaseReport, error)

	// Community
	GetCommunityPosts(limit int) ([]*models.CommunityPost, error)
	CreateCommunityPost(post *models.CommunityPost) error
	LikeCommunityPost(id string) error
	GetCommunityStats() (*models.CommunityStats, error)

	// Marketplace
	GetMarketplaceItems(category string) ([]*models.MarketplaceItem, error)
	CreateMarketplaceItem(item *models.MarketplaceItem) error

	// Mandi prices
	GetMandiPrices(market, date string) ([]*models.MandiPrice, error)
	SaveMandiPrices(prices []*models.MandiPrice) error

	// Price alerts
	CreatePriceAlert(alert *models.PriceAlert) error
	GetPriceAlert(id string) (*models.PriceAlert, error)
	GetPriceAlertsByUser(userID string) ([]*models.PriceAlert, error)
	GetActivePriceAlerts() ([]*models.PriceAlert, error)
	UpdatePriceAlert(id string, upd *models.PriceAlertUpdate) (*models.PriceAlert, error)
	DeletePriceAlert(id string) error

	// Produce bidding
	CreateProduceListing(listing *models.ProduceListing) error
	GetProduceListing(id string) (*models.ProduceListing, error)
	GetProduceListings(status string) ([]*models.ProduceListing, error)
	CreateBid(bid *models.Bid) error
	GetBidsForListing(listingID string) ([]*models.Bid, error)
	AcceptBid(id string) (*models.Bid, error)

	// Logistics
	CreateLogisticsOrder(order *models.LogisticsOrder) error
	GetLogisticsOrdersByUser(userID string) ([]*models.LogisticsOrder, error)
}
