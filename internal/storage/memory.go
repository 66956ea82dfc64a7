package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
)

// MemStorage is the in-memory backend: one map per entity type behind a
// single RWMutex. It starts from its own seeded sample data, not from a copy
// of relational state, so anything written to PostgreSQL before a downgrade
// is not visible here.
type MemStorage struct {
	mu              sync.RWMutex
	users           map[string]*models.User
	diseaseReports  map[string]*models.DiseaseReport
	communityPosts  map[string]*models.CommunityPost
	marketplace     map[string]*models.MarketplaceItem
	mandiPrices     map[string]*models.MandiPrice
	priceAlerts     map[string]*models.PriceAlert
	produceListings map[string]*models.ProduceListing
	bids            map[string]*models.Bid
	logisticsOrders map[string]*models.LogisticsOrder
}

// NewMemStorage creates an in-memory backend seeded with sample data.
func NewMemStorage() *MemStorage {
	m := &MemStorage{
		users:           make(map[string]*models.User),
		diseaseReports:  make(map[string]*models.DiseaseReport),
		communityPosts:  make(map[string]*models.CommunityPost),
		marketplace:     make(map[string]*models.MarketplaceItem),
		mandiPrices:     make(map[string]*models.MandiPrice),
		priceAlerts:     make(map[string]*models.PriceAlert),
		produceListings: make(map[string]*models.ProduceListing),
		bids:            make(map[string]*models.Bid),
		logisticsOrders: make(map[string]*models.LogisticsOrder),
	}
	m.seed()
	return m
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (m *MemStorage) seed() {
	demoUser := &models.User{
		ID:          uuid.NewString(),
		Phone:       "+919876543210",
		Name:        "Rajesh Kumar",
		Location:    "Sangli, MH",
		Language:    "en",
		IsOnboarded: true,
		CreatedAt:   time.Now().Add(-30 * 24 * time.Hour),
	}
	m.users[demoUser.ID] = demoUser

	posts := []*models.CommunityPost{
		{
			ID:        uuid.NewString(),
			UserID:    demoUser.ID,
			Title:     "Rice Disease Help Needed",
			Content:   "My rice crop is showing yellow spots on leaves. Has anyone faced similar issue? Looking for advice on treatment.",
			Likes:     24,
			Comments:  12,
			Tags:      []string{"rice", "disease", "help"},
			CreatedAt: time.Now().Add(-2 * 24 * time.Hour),
		},
		{
			ID:        uuid.NewString(),
			UserID:    demoUser.ID,
			Title:     "Cotton Harvest Success",
			Content:   "Great cotton harvest this season! Used organic fertilizers and the yield increased by 30%. Happy to share my experience with fellow farmers.",
			Likes:     18,
			Comments:  8,
			Tags:      []string{"cotton", "organic", "success"},
			CreatedAt: time.Now().Add(-4 * time.Hour),
		},
	}
	for _, p := range posts {
		m.communityPosts[p.ID] = p
	}

	items := []*models.MarketplaceItem{
		{
			ID:           uuid.NewString(),
			SellerID:     demoUser.ID,
			Title:        "Premium Rice Seeds",
			Description:  "High-yield Basmati rice seeds, disease-resistant variety. Perfect for Maharashtra climate.",
			Category:     models.CategorySeeds,
			Price:        decimal.NewFromInt(800),
			PriceUnit:    "per kg",
			Quantity:     decimal.NewFromInt(50),
			QuantityUnit: "kg",
			Location:     "Sangli, MH",
			ContactInfo:  "+91-9876543210",
			IsActive:     true,
			CreatedAt:    time.Now(),
		},
		{
			ID:           uuid.NewString(),
			SellerID:     demoUser.ID,
			Title:        "Organic Fertilizer",
			Description:  "100% organic cow dung fertilizer, perfect for all crops. Improves soil health naturally.",
			Category:     models.CategoryFertilizers,
			Price:        decimal.NewFromInt(15),
			PriceUnit:    "per kg",
			Quantity:     decimal.NewFromInt(500),
			QuantityUnit: "kg",
			Location:     "Kolhapur, MH",
			ContactInfo:  "+91-9876543211",
			IsActive:     true,
			CreatedAt:    time.Now(),
		},
	}
	for _, it := range items {
		m.marketplace[it.ID] = it
	}

	prices := []*models.MandiPrice{
		{
			ID:         uuid.NewString(),
			Market:     "Sangli Market",
			State:      "Maharashtra",
			Commodity:  "Rice",
			Variety:    "Basmati",
			Grade:      "Grade A",
			MinPrice:   dec("3000"),
			MaxPrice:   dec("3400"),
			ModalPrice: dec("3200"),
			PriceUnit:  models.DefaultPriceUnit,
			ReportDate: time.Now(),
			CreatedAt:  time.Now(),
		},
		{
			ID:         uuid.NewString(),
			Market:     "Sangli Market",
			State:      "Maharashtra",
			Commodity:  "Wheat",
			Variety:    "Lokvan",
			Grade:      "Grade A",
			MinPrice:   dec("2700"),
			MaxPrice:   dec("3000"),
			ModalPrice: dec("2850"),
			PriceUnit:  models.DefaultPriceUnit,
			ReportDate: time.Now(),
			CreatedAt:  time.Now(),
		},
	}
	for _, p := range prices {
		m.mandiPrices[p.ID] = p
	}
}

// --- Users ---

func (m *MemStorage) GetUser(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MemStorage) GetUserByPhone(phone string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user with phone %s: %w", phone, ErrNotFound)
}

func (m *MemStorage) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemStorage) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// --- Disease reports ---

func (m *MemStorage) CreateDiseaseReport(report *models.DiseaseReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()
	cp := *report
	m.diseaseReports[report.ID] = &cp
	return nil
}

func (m *MemStorage) GetDiseaseReport(id string) (*models.DiseaseReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.diseaseReports[id]
	if !ok {
		return nil, fmt.Errorf("disease report %s: %w", id, ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m *MemStorage) GetRecentDiseaseReports(userID string, limit int) ([]*models.DiseaseReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reports []*models.DiseaseReport
	for _, r := range m.diseaseReports {
		if r.UserID == userID {
			cp := *r
			reports = append(reports, &cp)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// --- Community ---

func (m *MemStorage) GetCommunityPosts(limit int) ([]*models.CommunityPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var posts []*models.CommunityPost
	for _, p := range m.communityPosts {
		cp := *p
		// Denormalized author lookup replaces the relational join.
		if u, ok := m.users[p.UserID]; ok {
			cp.User = &models.PostAuthor{Name: u.Name, Location: u.Location}
		}
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *MemStorage) CreateCommunityPost(post *models.CommunityPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()
	cp := *post
	cp.User = nil
	m.communityPosts[post.ID] = &cp
	return nil
}

func (m *MemStorage) LikeCommunityPost(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.communityPosts[id]
	if !ok {
		return fmt.Errorf("community post %s: %w", id, ErrNotFound)
	}
	p.Likes++
	return nil
}

func (m *MemStorage) GetCommunityStats() (*models.CommunityStats, error) {
	return &models.CommunityStats{
		TotalFarmers: "2.5K",
		ActivePosts:  "450",
		HelpRate:     "95%",
	}, nil
}

// --- Marketplace ---

func (m *MemStorage) GetMarketplaceItems(category string) ([]*models.MarketplaceItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*models.MarketplaceItem
	for _, it := range m.marketplace {
		if !it.IsActive {
			continue
		}
		if category != "" && category != "all" && it.Category != category {
			continue
		}
		cp := *it
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (m *MemStorage) CreateMarketplaceItem(item *models.MarketplaceItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	cp := *item
	m.marketplace[item.ID] = &cp
	return nil
}

// --- Mandi prices ---

func (m *MemStorage) GetMandiPrices(market, date string) ([]*models.MandiPrice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var filterDay time.Time
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, ErrInvalidInput)
		}
		filterDay = d
	}
	var prices []*models.MandiPrice
	for _, p := range m.mandiPrices {
		if market != "" && !strings.Contains(strings.ToLower(p.Market), strings.ToLower(market)) {
			continue
		}
		if date != "" && !sameDay(p.ReportDate, filterDay) {
			continue
		}
		cp := *p
		prices = append(prices, &cp)
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].ReportDate.After(prices[j].ReportDate)
	})
	return prices, nil
}

func (m *MemStorage) SaveMandiPrices(prices []*models.MandiPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range prices {
		cp := *p
		m.mandiPrices[p.ID] = &cp
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// --- Price alerts ---

func (m *MemStorage) CreatePriceAlert(alert *models.PriceAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	alert.ID = uuid.NewString()
	alert.CreatedAt = time.Now()
	if alert.PriceUnit == "" {
		alert.PriceUnit = models.DefaultPriceUnit
	}
	cp := *alert
	m.priceAlerts[alert.ID] = &cp
	return nil
}

func (m *MemStorage) GetPriceAlert(id string) (*models.PriceAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.priceAlerts[id]
	if !ok {
		return nil, fmt.Errorf("price alert %s: %w", id, ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *MemStorage) GetPriceAlertsByUser(userID string) ([]*models.PriceAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var alerts []*models.PriceAlert
	for _, a := range m.priceAlerts {
		if a.UserID == userID {
			cp := *a
			alerts = append(alerts, &cp)
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (m *MemStorage) GetActivePriceAlerts() ([]*models.PriceAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var alerts []*models.PriceAlert
	for _, a := range m.priceAlerts {
		if a.IsActive {
			cp := *a
			alerts = append(alerts, &cp)
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (m *MemStorage) UpdatePriceAlert(id string, upd *models.PriceAlertUpdate) (*models.PriceAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.priceAlerts[id]
	if !ok {
		return nil, fmt.Errorf("price alert %s: %w", id, ErrNotFound)
	}
	if upd.Commodity != nil {
		a.Commodity = *upd.Commodity
	}
	if upd.Market != nil {
		a.Market = *upd.Market
	}
	if upd.TargetPrice != nil {
		a.TargetPrice = *upd.TargetPrice
	}
	if upd.PriceUnit != nil {
		a.PriceUnit = *upd.PriceUnit
	}
	if upd.AlertType != nil {
		a.AlertType = *upd.AlertType
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	if upd.LastTriggered != nil {
		t := *upd.LastTriggered
		a.LastTriggered = &t
	}
	cp := *a
	return &cp, nil
}

func (m *MemStorage) DeletePriceAlert(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.priceAlerts[id]; !ok {
		return fmt.Errorf("price alert %s: %w", id, ErrNotFound)
	}
	delete(m.priceAlerts, id)
	return nil
}

// --- Produce bidding ---

func (m *MemStorage) CreateProduceListing(listing *models.ProduceListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing.ID = uuid.NewString()
	listing.CreatedAt = time.Now()
	if listing.Status == "" {
		listing.Status = models.ListingStatusOpen
	}
	cp := *listing
	m.produceListings[listing.ID] = &cp
	return nil
}

func (m *MemStorage) GetProduceListing(id string) (*models.ProduceListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.produceListings[id]
	if !ok {
		return nil, fmt.Errorf("produce listing %s: %w", id, ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (m *MemStorage) GetProduceListings(status string) ([]*models.ProduceListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var listings []*models.ProduceListing
	for _, l := range m.produceListings {
		if status != "" && l.Status != status {
			continue
		}
		cp := *l
		listings = append(listings, &cp)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

func (m *MemStorage) CreateBid(bid *models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.produceListings[bid.ListingID]; !ok {
		return fmt.Errorf("produce listing %s: %w", bid.ListingID, ErrNotFound)
	}
	bid.ID = uuid.NewString()
	bid.CreatedAt = time.Now()
	if bid.Status == "" {
		bid.Status = models.BidStatusPending
	}
	cp := *bid
	m.bids[bid.ID] = &cp
	return nil
}

func (m *MemStorage) GetBidsForListing(listingID string) ([]*models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bids []*models.Bid
	for _, b := range m.bids {
		if b.ListingID == listingID {
			cp := *b
			bids = append(bids, &cp)
		}
	}
	sort.Slice(bids, func(i, j int) bool {
		return bids[i].Amount.GreaterThan(bids[j].Amount)
	})
	return bids, nil
}

func (m *MemStorage) AcceptBid(id string) (*models.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bids[id]
	if !ok {
		return nil, fmt.Errorf("bid %s: %w", id, ErrNotFound)
	}
	b.Status = models.BidStatusAccepted
	if l, ok := m.produceListings[b.ListingID]; ok {
		l.Status = models.ListingStatusSold
	}
	cp := *b
	return &cp, nil
}

// --- Logistics ---

func (m *MemStorage) CreateLogisticsOrder(order *models.LogisticsOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()
	if order.Status == "" {
		order.Status = models.OrderStatusRequested
	}
	cp := *order
	m.logisticsOrders[order.ID] = &cp
	return nil
}

func (m *MemStorage) GetLogisticsOrdersByUser(userID string) ([]*models.LogisticsOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []*models.LogisticsOrder
	for _, o := range m.logisticsOrders {
		if o.UserID == userID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
