// Package monitor hosts the background price-alert checker: on a fixed
// interval it pulls active alerts, fetches current mandi prices per market,
// and notifies farmers whose targets were crossed.
//
// This is a single-process design. Running more than one instance against
// the same alert store would duplicate notifications.
package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/notify"
)

// DefaultCheckInterval is the gap between poll cycles.
const DefaultCheckInterval = 30 * time.Minute

// notifySendTimeout bounds a single SMS send; the upstream source had no
// per-call timeout at all.
const notifySendTimeout = 10 * time.Second

// AlertStore is the slice of the persistence layer the monitor needs.
type AlertStore interface {
	GetActivePriceAlerts() ([]*models.PriceAlert, error)
	UpdatePriceAlert(id string, upd *models.PriceAlertUpdate) (*models.PriceAlert, error)
	GetUser(id string) (*models.User, error)
}

// PriceFeed supplies the current price snapshot for a market.
type PriceFeed interface {
	GetPrices(ctx context.Context, market, date string) []*models.MandiPrice
}

// EventPublisher receives an event for every fired alert.
type EventPublisher interface {
	PublishAlertTriggered(ctx context.Context, alert *models.PriceAlert, currentPrice decimal.Decimal) error
}

// Config tunes the monitor. Zero values fall back to defaults.
type Config struct {
	CheckInterval time.Duration
	Cooldown      time.Duration
	// Events is optional; nil disables event publishing.
	Events EventPublisher
	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service runs the periodic alert check. It has two states, stopped and
// running; Start and Stop are both idempotent.
type Service struct {
	store    AlertStore
	feed     PriceFeed
	notifier notify.Notifier
	events   EventPublisher
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped monitor service.
func New(store AlertStore, feed PriceFeed, notifier notify.Notifier, cfg Config) *Service {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:    store,
		feed:     feed,
		notifier: notifier,
		events:   cfg.Events,
		interval: cfg.CheckInterval,
		cooldown: cfg.Cooldown,
		now:      cfg.Now,
	}
}

// Start runs one check immediately, then schedules recurring checks. Calling
// Start on a running service is a logged no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		slog.Info("price monitor is already running")
		return
	}

	slog.Info("starting price monitor", "interval", s.interval)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

func (s *Service) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.CheckPriceAlerts(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckPriceAlerts(ctx)
		}
	}
}

// Stop cancels the schedule and waits for the loop to exit; an in-flight
// cycle is allowed to finish. Calling Stop on a stopped service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}

	slog.Info("stopping price monitor")
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Running reports whether the service is scheduled.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// CheckPriceAlerts performs one full check cycle. Failures at every level
// are logged and contained: a bad alert never takes down its siblings, and a
// bad cycle never takes down the schedule.
func (s *Service) CheckPriceAlerts(ctx context.Context) {
	alerts, err := s.store.GetActivePriceAlerts()
	if err != nil {
		slog.Error("failed to list active price alerts", "error", err)
		return
	}
	if len(alerts) == 0 {
		slog.Debug("no active price alerts")
		return
	}
	slog.Info("checking price alerts", "count", len(alerts))

	byMarket := make(map[string][]*models.PriceAlert)
	for _, a := range alerts {
		byMarket[a.Market] = append(byMarket[a.Market], a)
	}

	for market, group := range byMarket {
		s.checkMarketAlerts(ctx, market, group)
	}
}

func (s *Service) checkMarketAlerts(ctx context.Context, market string, alerts []*models.PriceAlert) {
	prices := s.feed.GetPrices(ctx, market, "")
	if len(prices) == 0 {
		slog.Info("no prices found for market", "market", market)
		return
	}

	priceMap := buildPriceMap(prices)
	for _, alert := range alerts {
		s.checkSingleAlert(ctx, alert, priceMap)
	}
}

func (s *Service) checkSingleAlert(ctx context.Context, alert *models.PriceAlert, priceMap map[string]*models.MandiPrice) {
	row, ok := priceMap[strings.ToLower(alert.Commodity)]
	if !ok {
		slog.Debug("no current price data for alert commodity",
			"commodity", alert.Commodity, "market", alert.Market)
		return
	}

	currentPrice, ok := ResolvePrice(row)
	if !ok {
		slog.Debug("no usable price for alert commodity", "commodity", alert.Commodity)
		return
	}

	if ShouldTrigger(alert, currentPrice, alert.TargetPrice, s.now(), s.cooldown) {
		s.triggerAlert(ctx, alert, currentPrice)
	}
}

func (s *Service) triggerAlert(ctx context.Context, alert *models.PriceAlert, currentPrice decimal.Decimal) {
	user, err := s.store.GetUser(alert.UserID)
	if err != nil {
		slog.Error("user not found for alert", "alert_id", alert.ID, "user_id", alert.UserID, "error", err)
		return
	}

	message := formatAlertMessage(alert, currentPrice)

	sendCtx, cancel := context.WithTimeout(ctx, notifySendTimeout)
	if err := s.notifier.Send(sendCtx, user.Phone, message); err != nil {
		// SMS failure must not block the cooldown bookkeeping below.
		slog.Error("failed to send price alert SMS", "alert_id", alert.ID, "error", err)
	} else {
		slog.Info("price alert sent", "alert_id", alert.ID, "commodity", alert.Commodity,
			"market", alert.Market, "phone", user.Phone)
	}
	cancel()

	if s.events != nil {
		if err := s.events.PublishAlertTriggered(ctx, alert, currentPrice); err != nil {
			slog.Error("failed to publish alert event", "alert_id", alert.ID, "error", err)
		}
	}

	triggeredAt := s.now()
	if _, err := s.store.UpdatePriceAlert(alert.ID, &models.PriceAlertUpdate{LastTriggered: &triggeredAt}); err != nil {
		slog.Error("failed to record alert trigger time", "alert_id", alert.ID, "error", err)
	}
}

func formatAlertMessage(alert *models.PriceAlert, currentPrice decimal.Decimal) string {
	direction := "risen above"
	if alert.AlertType == models.AlertTypeBelow {
		direction = "fallen below"
	}
	return "FarmConnect Alert: " + alert.Commodity + " price in " + alert.Market +
		" has " + direction + " your target of " + formatINR(alert.TargetPrice) +
		". Current price: " + formatINR(currentPrice) + " " + alert.PriceUnit +
		". Check the app for more details."
}
