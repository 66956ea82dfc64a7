package monitor

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayant-source/farmconnect/internal/models"
)

// DefaultCooldown is the minimum gap between two notifications for the same
// alert, so a price that stays past the target doesn't spam the farmer on
// every poll.
const DefaultCooldown = 2 * time.Hour

// ShouldTrigger reports whether an alert fires for the given current price.
// An alert inside its cooldown window never fires, regardless of prices.
func ShouldTrigger(alert *models.PriceAlert, currentPrice, targetPrice decimal.Decimal, now time.Time, cooldown time.Duration) bool {
	if alert.LastTriggered != nil && now.Sub(*alert.LastTriggered) < cooldown {
		return false
	}

	switch alert.AlertType {
	case models.AlertTypeAbove:
		return currentPrice.GreaterThanOrEqual(targetPrice)
	case models.AlertTypeBelow:
		return currentPrice.LessThanOrEqual(targetPrice)
	}
	return false
}

// ResolvePrice extracts the price used for alert evaluation from a snapshot
// row: modal price first, max price as fallback. ok is false when the row
// carries neither, in which case the commodity is skipped for the cycle.
func ResolvePrice(price *models.MandiPrice) (decimal.Decimal, bool) {
	if price.ModalPrice != nil {
		return *price.ModalPrice, true
	}
	if price.MaxPrice != nil {
		return *price.MaxPrice, true
	}
	return decimal.Decimal{}, false
}

// buildPriceMap keys a snapshot by lowercased commodity for case-insensitive
// alert lookup. Later rows for the same commodity win, matching feed order.
func buildPriceMap(prices []*models.MandiPrice) map[string]*models.MandiPrice {
	m := make(map[string]*models.MandiPrice, len(prices))
	for _, p := range prices {
		m[strings.ToLower(p.Commodity)] = p
	}
	return m
}

// formatINR renders a price as rupees with Indian digit grouping and no
// fraction digits, e.g. 450000 -> ₹4,50,000.
func formatINR(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")

	if len(s) > 3 {
		head := s[:len(s)-3]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		b.WriteString(strings.Join(groups, ","))
		b.WriteString(",")
		b.WriteString(s[len(s)-3:])
	} else {
		b.WriteString(s)
	}
	return b.String()
}
