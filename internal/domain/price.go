package domain

import (
	"fmt"
	"math"
	"time"
)

// QueryItem is what the item classifier hands over for a lookup
type QueryItem struct {
	Name          string `json:"name"`
	BaseName      string `json:"base_name,omitempty"`
	CategoryAPIID string `json:"category_api_id"`
}

// PriceData is the result of a single lookup. It is built fresh per call and owned by the caller.
type PriceData struct {
	MinPrice        float64   `json:"min_price"`
	MaxPrice        float64   `json:"max_price"`
	CurrentPrice    float64   `json:"current_price"`
	ChangeLast7Days float64   `json:"change_last_7_days"`
	ItemType        ItemType  `json:"item_type"`
	CategoryAPIID   string    `json:"category_api_id"`
	DetailsID       string    `json:"details_id,omitempty"`
	IsChanceable    bool      `json:"is_chanceable"`
	PriceHistory    []float64 `json:"price_history,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

const priceChangeWindow = 7 * 24 * time.Hour

func (p PriceData) HasValidPrice() bool {
	return p.CurrentPrice > 0 || p.MinPrice > 0 || p.MaxPrice > 0
}

func (p PriceData) BestPrice() float64 {
	switch {
	case p.CurrentPrice > 0:
		return p.CurrentPrice
	case p.MinPrice > 0:
		return p.MinPrice
	case p.MaxPrice > 0:
		return p.MaxPrice
	default:
		return 0
	}
}

// PriceRange renders "min - max" when the bounds differ, otherwise the best price
func (p PriceData) PriceRange() string {
	if p.MinPrice > 0 && p.MaxPrice > 0 && math.Abs(p.MinPrice-p.MaxPrice) > 0.01 {
		return fmt.Sprintf("%s - %s", trimFloat(p.MinPrice), FormatPrice(p.MaxPrice))
	}
	return FormatPrice(p.BestPrice())
}

func (p PriceData) String() string {
	return fmt.Sprintf("Price: %s, Type: %s, Category: %s", FormatPrice(p.BestPrice()), p.ItemType, p.CategoryAPIID)
}

// ApplyQuote fills the price fields from a matched catalog entry.
// Min/max span the current price and every sample inside the 7 days before the newest one.
func (p *PriceData) ApplyQuote(current *float64, logs []*PriceLog) {
	if current != nil {
		p.CurrentPrice = *current
	}
	p.MinPrice = p.CurrentPrice
	p.MaxPrice = p.CurrentPrice

	samples := make([]*PriceLog, 0, len(logs))
	for _, l := range logs {
		if l != nil {
			samples = append(samples, l)
		}
	}
	if len(samples) == 0 {
		return
	}

	p.PriceHistory = make([]float64, 0, len(samples))
	newest := samples[0]
	for _, s := range samples {
		p.PriceHistory = append(p.PriceHistory, s.Price)
		if s.Time.After(newest.Time.Time) {
			newest = s
		}
	}

	cutoff := newest.Time.Add(-priceChangeWindow)
	oldest := newest
	for _, s := range samples {
		if s.Time.Before(cutoff) || s.Price <= 0 {
			continue
		}
		if s.Time.Before(oldest.Time.Time) {
			oldest = s
		}
		if p.MinPrice <= 0 || s.Price < p.MinPrice {
			p.MinPrice = s.Price
		}
		if s.Price > p.MaxPrice {
			p.MaxPrice = s.Price
		}
	}

	if oldest != newest && oldest.Price > 0 && newest.Price > 0 {
		p.ChangeLast7Days = (newest.Price - oldest.Price) / oldest.Price * 100
	}
}
