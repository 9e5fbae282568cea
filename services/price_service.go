package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/domain"
)

// trendWindow is how far back a price is compared against to derive its
// trend direction.
const trendWindow = 7 * 24 * time.Hour

// PriceService manages crop market prices and derives their presentation
// fields: week-over-week trend and distance from the requesting user.
type PriceService struct {
	prices domain.PriceRepository
}

// NewPriceService creates a PriceService.
func NewPriceService(prices domain.PriceRepository) *PriceService {
	return &PriceService{prices: prices}
}

// Create adds a new price entry.
func (s *PriceService) Create(ctx context.Context, price *domain.Price) (*domain.Price, error) {
	if price.CropName == "" || price.State == "" {
		return nil, ErrMissingFields
	}
	if err := s.prices.Create(ctx, price); err != nil {
		return nil, err
	}
	return price, nil
}

// Update applies a partial update and returns the updated entry.
func (s *PriceService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Price, error) {
	return s.prices.Update(ctx, id, fields)
}

// Delete removes a price entry.
func (s *PriceService) Delete(ctx context.Context, id string) error {
	return s.prices.Delete(ctx, id)
}

// List returns price entries matching the filter, each annotated with its
// trend against the same crop's price a week earlier. When the caller's
// coordinates are known the entries are also annotated with distance and
// sorted nearest first; entries without coordinates sort last.
func (s *PriceService) List(ctx context.Context, filter domain.PriceFilter, lat, lon *float64) ([]*domain.Price, error) {
	prices, err := s.prices.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, p := range prices {
		s.annotateTrend(ctx, p)
	}

	if lat != nil && lon != nil {
		for _, p := range prices {
			if p.Latitude != nil && p.Longitude != nil {
				d := haversineKm(*lat, *lon, *p.Latitude, *p.Longitude)
				p.Distance = &d
			}
		}
		sort.SliceStable(prices, func(i, j int) bool {
			di, dj := prices[i].Distance, prices[j].Distance
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}

	return prices, nil
}

// annotateTrend compares the entry against the newest price for the same
// crop and region recorded at least a week before it.
func (s *PriceService) annotateTrend(ctx context.Context, p *domain.Price) {
	p.Trend = domain.TrendStable
	p.Change = 0

	cutoff := p.CreatedAt.Add(-trendWindow)
	older, err := s.prices.List(ctx, domain.PriceFilter{
		State:      p.State,
		Region:     p.Region,
		CropName:   p.CropName,
		BeforeDate: &cutoff,
	})
	if err != nil {
		log.Warn().Err(err).Str("crop", p.CropName).Msg("Failed to look up historical price for trend")
		return
	}
	if len(older) == 0 {
		return
	}

	prev := older[0].Price // newest entry before the cutoff
	if prev == 0 {
		return
	}

	p.Change = math.Round((p.Price-prev)/prev*10000) / 100
	switch {
	case p.Price > prev:
		p.Trend = domain.TrendUp
	case p.Price < prev:
		p.Trend = domain.TrendDown
	}
}

// haversineKm returns the great-circle distance between two points in
// kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
