package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmcare/farmcare/domain"
)

func ptr[T any](v T) *T { return &v }

func TestPriceTrend(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		current    float64
		previous   *float64
		wantTrend  string
		wantChange float64
	}{
		{"price rose", 110, ptr(100.0), domain.TrendUp, 10},
		{"price fell", 90, ptr(100.0), domain.TrendDown, -10},
		{"price unchanged", 100, ptr(100.0), domain.TrendStable, 0},
		{"no history", 100, nil, domain.TrendStable, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			current := &domain.Price{
				CropName:  "Rice",
				State:     "Kerala",
				Region:    "Thrissur",
				Price:     tc.current,
				CreatedAt: now,
			}

			repo := new(MockPriceRepository)
			repo.On("List", mock.Anything, domain.PriceFilter{State: "Kerala"}).
				Return([]*domain.Price{current}, nil)

			var history []*domain.Price
			if tc.previous != nil {
				history = []*domain.Price{{
					CropName:  "Rice",
					Price:     *tc.previous,
					CreatedAt: now.Add(-8 * 24 * time.Hour),
				}}
			}
			repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.PriceFilter) bool {
				return f.BeforeDate != nil && f.CropName == "Rice"
			})).Return(history, nil)

			svc := NewPriceService(repo)
			prices, err := svc.List(context.Background(), domain.PriceFilter{State: "Kerala"}, nil, nil)
			require.NoError(t, err)
			require.Len(t, prices, 1)
			assert.Equal(t, tc.wantTrend, prices[0].Trend)
			assert.InDelta(t, tc.wantChange, prices[0].Change, 0.01)
		})
	}
}

func TestPriceListSortsByDistance(t *testing.T) {
	far := &domain.Price{CropName: "Rice", Latitude: ptr(13.0), Longitude: ptr(80.2)}   // Chennai
	near := &domain.Price{CropName: "Rice", Latitude: ptr(10.5), Longitude: ptr(76.2)}  // Thrissur
	unknown := &domain.Price{CropName: "Rice"}                                          // no coordinates

	repo := new(MockPriceRepository)
	repo.On("List", mock.Anything, domain.PriceFilter{}).
		Return([]*domain.Price{far, unknown, near}, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.PriceFilter) bool {
		return f.BeforeDate != nil
	})).Return(nil, nil)

	svc := NewPriceService(repo)

	// Caller is in Kochi.
	prices, err := svc.List(context.Background(), domain.PriceFilter{}, ptr(9.93), ptr(76.27))
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Same(t, near, prices[0])
	assert.Same(t, far, prices[1])
	assert.Same(t, unknown, prices[2], "entries without coordinates sort last")
	assert.Less(t, *prices[0].Distance, *prices[1].Distance)
}

func TestHaversineKm(t *testing.T) {
	// Kochi to Chennai is roughly 550 km as the crow flies.
	d := haversineKm(9.93, 76.27, 13.08, 80.27)
	assert.InDelta(t, 550, d, 30)

	assert.InDelta(t, 0, haversineKm(10, 76, 10, 76), 0.001)
}

func TestPriceCreateRequiresFields(t *testing.T) {
	svc := NewPriceService(new(MockPriceRepository))
	_, err := svc.Create(context.Background(), &domain.Price{CropName: "Rice"})
	assert.ErrorIs(t, err, ErrMissingFields)
}
