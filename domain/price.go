package domain

import "time"

// Trend direction of a crop price relative to the previous week.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Price is a market price entry for a crop in a region.
type Price struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	CropName      string    `bson:"crop_name" json:"crop_name"`
	Price         float64   `bson:"price" json:"price"`
	State         string    `bson:"state" json:"state"`
	Region        string    `bson:"region" json:"region"`
	Market        string    `bson:"market,omitempty" json:"market,omitempty"`
	DateEffective string    `bson:"date_effective" json:"date_effective"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImageKey      string    `bson:"image_key,omitempty" json:"-"`
	Latitude      *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"-"`
	UpdatedAt     time.Time `bson:"updated_at" json:"-"`

	// Derived per request, never persisted.
	Trend    string   `bson:"-" json:"trend,omitempty"`
	Change   float64  `bson:"-" json:"change"`
	Distance *float64 `bson:"-" json:"distance,omitempty"`
}

// PriceFilter narrows price listings.
type PriceFilter struct {
	State      string
	Region     string
	CropName   string
	BeforeDate *time.Time
}
