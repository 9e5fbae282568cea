package domain

import "time"

// Article is an expert-written advisory article.
type Article struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Author      string    `bson:"author" json:"author"`
	Category    string    `bson:"category" json:"category"`
	ReadTime    int       `bson:"read_time" json:"read_time"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
