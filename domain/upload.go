package domain

import "time"

// Upload records a plant-image analysis request made by a user.
type Upload struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	FileName  string    `bson:"file_name" json:"file_name"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImageKey  string    `bson:"image_key,omitempty" json:"-"`
	Analysis  string    `bson:"analysis,omitempty" json:"analysis,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
