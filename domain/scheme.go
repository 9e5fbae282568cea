package domain

import "time"

// Scheme is a government support scheme announced for a state.
type Scheme struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Eligibility string    `bson:"eligibility" json:"eligibility"`
	Benefits    string    `bson:"benefits" json:"benefits"`
	State       string    `bson:"state" json:"state"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
