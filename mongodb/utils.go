package mongodb

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewObjectID generates a new MongoDB ObjectID as a hex string.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}
