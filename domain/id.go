package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID generates a new entity identifier. Identifiers are ObjectID hex
// strings so that both store backends produce the same wire format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed entity identifier.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
